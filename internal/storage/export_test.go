// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and all-or-nothing imports.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"gopkg.in/yaml.v3"
)

// seedExportData gives a user one of everything and returns the user.
func seedExportData(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	ctx := context.Background()

	u := createTestUser(t, db, username)
	ing := createTestIngredient(t, db, u.ID, "Chicken Breast", chicken)
	meal := createTestMeal(t, db, u.ID, "Lunch")
	if _, err := db.AddMealIngredient(ctx, u.ID, meal.ID, ing.ID, 150); err != nil {
		t.Fatalf("AddMealIngredient failed: %v", err)
	}
	log, err := db.GetOrCreateDailyLog(ctx, u.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}
	steps := 8000
	if _, err := db.UpdateDailyLogMetrics(ctx, u.ID, log.ID, models.DailyMetrics{Steps: &steps}); err != nil {
		t.Fatalf("UpdateDailyLogMetrics failed: %v", err)
	}
	if _, err := db.AttachMeal(ctx, u.ID, log.ID, meal.ID, 2); err != nil {
		t.Fatalf("AttachMeal failed: %v", err)
	}
	w := models.NewWorkoutSession(u.ID).WithPerformedAt(time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local))
	w.Exercises = []models.WorkoutExercise{*models.NewWorkoutExercise(w.ID, "Deadlift").WithSets(3).WithReps(5).WithWeight(140)}
	if err := db.CreateWorkoutSession(ctx, w); err != nil {
		t.Fatalf("CreateWorkoutSession failed: %v", err)
	}
	return u
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	u := seedExportData(t, db, "jack")

	data, err := db.ExportJSON(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "jacktrack" {
		t.Errorf("Expected tool jacktrack, got %s", export.Tool)
	}
	if export.Username != "jack" {
		t.Errorf("Expected username jack, got %s", export.Username)
	}
	if len(export.Ingredients) != 1 || len(export.Meals) != 1 || len(export.DailyLogs) != 1 || len(export.Workouts) != 1 {
		t.Errorf("unexpected counts: %d ingredients, %d meals, %d logs, %d workouts",
			len(export.Ingredients), len(export.Meals), len(export.DailyLogs), len(export.Workouts))
	}
	if export.Ingredients[0].Calories != 165 {
		t.Errorf("ingredient macros should be flattened, got %+v", export.Ingredients[0].Macros)
	}
}

func TestExportOnlyOwnData(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db, "jack")
	other := createTestUser(t, db, "jill")

	data, err := db.GetAllData(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(data.Ingredients)+len(data.Meals)+len(data.DailyLogs)+len(data.Workouts) != 0 {
		t.Errorf("export leaked another user's data: %+v", data)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	u := seedExportData(t, db, "jack")

	data, err := db.ExportYAML(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if yamlData["tool"] != "jacktrack" {
		t.Errorf("Expected tool jacktrack, got %v", yamlData["tool"])
	}

	ingredients, ok := yamlData["ingredients"].([]interface{})
	if !ok || len(ingredients) != 1 {
		t.Fatalf("Expected one ingredient, got %v", yamlData["ingredients"])
	}
	first, ok := ingredients[0].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected ingredient to be a map")
	}
	if _, ok := first["calories"]; !ok {
		t.Error("Expected macros inlined on the ingredient")
	}
	if _, ok := first["user_id"]; ok {
		t.Error("user_id should not be exported to YAML")
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	u := seedExportData(t, db, "jack")

	md, err := db.ExportMarkdown(context.Background(), u.ID, "")
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Jacktrack Export",
		"## Ingredients (per 100g)",
		"| Chicken Breast | 165.0 | 31.0 |",
		"### Lunch",
		"- 150 g Chicken Breast",
		"Totals: 247.5 kcal, 46.5 g protein",
		"### 2024-03-01",
		"- Steps: 8000",
		"- Lunch x2",
		"Totals: 495.0 kcal, 93.0 g protein",
		"## Workouts",
		"| Deadlift | 3 | 5 | 140 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestExportMarkdownWithSince(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedExportData(t, db, "jack")
	if _, err := db.GetOrCreateDailyLog(ctx, u.ID, "2024-04-10"); err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	md, err := db.ExportMarkdown(ctx, u.ID, "2024-04-01")
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "### 2024-04-10") {
		t.Error("Expected the recent day")
	}
	if strings.Contains(md, "### 2024-03-01") {
		t.Error("Should not contain days before since")
	}
	if strings.Contains(md, "## Workouts") {
		t.Error("Should not contain workouts before since")
	}
}

func TestExportMarkdownEmpty(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "jack")

	md, err := db.ExportMarkdown(context.Background(), u.ID, "")
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "# Jacktrack Export") {
		t.Error("Expected header even when empty")
	}
	if strings.Contains(md, "## Meals") {
		t.Error("Empty export should have no meal section")
	}
}

func TestImportRoundTripJSON(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	u := seedExportData(t, src, "jack")

	raw, err := src.ExportJSON(ctx, u.ID)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	target := createTestUser(t, dst, "jack")
	if err := dst.ImportJSON(ctx, target.ID, raw); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	logs, err := dst.ListDailyLogs(ctx, target.ID, DailyLogFilter{})
	if err != nil {
		t.Fatalf("ListDailyLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	totals := logs[0].Totals()
	if totals.Calories != 495 || totals.Protein != 93 {
		t.Errorf("imported day totals = %+v", totals)
	}
	if logs[0].Steps == nil || *logs[0].Steps != 8000 {
		t.Errorf("imported steps = %v", logs[0].Steps)
	}

	workouts, _ := dst.ListWorkoutSessions(ctx, target.ID, 0)
	if len(workouts) != 1 || len(workouts[0].Exercises) != 1 {
		t.Errorf("imported workouts = %+v", workouts)
	}
}

func TestImportRoundTripYAML(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	u := seedExportData(t, src, "jack")

	raw, err := src.ExportYAML(ctx, u.ID)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	dst := setupTestDB(t)
	target := createTestUser(t, dst, "jack")
	if err := dst.ImportYAML(ctx, target.ID, raw); err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}

	meals, err := dst.ListMeals(ctx, target.ID)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}
	if got := meals[0].Totals().Calories; got != 247.5 {
		t.Errorf("imported meal calories = %v, want 247.5", got)
	}
}

func TestImportFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := createTestUser(t, db, "jack")

	now := time.Now()
	ing := models.NewIngredient(u.ID, "Oats", models.Macros{Calories: 389})
	meal := models.NewMeal(u.ID, "Porridge")
	meal.Ingredients = []models.MealIngredient{
		{ID: uuid.New(), IngredientID: ing.ID, QuantityGrams: 50, CreatedAt: now},
		{ID: uuid.New(), IngredientID: uuid.New(), QuantityGrams: 10, CreatedAt: now},
	}
	data := &ExportData{
		Version:     ExportVersion,
		Ingredients: []*models.Ingredient{ing},
		Meals:       []*models.Meal{meal},
	}

	err := db.ImportData(ctx, u.ID, data)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for the dangling ingredient, got %v", err)
	}

	ingredients, _ := db.ListIngredients(ctx, u.ID)
	meals, _ := db.ListMeals(ctx, u.ID)
	if len(ingredients) != 0 || len(meals) != 0 {
		t.Errorf("failed import left %d ingredients and %d meals", len(ingredients), len(meals))
	}
}

func TestImportTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedExportData(t, db, "jack")

	data, err := db.GetAllData(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if err := db.ImportData(ctx, u.ID, data); err == nil {
		t.Fatal("expected importing existing records to fail")
	}

	ingredients, _ := db.ListIngredients(ctx, u.ID)
	if len(ingredients) != 1 {
		t.Errorf("expected the original single ingredient, got %d", len(ingredients))
	}
}

func TestImportDuplicateNameIsValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := createTestUser(t, db, "jack")
	createTestIngredient(t, db, u.ID, "Oats", models.Macros{Calories: 389})

	data := &ExportData{
		Version:     ExportVersion,
		Ingredients: []*models.Ingredient{models.NewIngredient(u.ID, "Oats", models.Macros{Calories: 380})},
	}
	if err := db.ImportData(ctx, u.ID, data); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for a duplicate name, got %v", err)
	}
}

func TestImportUserDataCreatesUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := models.NewUser("jack", "jack@example.com")
	data := &ExportData{
		Version:     ExportVersion,
		Ingredients: []*models.Ingredient{models.NewIngredient(u.ID, "Oats", models.Macros{Calories: 389})},
	}

	if err := db.ImportUserData(ctx, u, data); err != nil {
		t.Fatalf("ImportUserData failed: %v", err)
	}
	if _, err := db.GetUser(ctx, u.ID); err != nil {
		t.Errorf("user not created: %v", err)
	}
	ingredients, _ := db.ListIngredients(ctx, u.ID)
	if len(ingredients) != 1 {
		t.Errorf("expected 1 ingredient, got %d", len(ingredients))
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "jack")

	if err := db.ImportJSON(context.Background(), u.ID, []byte("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
