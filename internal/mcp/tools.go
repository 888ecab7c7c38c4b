// ABOUTME: MCP tool implementations for ingredients, meals, days, and workouts.
// ABOUTME: Records may be referenced by ID prefix; ingredients also by name.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// Ingredient library
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_ingredient",
		Description: "Add an ingredient with macros per 100g",
	}, s.handleAddIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_ingredients",
		Description: "List the ingredient library",
	}, s.handleListIngredients)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_ingredient",
		Description: "Change an ingredient's name or macros; meals and days using it recompute",
	}, s.handleUpdateIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_ingredient",
		Description: "Delete an ingredient that no meal uses",
	}, s.handleDeleteIngredient)

	// Meal composer
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_meal",
		Description: "Create a reusable meal, optionally with ingredients",
	}, s.handleCreateMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal_ingredient",
		Description: "Add grams of an ingredient to a meal; adding the same ingredient again sums the grams",
	}, s.handleAddMealIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_meal_ingredient",
		Description: "Remove an ingredient from a meal",
	}, s.handleRemoveMealIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_meal",
		Description: "Get a meal with its ingredients and totals",
	}, s.handleGetMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List saved meals with totals",
	}, s.handleListMeals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal that no day has logged",
	}, s.handleDeleteMeal)

	// Daily log
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log servings of a saved meal on a day",
	}, s.handleLogMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "unlog_meal",
		Description: "Remove a logged meal from a day",
	}, s.handleUnlogMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_day_metrics",
		Description: "Set steps, bodyweight, or notes for a day",
	}, s.handleSetDayMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_day",
		Description: "Get a day's log with meals and totals",
	}, s.handleGetDay)

	// Workout log
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Create a workout session, optionally with exercises",
	}, s.handleAddWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to an existing workout",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, most recent first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with all its exercises",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout and its exercises",
	}, s.handleDeleteWorkout)
}

// Tool input/output types

type simpleOutput struct {
	Message string `json:"message"`
}

type createdOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type emptyInput struct{}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or prefix"`
}

type addIngredientInput struct {
	Name     string  `json:"name" jsonschema:"Ingredient name, unique in your library"`
	Calories float64 `json:"calories,omitempty" jsonschema:"kcal per 100g"`
	Protein  float64 `json:"protein,omitempty" jsonschema:"Protein grams per 100g"`
	Carbs    float64 `json:"carbs,omitempty" jsonschema:"Carbohydrate grams per 100g"`
	Fat      float64 `json:"fat,omitempty" jsonschema:"Fat grams per 100g"`
	Fiber    float64 `json:"fiber,omitempty" jsonschema:"Fiber grams per 100g"`
}

type updateIngredientInput struct {
	Ingredient string   `json:"ingredient" jsonschema:"Ingredient ID, prefix, or name"`
	Name       string   `json:"name,omitempty" jsonschema:"New name"`
	Calories   *float64 `json:"calories,omitempty" jsonschema:"kcal per 100g"`
	Protein    *float64 `json:"protein,omitempty" jsonschema:"Protein grams per 100g"`
	Carbs      *float64 `json:"carbs,omitempty" jsonschema:"Carbohydrate grams per 100g"`
	Fat        *float64 `json:"fat,omitempty" jsonschema:"Fat grams per 100g"`
	Fiber      *float64 `json:"fiber,omitempty" jsonschema:"Fiber grams per 100g"`
}

type ingredientRefInput struct {
	Ingredient string `json:"ingredient" jsonschema:"Ingredient ID, prefix, or name"`
}

type mealItemInput struct {
	Ingredient    string  `json:"ingredient" jsonschema:"Ingredient ID, prefix, or name"`
	QuantityGrams float64 `json:"quantity_grams" jsonschema:"Grams of the ingredient in one serving"`
}

type createMealInput struct {
	Name         string          `json:"name" jsonschema:"Meal name, unique in your library"`
	Instructions string          `json:"instructions,omitempty" jsonschema:"Preparation notes"`
	Ingredients  []mealItemInput `json:"ingredients,omitempty" jsonschema:"Ingredients to add right away"`
}

type addMealIngredientInput struct {
	MealID        string  `json:"meal_id" jsonschema:"Meal ID or prefix"`
	Ingredient    string  `json:"ingredient" jsonschema:"Ingredient ID, prefix, or name"`
	QuantityGrams float64 `json:"quantity_grams" jsonschema:"Grams to add"`
}

type removeMealIngredientInput struct {
	MealID     string `json:"meal_id" jsonschema:"Meal ID or prefix"`
	Ingredient string `json:"ingredient" jsonschema:"Ingredient ID, prefix, or name"`
}

type logMealInput struct {
	MealID   string  `json:"meal_id" jsonschema:"Meal ID or prefix"`
	Date     string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
	Servings float64 `json:"servings,omitempty" jsonschema:"Serving multiplier, defaults to 1"`
}

type unlogMealInput struct {
	MealID string `json:"meal_id" jsonschema:"Meal ID or prefix"`
	Date   string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type setDayMetricsInput struct {
	Date       string   `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
	Steps      *int     `json:"steps,omitempty" jsonschema:"Step count"`
	Bodyweight *float64 `json:"bodyweight,omitempty" jsonschema:"Bodyweight"`
	Notes      *string  `json:"notes,omitempty" jsonschema:"Free-form notes for the day"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type exerciseInput struct {
	Name   string   `json:"name" jsonschema:"Exercise name"`
	Sets   *int     `json:"sets,omitempty" jsonschema:"Number of sets"`
	Reps   *int     `json:"reps,omitempty" jsonschema:"Reps per set"`
	Weight *float64 `json:"weight,omitempty" jsonschema:"Load used"`
}

type addWorkoutInput struct {
	PerformedAt string          `json:"performed_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Notes       string          `json:"notes,omitempty" jsonschema:"Workout notes"`
	Exercises   []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises performed"`
}

type addExerciseInput struct {
	WorkoutID string   `json:"workout_id" jsonschema:"Workout ID or prefix"`
	Name      string   `json:"name" jsonschema:"Exercise name"`
	Sets      *int     `json:"sets,omitempty" jsonschema:"Number of sets"`
	Reps      *int     `json:"reps,omitempty" jsonschema:"Reps per set"`
	Weight    *float64 `json:"weight,omitempty" jsonschema:"Load used"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

// mealView is a meal with its computed totals.
type mealView struct {
	*models.Meal
	Totals models.Macros `json:"totals"`
}

// dayView is a day's log with its computed totals.
type dayView struct {
	*models.DailyLog
	Totals models.Macros `json:"totals"`
}

// Helpers

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// resolveIngredient accepts an ID, an ID prefix, or an exact name.
func (s *Server) resolveIngredient(ctx context.Context, ref string) (*models.Ingredient, error) {
	id, err := s.repo.ResolveID(ctx, s.userID, storage.KindIngredient, ref)
	if err == nil {
		return s.repo.GetIngredient(ctx, s.userID, id)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return s.repo.GetIngredientByName(ctx, s.userID, strings.TrimSpace(ref))
}

func parseDay(raw string) (models.Date, error) {
	if raw == "" || raw == "today" {
		return models.Today(), nil
	}
	return models.ParseDate(raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", models.ErrValidation, raw)
}

func (in exerciseInput) toModel(sessionID uuid.UUID) *models.WorkoutExercise {
	e := models.NewWorkoutExercise(sessionID, in.Name)
	e.Sets = in.Sets
	e.Reps = in.Reps
	e.Weight = in.Weight
	return e
}

// Ingredient handlers

func (s *Server) handleAddIngredient(ctx context.Context, req *mcp.CallToolRequest, input addIngredientInput) (*mcp.CallToolResult, createdOutput, error) {
	ing := models.NewIngredient(s.userID, input.Name, models.Macros{
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Fiber:    input.Fiber,
	})
	if err := s.repo.CreateIngredient(ctx, ing); err != nil {
		return nil, createdOutput{}, fmt.Errorf("failed to add ingredient: %w", err)
	}

	return nil, createdOutput{
		ID:      ing.ID.String(),
		Message: fmt.Sprintf("Added %s: %.1f kcal per 100g (ID: %s)", ing.Name, ing.Calories, shortID(ing.ID)),
	}, nil
}

func (s *Server) handleListIngredients(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	list, err := s.repo.ListIngredients(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if len(list) == 0 {
		return nil, map[string]interface{}{"message": "No ingredients found."}, nil
	}
	return nil, map[string]interface{}{"ingredients": list}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, req *mcp.CallToolRequest, input updateIngredientInput) (*mcp.CallToolResult, simpleOutput, error) {
	ing, err := s.resolveIngredient(ctx, input.Ingredient)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("ingredient not found: %w", err)
	}

	if input.Name != "" {
		ing.Name = strings.TrimSpace(input.Name)
	}
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{input.Calories, &ing.Calories},
		{input.Protein, &ing.Protein},
		{input.Carbs, &ing.Carbs},
		{input.Fat, &ing.Fat},
		{input.Fiber, &ing.Fiber},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if err := s.repo.UpdateIngredient(ctx, s.userID, ing); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated %s", ing.Name)}, nil
}

func (s *Server) handleDeleteIngredient(ctx context.Context, req *mcp.CallToolRequest, input ingredientRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	ing, err := s.resolveIngredient(ctx, input.Ingredient)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("ingredient not found: %w", err)
	}
	if err := s.repo.DeleteIngredient(ctx, s.userID, ing.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted ingredient: %s", ing.Name)}, nil
}

// Meal handlers

func (s *Server) handleCreateMeal(ctx context.Context, req *mcp.CallToolRequest, input createMealInput) (*mcp.CallToolResult, createdOutput, error) {
	m := models.NewMeal(s.userID, input.Name)
	if input.Instructions != "" {
		m.WithInstructions(input.Instructions)
	}
	for _, in := range input.Ingredients {
		ing, err := s.resolveIngredient(ctx, in.Ingredient)
		if err != nil {
			return nil, createdOutput{}, fmt.Errorf("ingredient %q: %w", in.Ingredient, err)
		}
		if err := models.ValidateQuantity(in.QuantityGrams); err != nil {
			return nil, createdOutput{}, fmt.Errorf("ingredient %q: %w", in.Ingredient, err)
		}
		m.Ingredients = append(m.Ingredients, *models.NewMealIngredient(m.ID, ing.ID, in.QuantityGrams))
	}
	if err := s.repo.CreateMeal(ctx, m); err != nil {
		return nil, createdOutput{}, fmt.Errorf("failed to create meal: %w", err)
	}

	totals, err := s.repo.MealTotals(ctx, s.userID, m.ID)
	if err != nil {
		return nil, createdOutput{}, fmt.Errorf("failed to total meal: %w", err)
	}
	return nil, createdOutput{
		ID:      m.ID.String(),
		Message: fmt.Sprintf("Created %s: %.1f kcal (ID: %s)", m.Name, totals.Calories, shortID(m.ID)),
	}, nil
}

func (s *Server) handleAddMealIngredient(ctx context.Context, req *mcp.CallToolRequest, input addMealIngredientInput) (*mcp.CallToolResult, simpleOutput, error) {
	mealID, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.MealID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal not found: %w", err)
	}
	ing, err := s.resolveIngredient(ctx, input.Ingredient)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("ingredient not found: %w", err)
	}

	mi, err := s.repo.AddMealIngredient(ctx, s.userID, mealID, ing.ID, input.QuantityGrams)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to add meal ingredient: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Meal now has %g g %s", mi.QuantityGrams, ing.Name),
	}, nil
}

func (s *Server) handleRemoveMealIngredient(ctx context.Context, req *mcp.CallToolRequest, input removeMealIngredientInput) (*mcp.CallToolResult, simpleOutput, error) {
	mealID, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.MealID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal not found: %w", err)
	}
	ing, err := s.resolveIngredient(ctx, input.Ingredient)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("ingredient not found: %w", err)
	}
	if err := s.repo.RemoveMealIngredient(ctx, s.userID, mealID, ing.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to remove meal ingredient: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed %s from meal", ing.Name)}, nil
}

func (s *Server) handleGetMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	id, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("meal not found: %w", err)
	}
	m, err := s.repo.GetMeal(ctx, s.userID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("meal not found: %w", err)
	}
	return nil, mealView{Meal: m, Totals: m.Totals()}, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	meals, err := s.repo.ListMeals(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meals: %w", err)
	}
	if len(meals) == 0 {
		return nil, map[string]interface{}{"message": "No meals found."}, nil
	}
	views := make([]mealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, mealView{Meal: m, Totals: m.Totals()})
	}
	return nil, map[string]interface{}{"meals": views}, nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal not found: %w", err)
	}
	if err := s.repo.DeleteMeal(ctx, s.userID, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted meal: %s", input.ID)}, nil
}

// Daily log handlers

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := parseDay(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	servings := input.Servings
	if servings == 0 {
		servings = 1
	}
	if err := models.ValidateServings(servings); err != nil {
		return nil, simpleOutput{}, err
	}
	mealID, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.MealID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal not found: %w", err)
	}

	log, err := s.repo.GetOrCreateDailyLog(ctx, s.userID, date)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to open day: %w", err)
	}
	dlm, err := s.repo.AttachMeal(ctx, s.userID, log.ID, mealID, servings)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log meal: %w", err)
	}

	name := input.MealID
	if dlm.Meal != nil {
		name = dlm.Meal.Name
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged %s x%g on %s: %.1f kcal", name, servings, date, dlm.Macros().Calories),
	}, nil
}

func (s *Server) handleUnlogMeal(ctx context.Context, req *mcp.CallToolRequest, input unlogMealInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := parseDay(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	mealID, err := s.repo.ResolveID(ctx, s.userID, storage.KindMeal, input.MealID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal not found: %w", err)
	}
	log, err := s.repo.GetDailyLog(ctx, s.userID, date)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("no log for %s: %w", date, err)
	}
	if err := s.repo.DetachMeal(ctx, s.userID, log.ID, mealID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to unlog meal: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed meal from %s", date)}, nil
}

func (s *Server) handleSetDayMetrics(ctx context.Context, req *mcp.CallToolRequest, input setDayMetricsInput) (*mcp.CallToolResult, any, error) {
	date, err := parseDay(input.Date)
	if err != nil {
		return nil, nil, err
	}
	metrics := models.DailyMetrics{Steps: input.Steps, Bodyweight: input.Bodyweight, Notes: input.Notes}
	if err := metrics.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := s.repo.GetOrCreateDailyLog(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open day: %w", err)
	}
	log, err = s.repo.UpdateDailyLogMetrics(ctx, s.userID, log.ID, metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update day: %w", err)
	}
	return nil, dayView{DailyLog: log, Totals: log.Totals()}, nil
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := parseDay(input.Date)
	if err != nil {
		return nil, nil, err
	}
	log, err := s.repo.GetDailyLog(ctx, s.userID, date)
	if errors.Is(err, models.ErrNotFound) {
		return nil, map[string]interface{}{"message": fmt.Sprintf("Nothing logged on %s.", date)}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get day: %w", err)
	}
	return nil, dayView{DailyLog: log, Totals: log.Totals()}, nil
}

// Workout handlers

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, createdOutput, error) {
	w := models.NewWorkoutSession(s.userID)
	if input.PerformedAt != "" {
		t, err := parseTimestamp(input.PerformedAt)
		if err != nil {
			return nil, createdOutput{}, err
		}
		w.WithPerformedAt(t)
	}
	if input.Notes != "" {
		w.WithNotes(input.Notes)
	}
	for _, e := range input.Exercises {
		w.Exercises = append(w.Exercises, *e.toModel(w.ID))
	}

	if err := s.repo.CreateWorkoutSession(ctx, w); err != nil {
		return nil, createdOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	return nil, createdOutput{
		ID:      w.ID.String(),
		Message: fmt.Sprintf("Added workout with %d exercises (ID: %s)", len(w.Exercises), shortID(w.ID)),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, createdOutput, error) {
	sessionID, err := s.repo.ResolveID(ctx, s.userID, storage.KindWorkoutSession, input.WorkoutID)
	if err != nil {
		return nil, createdOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	e := exerciseInput{Name: input.Name, Sets: input.Sets, Reps: input.Reps, Weight: input.Weight}.toModel(sessionID)
	if err := s.repo.AddWorkoutExercise(ctx, s.userID, e); err != nil {
		return nil, createdOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return nil, createdOutput{
		ID:      e.ID.String(),
		Message: fmt.Sprintf("Added %s to workout", e.Name),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	workouts, err := s.repo.ListWorkoutSessions(ctx, s.userID, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) == 0 {
		return nil, map[string]interface{}{"message": "No workouts found."}, nil
	}
	return nil, map[string]interface{}{"workouts": workouts}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	id, err := s.repo.ResolveID(ctx, s.userID, storage.KindWorkoutSession, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %w", err)
	}
	w, err := s.repo.GetWorkoutSession(ctx, s.userID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveID(ctx, s.userID, storage.KindWorkoutSession, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	if err := s.repo.DeleteWorkoutSession(ctx, s.userID, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", input.ID)}, nil
}
