// ABOUTME: Tests for the HTTP API against a real SQLite database.
// ABOUTME: Covers auth, error status mapping, and the meal-to-day workflow end to end.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	t      *testing.T
	db     *storage.DB
	server *Server
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testEnv{t: t, db: db, server: NewServer(db, testSecret, nil)}
}

// user creates a user and returns it with a valid bearer token.
func (e *testEnv) user(name string) (*models.User, string) {
	e.t.Helper()
	u := models.NewUser(name, name+"@example.com")
	require.NoError(e.t, e.db.CreateUser(context.Background(), u))
	token, err := IssueToken(testSecret, u.ID, u.Username, time.Hour)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type totalsResponse struct {
	Totals models.Macros `json:"totals"`
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)

	w := env.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestAuthRequired(t *testing.T) {
	env := setupTestServer(t)

	w := env.do(http.MethodGet, "/api/ingredients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/ingredients", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := IssueToken(testSecret, uuid.New(), "ghost", -time.Minute)
	require.NoError(t, err)
	w = env.do(http.MethodGet, "/api/ingredients", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := IssueToken("other-secret", uuid.New(), "ghost", time.Hour)
	require.NoError(t, err)
	w = env.do(http.MethodGet, "/api/ingredients", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := IssueToken(testSecret, id, "jack", time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = IssueToken("", id, "jack", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestGetMe(t *testing.T) {
	env := setupTestServer(t)
	u, token := env.user("jack")

	w := env.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.User](t, w)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "jack", got.Username)
}

func TestIngredientCRUD(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.user("jack")

	w := env.do(http.MethodPost, "/api/ingredients", token, map[string]any{
		"name": "Oats", "calories": 389, "protein": 16.9, "carbs": 66.3, "fat": 6.9, "fiber": 10.6,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Ingredient](t, w)
	assert.Equal(t, "Oats", created.Name)
	assert.Equal(t, 389.0, created.Calories)

	w = env.do(http.MethodGet, "/api/ingredients/"+created.ID.String()[:8], token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Ingredient](t, w).ID)

	w = env.do(http.MethodPut, "/api/ingredients/"+created.ID.String(), token, map[string]any{
		"name": "Rolled Oats", "calories": 380,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Rolled Oats", decode[models.Ingredient](t, w).Name)

	w = env.do(http.MethodGet, "/api/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Ingredient](t, w), 1)

	w = env.do(http.MethodDelete, "/api/ingredients/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/ingredients/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	env := setupTestServer(t)
	_, jack := env.user("jack")
	_, jill := env.user("jill")

	w := env.do(http.MethodPost, "/api/ingredients", jack, map[string]any{"name": "Butter", "fat": 81})
	require.Equal(t, http.StatusCreated, w.Code)
	butter := decode[idResponse](t, w)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"negative macro", http.MethodPost, "/api/ingredients", jack, map[string]any{"name": "Bad", "calories": -1}, http.StatusUnprocessableEntity},
		{"empty name", http.MethodPost, "/api/ingredients", jack, map[string]any{"name": "  "}, http.StatusUnprocessableEntity},
		{"duplicate name", http.MethodPost, "/api/ingredients", jack, map[string]any{"name": "Butter"}, http.StatusUnprocessableEntity},
		{"malformed body", http.MethodPost, "/api/ingredients", jack, "{nope", http.StatusBadRequest},
		{"missing ingredient", http.MethodGet, "/api/ingredients/" + uuid.NewString(), jack, nil, http.StatusNotFound},
		{"other user's ingredient", http.MethodGet, "/api/ingredients/" + butter.ID.String(), jill, nil, http.StatusForbidden},
		{"bad date", http.MethodGet, "/api/days/2024-13-40", jack, nil, http.StatusUnprocessableEntity},
		{"missing day", http.MethodGet, "/api/days/2024-01-01", jack, nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSameNameAcrossUsers(t *testing.T) {
	env := setupTestServer(t)
	_, jack := env.user("jack")
	_, jill := env.user("jill")

	for _, token := range []string{jack, jill} {
		w := env.do(http.MethodPost, "/api/ingredients", token, map[string]any{"name": "Rice", "calories": 130})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestMealToDayWorkflow(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.user("jack")

	w := env.do(http.MethodPost, "/api/ingredients", token, map[string]any{
		"name": "Chicken Breast", "calories": 165, "protein": 31, "fat": 3.6,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	chicken := decode[idResponse](t, w)

	w = env.do(http.MethodPost, "/api/meals", token, map[string]any{"name": "Chicken Lunch"})
	require.Equal(t, http.StatusCreated, w.Code)
	meal := decode[idResponse](t, w)
	mealPath := "/api/meals/" + meal.ID.String()

	w = env.do(http.MethodPost, mealPath+"/ingredients", token, map[string]any{
		"ingredient_id": chicken.ID.String(), "quantity_grams": 150,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodGet, mealPath+"/totals", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mealTotals := decode[models.Macros](t, w)
	assert.InDelta(t, 247.5, mealTotals.Calories, 1e-9)
	assert.InDelta(t, 46.5, mealTotals.Protein, 1e-9)

	w = env.do(http.MethodPut, "/api/days/2024-03-01", token, map[string]any{"steps": 9000, "bodyweight": 82.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/days/2024-03-01/meals", token, map[string]any{
		"meal_id": meal.ID.String()[:8], "servings": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/days/2024-03-01/meals", token, map[string]any{"meal_id": meal.ID.String()})
	assert.Equal(t, http.StatusConflict, w.Code, "attaching twice should conflict")

	w = env.do(http.MethodGet, "/api/days/2024-03-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[totalsResponse](t, w)
	assert.InDelta(t, 495.0, day.Totals.Calories, 1e-9)
	assert.InDelta(t, 93.0, day.Totals.Protein, 1e-9)

	w = env.do(http.MethodPut, "/api/days/2024-03-01/meals/"+meal.ID.String(), token, map[string]any{"servings": 1})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/days/2024-03-01/totals", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 247.5, decode[models.Macros](t, w).Calories, 1e-9)

	w = env.do(http.MethodDelete, mealPath, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "meal in use by a day should not delete")

	w = env.do(http.MethodDelete, "/api/ingredients/"+chicken.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "ingredient in use by a meal should not delete")

	w = env.do(http.MethodDelete, "/api/days/2024-03-01/meals/"+meal.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodDelete, mealPath, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListDaysFilter(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.user("jack")

	for _, date := range []string{"2024-03-01", "2024-03-05", "2024-03-10"} {
		w := env.do(http.MethodPut, "/api/days/"+date, token, map[string]any{"steps": 1000})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do(http.MethodGet, "/api/days?from=2024-03-02&to=2024-03-10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := decode[[]models.DailyLog](t, w)
	require.Len(t, days, 2)
	assert.Equal(t, models.Date("2024-03-10"), days[0].LogDate)

	w = env.do(http.MethodGet, "/api/days?limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.DailyLog](t, w), 1)

	w = env.do(http.MethodGet, "/api/days?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTodayAlias(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.user("jack")

	w := env.do(http.MethodPut, "/api/days/today", token, map[string]any{"notes": "rest day"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/days/"+models.Today().String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[models.DailyLog](t, w)
	require.NotNil(t, day.Notes)
	assert.Equal(t, "rest day", *day.Notes)
}

func TestWorkoutEndpoints(t *testing.T) {
	env := setupTestServer(t)
	_, jack := env.user("jack")
	_, jill := env.user("jill")

	w := env.do(http.MethodPost, "/api/workouts", jack, map[string]any{
		"notes":     "push day",
		"exercises": []map[string]any{{"name": "Bench Press", "sets": 3, "reps": 8, "weight": 80}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decode[models.WorkoutSession](t, w)
	path := "/api/workouts/" + session.ID.String()

	w = env.do(http.MethodPost, path+"/exercises", jack, map[string]any{"name": "Dips"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dips := decode[models.WorkoutExercise](t, w)

	w = env.do(http.MethodPost, path+"/exercises", jack, map[string]any{"name": "Curl", "sets": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodGet, path, jack, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.WorkoutSession](t, w).Exercises, 2)

	w = env.do(http.MethodGet, path, jill, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodDelete, path+"/exercises/"+dips.ID.String(), jack, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/workouts", jack, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.WorkoutSession](t, w), 1)

	w = env.do(http.MethodDelete, path, jack, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRemoveExerciseScopedToSession(t *testing.T) {
	env := setupTestServer(t)
	_, jack := env.user("jack")

	w := env.do(http.MethodPost, "/api/workouts", jack, map[string]any{"notes": "a"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode[models.WorkoutSession](t, w)
	w = env.do(http.MethodPost, "/api/workouts", jack, map[string]any{
		"notes":     "b",
		"exercises": []map[string]any{{"name": "Squat"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.WorkoutSession](t, w)
	require.Len(t, b.Exercises, 1)
	squat := b.Exercises[0].ID.String()

	w = env.do(http.MethodDelete, "/api/workouts/"+a.ID.String()+"/exercises/"+squat, jack, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/workouts/"+b.ID.String(), jack, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.WorkoutSession](t, w).Exercises, 1)

	w = env.do(http.MethodDelete, "/api/workouts/"+b.ID.String()+"/exercises/"+squat, jack, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusConflict, statusFor(models.ErrAmbiguous))
	assert.Equal(t, http.StatusForbidden, statusFor(models.ErrOwnership))
	assert.Equal(t, http.StatusConflict, statusFor(models.ErrReferentialIntegrity))
}
