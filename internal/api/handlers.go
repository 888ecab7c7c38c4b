// ABOUTME: HTTP handlers for ingredients, meals, days, and workouts.
// ABOUTME: IDs in paths may be full UUIDs or unique prefixes of the caller's own records.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
)

// mealView is a meal together with its computed totals.
type mealView struct {
	*models.Meal
	Totals models.Macros `json:"totals"`
}

// dayView is a daily log together with its computed totals.
type dayView struct {
	*models.DailyLog
	Totals models.Macros `json:"totals"`
}

func newMealView(m *models.Meal) mealView {
	return mealView{Meal: m, Totals: m.Totals()}
}

func newDayView(l *models.DailyLog) dayView {
	return dayView{DailyLog: l, Totals: l.Totals()}
}

// resolve turns a path parameter into a record ID, responding on failure.
func (s *Server) resolve(c *gin.Context, kind storage.Kind, param string) (uuid.UUID, bool) {
	id, err := s.repo.ResolveID(c.Request.Context(), currentUser(c), kind, c.Param(param))
	if err != nil {
		s.respondError(c, err)
		return uuid.Nil, false
	}
	return id, true
}

// dateParam reads the :date path parameter; "today" means the server's local date.
func (s *Server) dateParam(c *gin.Context) (models.Date, bool) {
	raw := c.Param("date")
	if raw == "today" {
		return models.Today(), true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		s.respondError(c, err)
		return "", false
	}
	return d, true
}

func (s *Server) getMe(c *gin.Context) {
	u, err := s.repo.GetUser(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Ingredients

type ingredientRequest struct {
	Name string `json:"name"`
	models.Macros
}

func (s *Server) listIngredients(c *gin.Context) {
	list, err := s.repo.ListIngredients(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if list == nil {
		list = []*models.Ingredient{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createIngredient(c *gin.Context) {
	var body ingredientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ing := models.NewIngredient(currentUser(c), body.Name, body.Macros)
	if err := s.repo.CreateIngredient(c.Request.Context(), ing); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (s *Server) getIngredient(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindIngredient, "id")
	if !ok {
		return
	}
	ing, err := s.repo.GetIngredient(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (s *Server) updateIngredient(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindIngredient, "id")
	if !ok {
		return
	}
	var body ingredientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	ing, err := s.repo.GetIngredient(ctx, currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ing.Name = strings.TrimSpace(body.Name)
	ing.Macros = body.Macros
	if err := s.repo.UpdateIngredient(ctx, currentUser(c), ing); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (s *Server) deleteIngredient(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindIngredient, "id")
	if !ok {
		return
	}
	if err := s.repo.DeleteIngredient(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Meals

type mealRequest struct {
	Name         string  `json:"name"`
	Instructions *string `json:"instructions"`
}

type mealIngredientRequest struct {
	IngredientID  string  `json:"ingredient_id"`
	QuantityGrams float64 `json:"quantity_grams"`
}

func (s *Server) listMeals(c *gin.Context) {
	meals, err := s.repo.ListMeals(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]mealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, newMealView(m))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) createMeal(c *gin.Context) {
	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	m := models.NewMeal(currentUser(c), body.Name)
	m.Instructions = body.Instructions
	if err := s.repo.CreateMeal(c.Request.Context(), m); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMealView(m))
}

func (s *Server) getMeal(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	m, err := s.repo.GetMeal(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMealView(m))
}

func (s *Server) updateMeal(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	m, err := s.repo.GetMeal(ctx, currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	m.Name = strings.TrimSpace(body.Name)
	m.Instructions = body.Instructions
	if err := s.repo.UpdateMeal(ctx, currentUser(c), m); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMealView(m))
}

func (s *Server) deleteMeal(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	if err := s.repo.DeleteMeal(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addMealIngredient(c *gin.Context) {
	mealID, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	var body mealIngredientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	ingredientID, err := s.repo.ResolveID(ctx, currentUser(c), storage.KindIngredient, body.IngredientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	mi, err := s.repo.AddMealIngredient(ctx, currentUser(c), mealID, ingredientID, body.QuantityGrams)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mi)
}

func (s *Server) setMealIngredientQuantity(c *gin.Context) {
	mealID, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	ingredientID, ok := s.resolve(c, storage.KindIngredient, "ingredientID")
	if !ok {
		return
	}
	var body struct {
		QuantityGrams float64 `json:"quantity_grams"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	err := s.repo.SetMealIngredientQuantity(c.Request.Context(), currentUser(c), mealID, ingredientID, body.QuantityGrams)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removeMealIngredient(c *gin.Context) {
	mealID, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	ingredientID, ok := s.resolve(c, storage.KindIngredient, "ingredientID")
	if !ok {
		return
	}
	if err := s.repo.RemoveMealIngredient(c.Request.Context(), currentUser(c), mealID, ingredientID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) mealTotals(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindMeal, "id")
	if !ok {
		return
	}
	totals, err := s.repo.MealTotals(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Days

type attachRequest struct {
	MealID   string   `json:"meal_id"`
	Servings *float64 `json:"servings"`
}

func (s *Server) listDays(c *gin.Context) {
	var filter storage.DailyLogFilter
	if from := c.Query("from"); from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			s.respondError(c, err)
			return
		}
		filter.From = d
	}
	if to := c.Query("to"); to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			s.respondError(c, err)
			return
		}
		filter.To = d
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Limit = n
	}

	logs, err := s.repo.ListDailyLogs(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]dayView, 0, len(logs))
	for _, l := range logs {
		views = append(views, newDayView(l))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getDay(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	l, err := s.repo.GetDailyLog(c.Request.Context(), currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayView(l))
}

func (s *Server) updateDayMetrics(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	var metrics models.DailyMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		badRequest(c, err)
		return
	}
	if err := metrics.Validate(); err != nil {
		s.respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	l, err := s.repo.GetOrCreateDailyLog(ctx, currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	l, err = s.repo.UpdateDailyLogMetrics(ctx, currentUser(c), l.ID, metrics)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayView(l))
}

func (s *Server) deleteDay(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	l, err := s.repo.GetDailyLog(ctx, currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.repo.DeleteDailyLog(ctx, currentUser(c), l.ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) attachMeal(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	var body attachRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	servings := 1.0
	if body.Servings != nil {
		servings = *body.Servings
	}
	if err := models.ValidateServings(servings); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user := currentUser(c)
	mealID, err := s.repo.ResolveID(ctx, user, storage.KindMeal, body.MealID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	l, err := s.repo.GetOrCreateDailyLog(ctx, user, date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	dlm, err := s.repo.AttachMeal(ctx, user, l.ID, mealID, servings)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dlm)
}

func (s *Server) updateServings(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	mealID, ok := s.resolve(c, storage.KindMeal, "mealID")
	if !ok {
		return
	}
	var body struct {
		Servings float64 `json:"servings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	l, err := s.repo.GetDailyLog(ctx, currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.repo.UpdateServings(ctx, currentUser(c), l.ID, mealID, body.Servings); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) detachMeal(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	mealID, ok := s.resolve(c, storage.KindMeal, "mealID")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	l, err := s.repo.GetDailyLog(ctx, currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.repo.DetachMeal(ctx, currentUser(c), l.ID, mealID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) dayTotals(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	l, err := s.repo.GetDailyLog(ctx, currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	totals, err := s.repo.DailyTotals(ctx, currentUser(c), l.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Workouts

type exerciseRequest struct {
	Name   string   `json:"name"`
	Sets   *int     `json:"sets"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

type workoutRequest struct {
	PerformedAt *time.Time        `json:"performed_at"`
	Notes       *string           `json:"notes"`
	Exercises   []exerciseRequest `json:"exercises"`
}

func (r exerciseRequest) toModel(sessionID uuid.UUID) *models.WorkoutExercise {
	e := models.NewWorkoutExercise(sessionID, r.Name)
	e.Sets = r.Sets
	e.Reps = r.Reps
	e.Weight = r.Weight
	return e
}

func (s *Server) listWorkouts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		limit = n
	}
	sessions, err := s.repo.ListWorkoutSessions(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []*models.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) createWorkout(c *gin.Context) {
	var body workoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	w := models.NewWorkoutSession(currentUser(c))
	if body.PerformedAt != nil {
		w.WithPerformedAt(*body.PerformedAt)
	}
	w.Notes = body.Notes
	for _, e := range body.Exercises {
		w.Exercises = append(w.Exercises, *e.toModel(w.ID))
	}
	if err := s.repo.CreateWorkoutSession(c.Request.Context(), w); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) getWorkout(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindWorkoutSession, "id")
	if !ok {
		return
	}
	w, err := s.repo.GetWorkoutSession(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) deleteWorkout(c *gin.Context) {
	id, ok := s.resolve(c, storage.KindWorkoutSession, "id")
	if !ok {
		return
	}
	if err := s.repo.DeleteWorkoutSession(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addExercise(c *gin.Context) {
	sessionID, ok := s.resolve(c, storage.KindWorkoutSession, "id")
	if !ok {
		return
	}
	var body exerciseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	e := body.toModel(sessionID)
	if err := s.repo.AddWorkoutExercise(c.Request.Context(), currentUser(c), e); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) removeExercise(c *gin.Context) {
	sessionID, ok := s.resolve(c, storage.KindWorkoutSession, "id")
	if !ok {
		return
	}
	exerciseID, ok := s.resolve(c, storage.KindWorkoutExercise, "exerciseID")
	if !ok {
		return
	}
	if err := s.repo.RemoveWorkoutExercise(c.Request.Context(), currentUser(c), sessionID, exerciseID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
