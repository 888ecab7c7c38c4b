// ABOUTME: Repository interface for nutrition and workout data storage.
// ABOUTME: Every lookup is scoped to the calling user's ID.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
)

// Repository defines the storage interface for tracker data.
// This interface allows swapping implementations (e.g., for testing).
//
// Methods that take a userID treat it as the authenticated caller: a record
// owned by someone else fails with models.ErrAuthorization, a missing one
// with models.ErrNotFound.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Ingredient library
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	GetIngredient(ctx context.Context, userID, id uuid.UUID) (*models.Ingredient, error)
	GetIngredientByName(ctx context.Context, userID uuid.UUID, name string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, userID uuid.UUID) ([]*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, userID uuid.UUID, ing *models.Ingredient) error
	DeleteIngredient(ctx context.Context, userID, id uuid.UUID) error

	// Meal composer
	CreateMeal(ctx context.Context, m *models.Meal) error
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error)
	ListMeals(ctx context.Context, userID uuid.UUID) ([]*models.Meal, error)
	UpdateMeal(ctx context.Context, userID uuid.UUID, m *models.Meal) error
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) error
	AddMealIngredient(ctx context.Context, userID, mealID, ingredientID uuid.UUID, quantityGrams float64) (*models.MealIngredient, error)
	SetMealIngredientQuantity(ctx context.Context, userID, mealID, ingredientID uuid.UUID, quantityGrams float64) error
	RemoveMealIngredient(ctx context.Context, userID, mealID, ingredientID uuid.UUID) error
	MealTotals(ctx context.Context, userID, mealID uuid.UUID) (models.Macros, error)

	// Daily log
	GetOrCreateDailyLog(ctx context.Context, userID uuid.UUID, date models.Date) (*models.DailyLog, error)
	GetDailyLog(ctx context.Context, userID uuid.UUID, date models.Date) (*models.DailyLog, error)
	GetDailyLogByID(ctx context.Context, userID, id uuid.UUID) (*models.DailyLog, error)
	ListDailyLogs(ctx context.Context, userID uuid.UUID, filter DailyLogFilter) ([]*models.DailyLog, error)
	UpdateDailyLogMetrics(ctx context.Context, userID, logID uuid.UUID, metrics models.DailyMetrics) (*models.DailyLog, error)
	AttachMeal(ctx context.Context, userID, logID, mealID uuid.UUID, servings float64) (*models.DailyLogMeal, error)
	UpdateServings(ctx context.Context, userID, logID, mealID uuid.UUID, servings float64) error
	DetachMeal(ctx context.Context, userID, logID, mealID uuid.UUID) error
	DeleteDailyLog(ctx context.Context, userID, logID uuid.UUID) error
	DailyTotals(ctx context.Context, userID, logID uuid.UUID) (models.Macros, error)

	// Workout log
	CreateWorkoutSession(ctx context.Context, w *models.WorkoutSession) error
	GetWorkoutSession(ctx context.Context, userID, id uuid.UUID) (*models.WorkoutSession, error)
	ListWorkoutSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WorkoutSession, error)
	AddWorkoutExercise(ctx context.Context, userID uuid.UUID, e *models.WorkoutExercise) error
	RemoveWorkoutExercise(ctx context.Context, userID, sessionID, exerciseID uuid.UUID) error
	DeleteWorkoutSession(ctx context.Context, userID, id uuid.UUID) error

	// ID prefix resolution
	ResolveID(ctx context.Context, userID uuid.UUID, kind Kind, idOrPrefix string) (uuid.UUID, error)

	// Export/Import
	GetAllData(ctx context.Context, userID uuid.UUID) (*ExportData, error)
	ImportData(ctx context.Context, userID uuid.UUID, data *ExportData) error
	ImportUserData(ctx context.Context, u *models.User, data *ExportData) error

	// Lifecycle
	Close() error
}

// DailyLogFilter narrows ListDailyLogs. Empty dates mean unbounded; a
// non-positive Limit means no limit.
type DailyLogFilter struct {
	From  models.Date
	To    models.Date
	Limit int
}
