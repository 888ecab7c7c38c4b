// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines users, ingredients, meals, daily logs, workouts and their join tables.
package storage

// Owned children use ON DELETE CASCADE. Shared references (meal -> ingredient,
// day -> meal) use NO ACTION, which SQLite checks at the end of the statement,
// so deleting a user can cascade through meals and ingredients in one go while
// a direct delete of a referenced row still fails.
const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE CHECK (length(username) BETWEEN 1 AND 150),
		email TEXT NOT NULL UNIQUE CHECK (length(email) BETWEEN 1 AND 120),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 100),
		calories REAL NOT NULL CHECK (calories >= 0),
		protein REAL NOT NULL CHECK (protein >= 0),
		carbs REAL NOT NULL CHECK (carbs >= 0),
		fat REAL NOT NULL CHECK (fat >= 0),
		fiber REAL NOT NULL DEFAULT 0 CHECK (fiber >= 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT uq_ingredients_user_id_name UNIQUE (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 200),
		instructions TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT uq_meals_user_id_name UNIQUE (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS meal_ingredients (
		id TEXT PRIMARY KEY,
		meal_id TEXT NOT NULL REFERENCES meals(id) ON DELETE CASCADE,
		ingredient_id TEXT NOT NULL REFERENCES ingredients(id) ON DELETE NO ACTION,
		quantity_grams REAL NOT NULL CHECK (quantity_grams > 0),
		created_at TEXT NOT NULL,
		CONSTRAINT uq_meal_ingredients_meal_id_ingredient_id UNIQUE (meal_id, ingredient_id)
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		log_date TEXT NOT NULL,
		steps INTEGER CHECK (steps IS NULL OR steps >= 0),
		bodyweight REAL CHECK (bodyweight IS NULL OR bodyweight > 0),
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT uq_daily_logs_user_id_log_date UNIQUE (user_id, log_date)
	);

	CREATE TABLE IF NOT EXISTS daily_log_meals (
		id TEXT PRIMARY KEY,
		daily_log_id TEXT NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		meal_id TEXT NOT NULL REFERENCES meals(id) ON DELETE NO ACTION,
		servings REAL NOT NULL DEFAULT 1.0 CHECK (servings > 0),
		created_at TEXT NOT NULL,
		CONSTRAINT uq_daily_log_meals_daily_log_id_meal_id UNIQUE (daily_log_id, meal_id)
	);

	CREATE TABLE IF NOT EXISTS workout_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		performed_at TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workout_exercises (
		id TEXT PRIMARY KEY,
		workout_session_id TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		name TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 200),
		sets INTEGER CHECK (sets IS NULL OR sets > 0),
		reps INTEGER CHECK (reps IS NULL OR reps > 0),
		weight REAL CHECK (weight IS NULL OR weight > 0),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ingredients_user ON ingredients(user_id);
	CREATE INDEX IF NOT EXISTS idx_meals_user ON meals(user_id);
	CREATE INDEX IF NOT EXISTS idx_meal_ingredients_meal ON meal_ingredients(meal_id);
	CREATE INDEX IF NOT EXISTS idx_meal_ingredients_ingredient ON meal_ingredients(ingredient_id);
	CREATE INDEX IF NOT EXISTS idx_daily_logs_user_date ON daily_logs(user_id, log_date DESC);
	CREATE INDEX IF NOT EXISTS idx_daily_log_meals_log ON daily_log_meals(daily_log_id);
	CREATE INDEX IF NOT EXISTS idx_daily_log_meals_meal ON daily_log_meals(meal_id);
	CREATE INDEX IF NOT EXISTS idx_workout_sessions_user_performed ON workout_sessions(user_id, performed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_workout_exercises_session ON workout_exercises(workout_session_id);
	`

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	_, err := d.db.Exec(schema)
	return err
}
