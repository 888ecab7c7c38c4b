// ABOUTME: Data migration of one user's records between two tracker databases.
// ABOUTME: Copies the user, ingredients, meals, daily logs, and workouts from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Ingredients int
	Meals       int
	DailyLogs   int
	Workouts    int
}

// Summarize counts the entities in an export without writing anything.
func Summarize(data *ExportData) *MigrateSummary {
	return &MigrateSummary{
		Ingredients: len(data.Ingredients),
		Meals:       len(data.Meals),
		DailyLogs:   len(data.DailyLogs),
		Workouts:    len(data.Workouts),
	}
}

// MigrateUser copies everything owned by username from src to dst. The user
// is created in dst with the same ID when missing, in the same transaction as
// the data, so a failure copies nothing.
func MigrateUser(ctx context.Context, src, dst Repository, username string) (*MigrateSummary, error) {
	user, err := src.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find source user: %w", err)
	}

	data, err := src.GetAllData(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	if err := dst.ImportUserData(ctx, user, data); err != nil {
		return nil, fmt.Errorf("write destination data: %w", err)
	}

	return Summarize(data), nil
}

// DBFileExists reports whether a database file already exists at path.
func DBFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return !info.IsDir() && info.Size() > 0, nil
}
