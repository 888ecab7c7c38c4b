// ABOUTME: Tests for migrating one user's data between two databases.
// ABOUTME: Covers a full copy, an empty source, a name clash, and file detection.
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/jacktrack/internal/models"
)

func TestMigrateUser(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	u := seedExportData(t, src, "jack")
	dst := setupTestDB(t)

	summary, err := MigrateUser(ctx, src, dst, "jack")
	if err != nil {
		t.Fatalf("MigrateUser failed: %v", err)
	}
	if summary.Ingredients != 1 || summary.Meals != 1 || summary.DailyLogs != 1 || summary.Workouts != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	copied, err := dst.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("user not copied: %v", err)
	}
	if copied.Username != "jack" {
		t.Errorf("Username = %q", copied.Username)
	}

	logs, _ := dst.ListDailyLogs(ctx, u.ID, DailyLogFilter{})
	if len(logs) != 1 || logs[0].Totals().Calories != 495 {
		t.Errorf("migrated day totals wrong: %+v", logs)
	}
}

func TestMigrateUserEmptySource(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	createTestUser(t, src, "jack")
	dst := setupTestDB(t)

	summary, err := MigrateUser(ctx, src, dst, "jack")
	if err != nil {
		t.Fatalf("MigrateUser failed: %v", err)
	}
	if *summary != (MigrateSummary{}) {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestMigrateUserMissing(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)

	_, err := MigrateUser(context.Background(), src, dst, "nobody")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMigrateUserTwiceRollsBack(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	seedExportData(t, src, "jack")
	dst := setupTestDB(t)

	if _, err := MigrateUser(ctx, src, dst, "jack"); err != nil {
		t.Fatalf("first MigrateUser failed: %v", err)
	}
	if _, err := MigrateUser(ctx, src, dst, "jack"); err == nil {
		t.Fatal("expected second migration to fail on existing records")
	}

	u, _ := dst.GetUserByUsername(ctx, "jack")
	ingredients, _ := dst.ListIngredients(ctx, u.ID)
	if len(ingredients) != 1 {
		t.Errorf("expected 1 ingredient after failed rerun, got %d", len(ingredients))
	}
}

func TestMigrateUserFailureLeavesNoUser(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	u := seedExportData(t, src, "jack")
	dst := setupTestDB(t)

	// Another user in the destination already holds jack's ingredient ID.
	jill := createTestUser(t, dst, "jill")
	ingredients, _ := src.ListIngredients(ctx, u.ID)
	clash := *ingredients[0]
	clash.UserID = jill.ID
	if err := dst.CreateIngredient(ctx, &clash); err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}

	_, err := MigrateUser(ctx, src, dst, "jack")
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected ErrConflict for the ID clash, got %v", err)
	}
	if _, err := dst.GetUserByUsername(ctx, "jack"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("failed migration left user jack behind: %v", err)
	}
}

func TestMigrateUserExistingNameMismatch(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	u := seedExportData(t, src, "jack")
	dst := setupTestDB(t)

	other := models.NewUser("jacques", "jacques@example.com")
	other.ID = u.ID
	if err := dst.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := MigrateUser(ctx, src, dst, "jack"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDBFileExists(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.db")
	exists, err := DBFileExists(missing)
	if err != nil {
		t.Fatalf("DBFileExists failed: %v", err)
	}
	if exists {
		t.Error("missing file should not exist")
	}

	empty := filepath.Join(dir, "empty.db")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if exists, _ := DBFileExists(empty); exists {
		t.Error("empty file should not count as a database")
	}

	db, err := Open(filepath.Join(dir, "real.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db.Close()
	if exists, _ := DBFileExists(filepath.Join(dir, "real.db")); !exists {
		t.Error("opened database should exist")
	}

	if exists, _ := DBFileExists(dir); exists {
		t.Error("directory should not count as a database")
	}
}
