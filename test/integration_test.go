// ABOUTME: Integration tests for the jacktrack CLI.
// ABOUTME: Builds the binary and drives a full ingredient to daily log workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "jacktrack")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/jacktrack")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"JACKTRACK_DATA_DIR="+filepath.Join(tmpDir, "data"),
		"JACKTRACK_USER=",
		"JACKTRACK_LOG_LEVEL=error",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Dir = tmpDir
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"user", "add", "jack", "jack@example.com"}, "Created user jack"},
		{[]string{"ingredient", "add", "Chicken Breast", "--calories", "165", "--protein", "31", "--fat", "3.6"}, "Chicken Breast"},
		{[]string{"meal", "add", "Chicken Lunch", "Chicken Breast=150g"}, "Chicken Lunch"},
		{[]string{"meal", "show", "Chicken Lunch"}, "247.5 kcal"},
		{[]string{"day", "log", "Chicken Lunch", "--date", "2024-03-01", "--servings", "2"}, "Logged Chicken Lunch x2"},
		{[]string{"day", "show", "--date", "2024-03-01"}, "495.0 kcal"},
		{[]string{"day", "list"}, "2024-03-01"},
		{[]string{"workout", "add", "--at", "2024-03-01 18:00", "--notes", "legs"}, "Added workout"},
		{[]string{"workout", "list"}, "legs"},
	}
	for _, s := range steps {
		output, err := run(s.args...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", s.args, err, output)
		}
		if !strings.Contains(output, s.want) {
			t.Errorf("%v: expected %q in output, got: %s", s.args, s.want, output)
		}
	}

	// Deleting a meal that a day still references is refused.
	if output, err := run("meal", "delete", "Chicken Lunch"); err == nil {
		t.Errorf("Expected meal delete to fail while logged, got: %s", output)
	}
}
