// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports add, list, show, exercise, remove-exercise, and delete subcommands.
package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutAt    string
	workoutNotes string
	workoutLimit int
	exerciseSets int
	exerciseReps int
	exerciseLoad float64
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track strength sessions as a list of exercises.

Sets, reps, and weight are optional, but when given they must be positive.

WORKFLOW:

  1. Create a session:   jacktrack workout add --notes "leg day"
  2. Add exercises:      jacktrack workout exercise abc123 Squat --sets 5 --reps 5 --weight 100
  3. View the session:   jacktrack workout show abc123`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a workout session",
	Long: `Add a workout session performed now, or at --at.

Examples:
  jacktrack workout add
  jacktrack workout add --at "2024-03-01 18:00" --notes "Leg day"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		w := models.NewWorkoutSession(u.ID)
		if workoutAt != "" {
			t, err := parseTime(workoutAt)
			if err != nil {
				return err
			}
			w.WithPerformedAt(t)
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}

		if err := db.CreateWorkoutSession(ctx, w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		out := cmd.OutOrStdout()
		printOK(out, "Added workout")
		fmt.Fprintf(out, "  ID: %s\n", shortID(w.ID))
		fmt.Fprintf(out, "  Performed: %s\n", w.PerformedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		workouts, err := db.ListWorkoutSessions(ctx, u.ID, workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}
		for _, w := range workouts {
			notes := ""
			if w.Notes != nil && *w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*w.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %d exercises%s\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.PerformedAt.Local().Format("2006-01-02 15:04")),
				len(w.Exercises),
				notes)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		w, err := findWorkout(ctx, u.ID, args[0])
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workout: %s\n", shortID(w.ID))
		fmt.Fprintf(out, "Performed: %s\n", w.PerformedAt.Local().Format("2006-01-02 15:04"))
		if w.Notes != nil {
			fmt.Fprintf(out, "Notes: %s\n", *w.Notes)
		}

		if len(w.Exercises) > 0 {
			fmt.Fprintln(out, "\nExercises:")
			for _, e := range w.Exercises {
				fmt.Fprintf(out, "  %s %s %s\n", faint.Sprint(shortID(e.ID)), padRight(e.Name, 20), exerciseDetail(e))
			}
		}
		return nil
	},
}

var workoutExerciseCmd = &cobra.Command{
	Use:   "exercise <workout-id> <name>",
	Short: "Add an exercise to a workout",
	Long: `Add an exercise to an existing workout.

Examples:
  jacktrack workout exercise abc123 Squat --sets 5 --reps 5 --weight 100
  jacktrack workout exercise abc123 Plank`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		sessionID, err := db.ResolveID(ctx, u.ID, storage.KindWorkoutSession, args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}

		e := models.NewWorkoutExercise(sessionID, args[1])
		if cmd.Flags().Changed("sets") {
			e.WithSets(exerciseSets)
		}
		if cmd.Flags().Changed("reps") {
			e.WithReps(exerciseReps)
		}
		if cmd.Flags().Changed("weight") {
			e.WithWeight(exerciseLoad)
		}
		if err := db.AddWorkoutExercise(ctx, u.ID, e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		printOK(cmd.OutOrStdout(), "Added %s %s", e.Name, exerciseDetail(*e))
		return nil
	},
}

var workoutRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <workout-id> <exercise-id>",
	Short: "Remove an exercise from a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		w, err := findWorkout(ctx, u.ID, args[0])
		if err != nil {
			return err
		}
		id, err := db.ResolveID(ctx, u.ID, storage.KindWorkoutExercise, args[1])
		if err != nil {
			return fmt.Errorf("exercise not found: %w", err)
		}
		if err := db.RemoveWorkoutExercise(ctx, u.ID, w.ID, id); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Removed exercise %s", shortID(id))
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout and its exercises",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		id, err := db.ResolveID(ctx, u.ID, storage.KindWorkoutSession, args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}
		if err := db.DeleteWorkoutSession(ctx, u.ID, id); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Deleted workout %s", shortID(id))
		return nil
	},
}

func findWorkout(ctx context.Context, userID uuid.UUID, ref string) (*models.WorkoutSession, error) {
	id, err := db.ResolveID(ctx, userID, storage.KindWorkoutSession, ref)
	if err != nil {
		return nil, err
	}
	return db.GetWorkoutSession(ctx, userID, id)
}

// exerciseDetail renders "5x5 @ 100" with whichever parts are set.
func exerciseDetail(e models.WorkoutExercise) string {
	s := ""
	switch {
	case e.Sets != nil && e.Reps != nil:
		s = fmt.Sprintf("%dx%d", *e.Sets, *e.Reps)
	case e.Sets != nil:
		s = fmt.Sprintf("%d sets", *e.Sets)
	case e.Reps != nil:
		s = fmt.Sprintf("%d reps", *e.Reps)
	}
	if e.Weight != nil {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("@ %g", *e.Weight)
	}
	return s
}

func init() {
	workoutAddCmd.Flags().StringVar(&workoutAt, "at", "", "when it was performed (default now)")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "workout notes")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")
	workoutExerciseCmd.Flags().IntVar(&exerciseSets, "sets", 0, "number of sets")
	workoutExerciseCmd.Flags().IntVar(&exerciseReps, "reps", 0, "reps per set")
	workoutExerciseCmd.Flags().Float64Var(&exerciseLoad, "weight", 0, "load used")

	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutShowCmd,
		workoutExerciseCmd, workoutRemoveExerciseCmd, workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
