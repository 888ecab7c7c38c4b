// ABOUTME: CLI commands for the daily log.
// ABOUTME: Logs meals with servings, records steps and bodyweight, and shows day totals.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/harperreed/jacktrack/internal/models"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dayDate       string
	daySteps      int
	dayBodyweight float64
	dayNotes      string
	dayServings   float64
	dayFrom       string
	dayTo         string
	dayLimit      int
)

var dayCmd = &cobra.Command{
	Use:     "day",
	Aliases: []string{"d"},
	Short:   "Log meals and metrics for a day",
	Long: `Each date has at most one log. Logging a meal or setting a metric creates
the day's log if needed.

DATES:

  --date accepts YYYY-MM-DD, today, or yesterday. The default is today.

EXAMPLES:

  jacktrack day log "Chicken Lunch" --servings 2
  jacktrack day metrics --steps 9000 --bodyweight 82.5
  jacktrack day show --date yesterday
  jacktrack day list --from 2024-03-01`,
}

var dayShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's meals, metrics, and totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(dayDate)
		if err != nil {
			return err
		}

		log, err := db.GetDailyLog(ctx, u.ID, date)
		if errors.Is(err, models.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing logged on %s.\n", date)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get day: %w", err)
		}
		printDay(cmd.OutOrStdout(), log)
		return nil
	},
}

var dayMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Set steps, bodyweight, or notes",
	Long: `Set a day's scalar metrics. Only the flags you pass are changed.

EXAMPLES:

  jacktrack day metrics --steps 12000
  jacktrack day metrics --date 2024-03-01 --bodyweight 81.9 --notes "felt strong"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(dayDate)
		if err != nil {
			return err
		}

		var metrics models.DailyMetrics
		if cmd.Flags().Changed("steps") {
			metrics.Steps = &daySteps
		}
		if cmd.Flags().Changed("bodyweight") {
			metrics.Bodyweight = &dayBodyweight
		}
		if cmd.Flags().Changed("notes") {
			metrics.Notes = &dayNotes
		}
		if metrics == (models.DailyMetrics{}) {
			return errors.New("nothing to set: pass --steps, --bodyweight, or --notes")
		}
		if err := metrics.Validate(); err != nil {
			return err
		}

		log, err := db.GetOrCreateDailyLog(ctx, u.ID, date)
		if err != nil {
			return fmt.Errorf("failed to open day: %w", err)
		}
		if _, err := db.UpdateDailyLogMetrics(ctx, u.ID, log.ID, metrics); err != nil {
			return fmt.Errorf("failed to update day: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Updated %s", date)
		return nil
	},
}

var dayLogCmd = &cobra.Command{
	Use:   "log <meal>",
	Short: "Log servings of a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(dayDate)
		if err != nil {
			return err
		}
		if err := models.ValidateServings(dayServings); err != nil {
			return err
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		log, err := db.GetOrCreateDailyLog(ctx, u.ID, date)
		if err != nil {
			return fmt.Errorf("failed to open day: %w", err)
		}
		dlm, err := db.AttachMeal(ctx, u.ID, log.ID, m.ID, dayServings)
		if err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Logged %s x%g on %s", m.Name, dlm.Servings, date)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", macroLine(dlm.Macros()))
		return nil
	},
}

var dayServingsCmd = &cobra.Command{
	Use:   "servings <meal> <servings>",
	Short: "Change the servings of a logged meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(dayDate)
		if err != nil {
			return err
		}
		servings, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: invalid servings %q", models.ErrValidation, args[1])
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		log, err := db.GetDailyLog(ctx, u.ID, date)
		if err != nil {
			return fmt.Errorf("no log for %s: %w", date, err)
		}
		if err := db.UpdateServings(ctx, u.ID, log.ID, m.ID, servings); err != nil {
			return fmt.Errorf("failed to update servings: %w", err)
		}
		printOK(cmd.OutOrStdout(), "%s is now x%g on %s", m.Name, servings, date)
		return nil
	},
}

var dayUnlogCmd = &cobra.Command{
	Use:   "unlog <meal>",
	Short: "Remove a logged meal from a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(dayDate)
		if err != nil {
			return err
		}
		m, err := findMeal(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		log, err := db.GetDailyLog(ctx, u.ID, date)
		if err != nil {
			return fmt.Errorf("no log for %s: %w", date, err)
		}
		if err := db.DetachMeal(ctx, u.ID, log.ID, m.ID); err != nil {
			return fmt.Errorf("failed to unlog meal: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Removed %s from %s", m.Name, date)
		return nil
	},
}

var dayListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged days, most recent first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		filter := storage.DailyLogFilter{Limit: dayLimit}
		if dayFrom != "" {
			if filter.From, err = parseDay(dayFrom); err != nil {
				return err
			}
		}
		if dayTo != "" {
			if filter.To, err = parseDay(dayTo); err != nil {
				return err
			}
		}

		logs, err := db.ListDailyLogs(ctx, u.ID, filter)
		if err != nil {
			return fmt.Errorf("failed to list days: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, "No days found.")
			return nil
		}
		for _, l := range logs {
			extra := ""
			if l.Steps != nil {
				extra += fmt.Sprintf("  %d steps", *l.Steps)
			}
			if l.Bodyweight != nil {
				extra += fmt.Sprintf("  %.1f bw", *l.Bodyweight)
			}
			fmt.Fprintf(out, "%s  %d meals  %s%s\n", l.LogDate, len(l.Meals), macroLine(l.Totals()), faint.Sprint(extra))
		}
		return nil
	},
}

var dayDeleteCmd = &cobra.Command{
	Use:     "delete <date>",
	Aliases: []string{"rm"},
	Short:   "Delete a day's log and its logged meals",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		date, err := parseDay(args[0])
		if err != nil {
			return err
		}

		log, err := db.GetDailyLog(ctx, u.ID, date)
		if err != nil {
			return fmt.Errorf("no log for %s: %w", date, err)
		}
		if err := db.DeleteDailyLog(ctx, u.ID, log.ID); err != nil {
			return fmt.Errorf("failed to delete day: %w", err)
		}
		printRemoved(cmd.OutOrStdout(), "Deleted log for %s", date)
		return nil
	},
}

func printDay(w io.Writer, log *models.DailyLog) {
	bold.Fprintln(w, log.LogDate)
	if log.Steps != nil {
		fmt.Fprintf(w, "  Steps:      %d\n", *log.Steps)
	}
	if log.Bodyweight != nil {
		fmt.Fprintf(w, "  Bodyweight: %.1f\n", *log.Bodyweight)
	}
	if log.Notes != nil && *log.Notes != "" {
		fmt.Fprintf(w, "  Notes:      %s\n", *log.Notes)
	}
	if len(log.Meals) == 0 {
		fmt.Fprintln(w, "  (no meals logged)")
	}
	for _, dlm := range log.Meals {
		name := shortID(dlm.MealID)
		if dlm.Meal != nil {
			name = dlm.Meal.Name
		}
		fmt.Fprintf(w, "  %s x%-4g %s\n", padRight(truncate(name, 24), 24), dlm.Servings, faint.Sprint(macroLine(dlm.Macros())))
	}
	fmt.Fprintf(w, "  Total: %s\n", macroLine(log.Totals()))
}

func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dayDate, "date", "d", "", "day as YYYY-MM-DD, today, or yesterday (default today)")
}

func init() {
	for _, c := range []*cobra.Command{dayShowCmd, dayMetricsCmd, dayLogCmd, dayServingsCmd, dayUnlogCmd} {
		addDateFlag(c)
	}
	dayMetricsCmd.Flags().IntVar(&daySteps, "steps", 0, "step count")
	dayMetricsCmd.Flags().Float64Var(&dayBodyweight, "bodyweight", 0, "bodyweight")
	dayMetricsCmd.Flags().StringVar(&dayNotes, "notes", "", "notes for the day")
	dayLogCmd.Flags().Float64VarP(&dayServings, "servings", "s", 1, "serving multiplier")
	dayListCmd.Flags().StringVar(&dayFrom, "from", "", "earliest date (inclusive)")
	dayListCmd.Flags().StringVar(&dayTo, "to", "", "latest date (inclusive)")
	dayListCmd.Flags().IntVarP(&dayLimit, "limit", "n", 30, "max number of days")

	dayCmd.AddCommand(dayShowCmd, dayMetricsCmd, dayLogCmd, dayServingsCmd, dayUnlogCmd, dayListCmd, dayDeleteCmd)
	rootCmd.AddCommand(dayCmd)
}
