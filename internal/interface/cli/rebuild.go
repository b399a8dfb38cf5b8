package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/achievements"
	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild derived statistics from the session log",
	Long: `Recompute every daily statistic and cumulative counter by replaying
the session log, then re-evaluate achievement progress.

The log itself is never modified. Already-unlocked achievements keep
their unlock dates.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	if err := stats.Rebuild(database, time.Now()); err != nil {
		return err
	}
	if _, err := achievements.Evaluate(&database.Store, time.Now(), cfg.DailyGoal); err != nil {
		return err
	}

	total, err := database.GetUserStatInt(models.StatTotalPomodoros)
	if err != nil {
		return err
	}
	fmt.Printf("Rebuilt statistics from %d completed pomodoro(s).\n", total)
	return nil
}
