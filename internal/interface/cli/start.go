package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/notify"
	"github.com/pomotrack/pomotrack/internal/core/timer"
	"github.com/pomotrack/pomotrack/internal/core/tracker"
)

var startCmd = &cobra.Command{
	Use:   "start <task>",
	Short: "Start a work session",
	Long: `Start a pomodoro work session for a task.

The timer runs in the foreground. Depending on configuration, completed
work rolls straight into a short break, with a long break after every
fourth pomodoro.

Examples:
  pomotrack start "Write the quarterly report"
  pomotrack start Refactor the parser`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	trk := tracker.New(database, cfg, notify.NewConsole(os.Stdout, cfg.NotifyTemplate))
	machine := timer.New(cfg, timer.SystemClock{}, trk)

	// Seed the long-break cadence from what is already done today.
	today := time.Now().Format("2006-01-02")
	done, err := trk.CompletedToday(today)
	if err != nil {
		return err
	}
	machine.SetCompletedWork(done)

	task := strings.Join(args, " ")
	if err := machine.StartWork(task); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("pomotrack") + "  " + valueStyle.Render(task))
	return runSession(machine)
}
