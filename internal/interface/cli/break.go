package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/notify"
	"github.com/pomotrack/pomotrack/internal/core/timer"
	"github.com/pomotrack/pomotrack/internal/core/tracker"
)

var breakLong bool

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Start a break manually",
	Long: `Start a break session outside the automatic cycle.

Useful when auto_start_break is disabled, or to take a long break early.`,
	RunE: runBreak,
}

func init() {
	rootCmd.AddCommand(breakCmd)
	breakCmd.Flags().BoolVar(&breakLong, "long", false, "Take a long break")
}

func runBreak(cmd *cobra.Command, args []string) error {
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

	// A manual break never chains into an auto-started work session.
	cfg.AutoStartWork = false

	trk := tracker.New(database, cfg, notify.NewConsole(os.Stdout, cfg.NotifyTemplate))
	machine := timer.New(cfg, timer.SystemClock{}, trk)

	if err := machine.StartBreak(breakLong); err != nil {
		return err
	}

	kind := "short break"
	if breakLong {
		kind = "long break"
	}
	fmt.Println(titleStyle.Render("pomotrack") + "  " + breakTimerStyle.Render(kind))
	return runSession(machine)
}
