package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/achievements"
	"github.com/pomotrack/pomotrack/internal/core/export"
	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported session log",
	Long: `Import sessions from a pomotrack JSON or CSV export.

The format is detected from the file extension. Sessions already in the
database are skipped, so re-importing is safe. Derived statistics are
rebuilt afterwards.

Examples:
  pomotrack import sessions.json
  pomotrack import sessions.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var sessions []models.SessionRecord
	switch filepath.Ext(path) {
	case ".json":
		sessions, err = export.ReadJSON(f)
	case ".csv":
		sessions, err = export.ReadCSV(f)
	default:
		return fmt.Errorf("unknown file extension %q (want .json or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	added, err := export.Import(database, sessions)
	if err != nil {
		return err
	}
	if err := stats.Rebuild(database, time.Now()); err != nil {
		return err
	}
	if _, err := achievements.Evaluate(&database.Store, time.Now(), cfg.DailyGoal); err != nil {
		return err
	}

	fmt.Printf("Imported %d new session(s) (%d already present), statistics rebuilt.\n",
		added, len(sessions)-added)
	return nil
}
