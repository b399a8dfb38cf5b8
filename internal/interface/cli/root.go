package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/achievements"
	"github.com/pomotrack/pomotrack/internal/core/config"
	"github.com/pomotrack/pomotrack/internal/core/db"
)

var (
	dbPath      string
	configDir   string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pomotrack",
	Short: "Pomodoro session tracker",
	Long: `pomotrack - focus sessions, statistics, and achievements

Track pomodoro work sessions from the terminal. Every completed session
feeds daily statistics, a level curve, and an achievement board, all
derived from a local append-only session log.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db",
		filepath.Join(config.Dir(), "pomotrack.db"), "Database path")
	rootCmd.PersistentFlags().StringVar(&configDir, "config",
		config.Dir(), "Configuration directory")
}

// openDB opens the database and makes sure every achievement definition
// has a row.
func openDB() (*db.DB, error) {
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := achievements.Seed(&database.Store); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to seed achievements: %w", err)
	}
	return database, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
