package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/export"
)

var (
	exportFormat string
	exportOutput string
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log",
	Long: `Export every recorded session as JSON or CSV.

Writes to stdout unless --output is given. The export is lossless:
importing it into an empty database and rebuilding reproduces identical
statistics.

Examples:
  pomotrack export > sessions.json
  pomotrack export --format csv -o sessions.csv
  pomotrack export --copy`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the export to the clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.GetSessions(db.SessionQuery{})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch exportFormat {
	case "json":
		err = export.WriteJSON(&buf, sessions)
	case "csv":
		err = export.WriteCSV(&buf, sessions)
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize sessions: %w", err)
	}

	if exportCopy {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Copied %d session(s) to clipboard.\n", len(sessions))
		return nil
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d session(s) to %s.\n", len(sessions), exportOutput)
		return nil
	}

	_, err = os.Stdout.Write(buf.Bytes())
	return err
}
