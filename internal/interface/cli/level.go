package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/level"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show your level and progress",
	RunE:  runLevel,
}

func init() {
	rootCmd.AddCommand(levelCmd)
}

func runLevel(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	total, err := database.CountCompletedWork()
	if err != nil {
		return err
	}
	prog := level.For(total)

	fmt.Println(titleStyle.Render(fmt.Sprintf("Level %d — %s", prog.Level, prog.Title)))
	fmt.Printf("%s %s\n", headerStyle.Render("Total pomodoros:"), valueStyle.Render(fmt.Sprintf("%d", total)))

	if prog.ToNext == 0 {
		fmt.Println(valueStyle.Render("Maximum level reached."))
		return nil
	}
	fmt.Printf("%s %s\n", progressBar(prog.Percent),
		dimStyle.Render(fmt.Sprintf("%d%% — %d to level %d", prog.Percent, prog.ToNext, prog.Level+1)))
	return nil
}

func progressBar(percent int) string {
	const width = 24
	filled := percent * width / 100
	return valueStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}
