package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

var (
	historyTask  string
	historyFrom  string
	historyTo    string
	historyTasks bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the session log",
	Long: `List recorded sessions, newest last, or summarize per task.

Examples:
  pomotrack history
  pomotrack history --from "last monday"
  pomotrack history --task report
  pomotrack history --tasks`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyTask, "task", "", "Filter by task name substring")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Start date")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "End date")
	historyCmd.Flags().BoolVar(&historyTasks, "tasks", false, "Summarize per task instead of listing sessions")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum rows (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	if historyTasks {
		tasks, err := stats.TaskSummaries(&database.Store, historyLimit)
		if err != nil {
			return err
		}
		printTasks(tasks)
		return nil
	}

	query := db.SessionQuery{TaskFilter: historyTask}
	if historyFrom != "" {
		t, err := parseDate(historyFrom)
		if err != nil {
			return err
		}
		query.From = t.Format("2006-01-02")
	}
	if historyTo != "" {
		t, err := parseDate(historyTo)
		if err != nil {
			return err
		}
		query.To = t.Format("2006-01-02")
	}

	sessions, err := database.GetSessions(query)
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(sessions) > historyLimit {
		sessions = sessions[len(sessions)-historyLimit:]
	}
	printSessions(sessions)
	return nil
}

func printSessions(sessions []models.SessionRecord) {
	if len(sessions) == 0 {
		fmt.Println(dimStyle.Render("No sessions recorded."))
		return
	}
	for _, s := range sessions {
		when := s.StartTime.Format("Jan 2 15:04")
		mark := valueStyle.Render("done")
		if !s.Completed {
			mark = dimStyle.Render("skipped")
		}

		switch {
		case s.Phase.IsBreak():
			fmt.Printf("%s  %s %s %s\n",
				dimStyle.Render(when), breakTimerStyle.Render("break"),
				dimStyle.Render(minutesText(s.DurationSeconds/60)), mark)
		default:
			line := fmt.Sprintf("%s  %s %s %s  focus %d",
				dimStyle.Render(when), valueStyle.Render(s.TaskName),
				dimStyle.Render(minutesText(s.DurationSeconds/60)), mark, s.FocusScore)
			if s.Interruptions > 0 {
				line += warnStyle.Render(fmt.Sprintf("  %d interruption(s)", s.Interruptions))
			}
			fmt.Println(line)
		}
	}
}

func printTasks(tasks []models.TaskSummary) {
	if len(tasks) == 0 {
		fmt.Println(dimStyle.Render("No completed work yet."))
		return
	}
	fmt.Println(titleStyle.Render("Tasks"))
	for _, ts := range tasks {
		fmt.Printf("%s  %s pomodoros, %.1fh, focus %.1f, last %s\n",
			valueStyle.Render(ts.TaskName),
			humanize.Comma(int64(ts.Sessions)),
			ts.TotalHours, ts.AvgFocus,
			dimStyle.Render(ts.LastWorked))
	}
}
