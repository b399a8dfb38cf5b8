package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

var (
	statsDate  string
	statsWeek  bool
	statsMonth bool
	statsFrom  string
	statsTo    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity statistics",
	Long: `Display daily, weekly, or monthly productivity statistics.

By default shows today. Dates accept natural phrases.

Examples:
  pomotrack stats
  pomotrack stats --date yesterday
  pomotrack stats --date 2025-03-10
  pomotrack stats --week
  pomotrack stats --month
  pomotrack stats --from "last monday" --to today`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Show a specific day")
	statsCmd.Flags().BoolVar(&statsWeek, "week", false, "Show the current week")
	statsCmd.Flags().BoolVar(&statsMonth, "month", false, "Show the current month")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Summarize from this date")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Summarize up to this date (default: today)")
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	day := time.Now()
	if statsDate != "" {
		if day, err = parseDate(statsDate); err != nil {
			return err
		}
	}

	switch {
	case statsFrom != "":
		from, err := parseDate(statsFrom)
		if err != nil {
			return err
		}
		to := time.Now()
		if statsTo != "" {
			if to, err = parseDate(statsTo); err != nil {
				return err
			}
		}
		start, end := from.Format("2006-01-02"), to.Format("2006-01-02")
		daily, err := database.GetStatsRange(start, end)
		if err != nil {
			return err
		}
		printSummary("Range", stats.Summarize(daily, start, end))
	case statsWeek:
		sum, err := stats.WeeklySummary(&database.Store, day)
		if err != nil {
			return err
		}
		printSummary("Week", sum)
	case statsMonth:
		sum, err := stats.MonthlySummary(&database.Store, day)
		if err != nil {
			return err
		}
		printSummary("Month", sum)
	default:
		date := day.Format("2006-01-02")
		stat, err := database.GetDailyStat(date)
		if err != nil {
			return err
		}
		printDaily(date, stat)
	}
	return nil
}

func printDaily(date string, stat *models.DailyStat) {
	fmt.Println(titleStyle.Render("Statistics — " + date))
	if stat == nil {
		fmt.Println(dimStyle.Render("No completed pomodoros."))
		return
	}
	fmt.Printf("%s  %s\n", headerStyle.Render("Pomodoros:        "), valueStyle.Render(fmt.Sprintf("%d", stat.TotalPomodoros)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Focused time:     "), valueStyle.Render(minutesText(stat.TotalMinutes)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Average focus:    "), valueStyle.Render(fmt.Sprintf("%.1f/100", stat.AvgFocusScore)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Tasks worked:     "), valueStyle.Render(fmt.Sprintf("%d", stat.CompletedTasks)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Best hour:        "), valueStyle.Render(fmt.Sprintf("%02d:00", stat.MostProductiveHour)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Streak:           "), valueStyle.Render(fmt.Sprintf("%d day(s)", stat.StreakDays)))
}

func printSummary(label string, sum models.PeriodSummary) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s %s — %s", label, sum.Start, sum.End)))
	if sum.TotalPomodoros == 0 {
		fmt.Println(dimStyle.Render("No completed pomodoros."))
		return
	}
	fmt.Printf("%s  %s\n", headerStyle.Render("Pomodoros:        "), valueStyle.Render(humanize.Comma(int64(sum.TotalPomodoros))))
	fmt.Printf("%s  %s\n", headerStyle.Render("Focused time:     "), valueStyle.Render(minutesText(sum.TotalMinutes)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Average focus:    "), valueStyle.Render(fmt.Sprintf("%.1f/100", sum.AvgFocusScore)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Active days:      "), valueStyle.Render(fmt.Sprintf("%d", sum.ActiveDays)))
	fmt.Printf("%s  %s\n", headerStyle.Render("Best day:         "), valueStyle.Render(fmt.Sprintf("%s (%d)", sum.BestDay, sum.BestDayCount)))
}

func minutesText(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
