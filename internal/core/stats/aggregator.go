// Package stats derives per-day aggregates, user-level counters, and
// period summaries from the append-only session log. Every value here is
// recomputed from persisted sessions, never incremented in place, so a
// replayed or retried write converges to the same numbers.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/level"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

const dateFormat = "2006-01-02"

// Recompute rebuilds the DailyStat for one date from that date's
// completed work sessions and the previous date's streak, then upserts
// it. Dates with no completed work get no row; the stat for such a date
// reads back as nil.
func Recompute(s *db.Store, date string) (*models.DailyStat, error) {
	sessions, err := s.CompletedWorkOnDate(date)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	stat := &models.DailyStat{Date: date}
	var focusSum int
	tasks := map[string]bool{}
	byHour := map[int]int{}
	for _, sess := range sessions {
		stat.TotalPomodoros++
		stat.TotalMinutes += sess.DurationSeconds / 60
		focusSum += sess.FocusScore
		tasks[sess.TaskName] = true
		byHour[sess.StartTime.Hour()]++
	}
	stat.AvgFocusScore = float64(focusSum) / float64(len(sessions))
	stat.CompletedTasks = len(tasks)
	stat.MostProductiveHour = productiveHour(byHour)

	stat.StreakDays = 1
	prev, err := s.GetDailyStat(previousDate(date))
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.TotalPomodoros > 0 {
		stat.StreakDays = prev.StreakDays + 1
	}

	if err := s.UpsertDailyStat(stat); err != nil {
		return nil, err
	}
	return stat, nil
}

// productiveHour picks the hour with the most completed sessions; ties
// break toward the earliest hour.
func productiveHour(byHour map[int]int) int {
	best, bestCount := 0, 0
	for hour := 0; hour < 24; hour++ {
		if byHour[hour] > bestCount {
			best, bestCount = hour, byHour[hour]
		}
	}
	return best
}

// UpdateUserStats recomputes the cumulative counters from the full
// session log and the daily_stats table, and refreshes the cache rows.
// Returns the level progress so callers can detect level-ups.
func UpdateUserStats(s *db.Store, now time.Time) (level.Progress, error) {
	sessions, err := s.CompletedWorkSessions()
	if err != nil {
		return level.Progress{}, err
	}

	var minutes, focusSum int
	tasks := map[string]bool{}
	for _, sess := range sessions {
		minutes += sess.DurationSeconds / 60
		focusSum += sess.FocusScore
		tasks[sess.TaskName] = true
	}
	avgFocus := 0.0
	if len(sessions) > 0 {
		avgFocus = float64(focusSum) / float64(len(sessions))
	}

	maxStreak, err := maxStreakDays(s)
	if err != nil {
		return level.Progress{}, err
	}

	prog := level.For(len(sessions))

	stats := map[string]string{
		models.StatTotalPomodoros: fmt.Sprintf("%d", len(sessions)),
		models.StatTotalMinutes:   fmt.Sprintf("%d", minutes),
		models.StatTotalTasks:     fmt.Sprintf("%d", len(tasks)),
		models.StatAvgFocus:       fmt.Sprintf("%.2f", avgFocus),
		models.StatMaxStreak:      fmt.Sprintf("%d", maxStreak),
		models.StatLevel:          fmt.Sprintf("%d", prog.Level),
		models.StatLastUpdated:    now.Format(time.RFC3339),
	}
	for key, value := range stats {
		if err := s.SetUserStat(key, value); err != nil {
			return level.Progress{}, err
		}
	}
	return prog, nil
}

func maxStreakDays(s *db.Store) (int, error) {
	all, err := s.GetStatsRange("0001-01-01", "9999-12-31")
	if err != nil {
		return 0, err
	}
	max := 0
	for _, st := range all {
		if st.StreakDays > max {
			max = st.StreakDays
		}
	}
	return max, nil
}

// ApplyCompleted runs the derived-stat side of a finalize cycle for one
// completed work session: recompute its date's aggregate, then the
// cumulative counters. Must run in the same transaction as the session
// append.
func ApplyCompleted(s *db.Store, r *models.SessionRecord, now time.Time) (level.Progress, error) {
	if _, err := Recompute(s, r.Date()); err != nil {
		return level.Progress{}, err
	}
	return UpdateUserStats(s, now)
}

// Summarize folds a run of DailyStats into one period view. The focus
// average is weighted by per-day pomodoro count; the best day is the one
// with the most pomodoros, earliest date winning ties.
func Summarize(daily []models.DailyStat, start, end string) models.PeriodSummary {
	sum := models.PeriodSummary{Start: start, End: end}
	var focusWeighted float64
	for _, st := range daily {
		if st.TotalPomodoros == 0 {
			continue
		}
		sum.ActiveDays++
		sum.TotalPomodoros += st.TotalPomodoros
		sum.TotalMinutes += st.TotalMinutes
		focusWeighted += st.AvgFocusScore * float64(st.TotalPomodoros)
		if st.TotalPomodoros > sum.BestDayCount {
			sum.BestDay = st.Date
			sum.BestDayCount = st.TotalPomodoros
		}
	}
	if sum.TotalPomodoros > 0 {
		sum.AvgFocusScore = focusWeighted / float64(sum.TotalPomodoros)
	}
	return sum
}

// WeeklySummary summarizes the Monday-to-Sunday week containing date.
func WeeklySummary(s *db.Store, date time.Time) (models.PeriodSummary, error) {
	start, end := WeekRange(date)
	daily, err := s.GetStatsRange(start, end)
	if err != nil {
		return models.PeriodSummary{}, err
	}
	return Summarize(daily, start, end), nil
}

// MonthlySummary summarizes the calendar month containing date.
func MonthlySummary(s *db.Store, date time.Time) (models.PeriodSummary, error) {
	start, end := MonthRange(date)
	daily, err := s.GetStatsRange(start, end)
	if err != nil {
		return models.PeriodSummary{}, err
	}
	return Summarize(daily, start, end), nil
}

// WeekRange returns the Monday and Sunday bracketing date.
func WeekRange(date time.Time) (string, string) {
	offset := (int(date.Weekday()) + 6) % 7 // Monday = 0
	monday := date.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(dateFormat), sunday.Format(dateFormat)
}

// MonthRange returns the first and last day of date's month.
func MonthRange(date time.Time) (string, string) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(dateFormat), last.Format(dateFormat)
}

// TaskSummaries groups completed work by task name, most-worked first.
// limit <= 0 returns every task.
func TaskSummaries(s *db.Store, limit int) ([]models.TaskSummary, error) {
	sessions, err := s.CompletedWorkSessions()
	if err != nil {
		return nil, err
	}

	byTask := map[string]*models.TaskSummary{}
	order := []string{}
	for _, sess := range sessions {
		ts, ok := byTask[sess.TaskName]
		if !ok {
			ts = &models.TaskSummary{TaskName: sess.TaskName}
			byTask[sess.TaskName] = ts
			order = append(order, sess.TaskName)
		}
		ts.Sessions++
		ts.TotalHours += float64(sess.DurationSeconds) / 3600
		ts.AvgFocus += float64(sess.FocusScore)
		if d := sess.Date(); d > ts.LastWorked {
			ts.LastWorked = d
		}
	}

	out := make([]models.TaskSummary, 0, len(order))
	for _, name := range order {
		ts := byTask[name]
		ts.AvgFocus /= float64(ts.Sessions)
		out = append(out, *ts)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sessions > out[j].Sessions
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Rebuild replays the whole session log into fresh derived state inside
// one transaction: drop the daily and user aggregates, recompute each
// date oldest-first so streaks chain correctly, then the counters.
func Rebuild(d *db.DB, now time.Time) error {
	return d.WithTx(func(tx *db.Tx) error {
		if err := tx.ClearDerived(); err != nil {
			return err
		}

		sessions, err := tx.CompletedWorkSessions()
		if err != nil {
			return err
		}
		seen := map[string]bool{}
		for _, sess := range sessions { // already in start order
			date := sess.Date()
			if seen[date] {
				continue
			}
			seen[date] = true
			if _, err := Recompute(&tx.Store, date); err != nil {
				return err
			}
		}

		_, err = UpdateUserStats(&tx.Store, now)
		return err
	})
}

func previousDate(date string) string {
	t, err := time.Parse(dateFormat, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dateFormat)
}
