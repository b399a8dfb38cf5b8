package db

import (
	"database/sql"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// UpsertDailyStat replaces the aggregate row for stat.Date.
func (s *Store) UpsertDailyStat(stat *models.DailyStat) error {
	_, err := s.q.Exec(`
		INSERT INTO daily_stats
		(date, total_pomodoros, total_minutes, avg_focus_score,
		 completed_tasks, most_productive_hour, streak_days)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_pomodoros = excluded.total_pomodoros,
			total_minutes = excluded.total_minutes,
			avg_focus_score = excluded.avg_focus_score,
			completed_tasks = excluded.completed_tasks,
			most_productive_hour = excluded.most_productive_hour,
			streak_days = excluded.streak_days
	`, stat.Date, stat.TotalPomodoros, stat.TotalMinutes, stat.AvgFocusScore,
		stat.CompletedTasks, stat.MostProductiveHour, stat.StreakDays)
	return models.NewStorageError("upsert daily stat", err)
}

// GetDailyStat returns the aggregate for a date, or nil if the date has
// no completed work sessions yet.
func (s *Store) GetDailyStat(date string) (*models.DailyStat, error) {
	stat := &models.DailyStat{Date: date}
	err := s.q.QueryRow(`
		SELECT total_pomodoros, total_minutes, avg_focus_score,
		       completed_tasks, most_productive_hour, streak_days
		FROM daily_stats WHERE date = ?
	`, date).Scan(&stat.TotalPomodoros, &stat.TotalMinutes, &stat.AvgFocusScore,
		&stat.CompletedTasks, &stat.MostProductiveHour, &stat.StreakDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("get daily stat", err)
	}
	return stat, nil
}

// GetStatsRange returns the DailyStats within [from, to] ordered by date.
func (s *Store) GetStatsRange(from, to string) ([]models.DailyStat, error) {
	rows, err := s.q.Query(`
		SELECT date, total_pomodoros, total_minutes, avg_focus_score,
		       completed_tasks, most_productive_hour, streak_days
		FROM daily_stats
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from, to)
	if err != nil {
		return nil, models.NewStorageError("query stats range", err)
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var st models.DailyStat
		if err := rows.Scan(&st.Date, &st.TotalPomodoros, &st.TotalMinutes,
			&st.AvgFocusScore, &st.CompletedTasks, &st.MostProductiveHour,
			&st.StreakDays); err != nil {
			return nil, models.NewStorageError("scan daily stat", err)
		}
		stats = append(stats, st)
	}
	return stats, models.NewStorageError("iterate stats range", rows.Err())
}

// ClearDerived drops every daily stat and user stat counter. The replay
// rebuild recreates them from the session log.
func (s *Store) ClearDerived() error {
	if _, err := s.q.Exec(`DELETE FROM daily_stats`); err != nil {
		return models.NewStorageError("clear daily stats", err)
	}
	if _, err := s.q.Exec(`DELETE FROM user_stats`); err != nil {
		return models.NewStorageError("clear user stats", err)
	}
	return nil
}
