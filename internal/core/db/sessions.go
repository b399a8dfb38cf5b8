package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// timeFormat stores timestamps losslessly and keeps them sortable as text.
const timeFormat = time.RFC3339Nano

// SessionQuery narrows GetSessions. Zero value means no filtering.
type SessionQuery struct {
	From       string // inclusive YYYY-MM-DD, empty = unbounded
	To         string // inclusive YYYY-MM-DD, empty = unbounded
	TaskFilter string // substring match on task_name
	Phase      models.Phase
	Completed  *bool
}

// AppendSession persists a finalized record. Idempotent by record id: a
// record that already exists is left untouched, so a retried finalize
// cycle never double-counts.
func (s *Store) AppendSession(r *models.SessionRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	var tags interface{}
	if len(r.Tags) > 0 {
		data, err := json.Marshal(r.Tags)
		if err != nil {
			return models.NewStorageError("encode tags", err)
		}
		tags = string(data)
	}

	_, err := s.q.Exec(`
		INSERT INTO sessions
		(uuid, start_time, end_time, duration_seconds, task_name, phase,
		 completed, interruptions, focus_score, tags, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO NOTHING
	`,
		r.ID,
		r.StartTime.Format(timeFormat),
		r.EndTime.Format(timeFormat),
		r.DurationSeconds,
		r.TaskName,
		string(r.Phase),
		r.Completed,
		r.Interruptions,
		r.FocusScore,
		tags,
		nullable(r.Notes),
	)
	return models.NewStorageError("append session", err)
}

// GetSessions returns records matching q, ordered by start_time
// ascending. Callers restart the sequence by calling again.
func (s *Store) GetSessions(q SessionQuery) ([]models.SessionRecord, error) {
	query := `
		SELECT uuid, start_time, end_time, duration_seconds, task_name,
		       phase, completed, interruptions, focus_score, tags, notes
		FROM sessions WHERE 1=1`
	args := []interface{}{}

	// Timestamps are stored with their local offset; the leading ten
	// characters are the local calendar date, matching SessionRecord.Date.
	// SQLite's date() would normalize to UTC and shift sessions near
	// midnight onto the wrong day.
	if q.From != "" {
		query += " AND substr(start_time, 1, 10) >= ?"
		args = append(args, q.From)
	}
	if q.To != "" {
		query += " AND substr(start_time, 1, 10) <= ?"
		args = append(args, q.To)
	}
	if q.TaskFilter != "" {
		query += " AND task_name LIKE ?"
		args = append(args, "%"+q.TaskFilter+"%")
	}
	if q.Phase != "" {
		query += " AND phase = ?"
		args = append(args, string(q.Phase))
	}
	if q.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *q.Completed)
	}

	query += " ORDER BY start_time ASC"

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, models.NewStorageError("query sessions", err)
	}
	defer rows.Close()

	var records []models.SessionRecord
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, models.NewStorageError("scan session", err)
		}
		records = append(records, r)
	}
	return records, models.NewStorageError("iterate sessions", rows.Err())
}

// CompletedWorkSessions returns every completed work session in start
// order. The achievement engine's run-based rules fold over this.
func (s *Store) CompletedWorkSessions() ([]models.SessionRecord, error) {
	completed := true
	return s.GetSessions(SessionQuery{Phase: models.PhaseWork, Completed: &completed})
}

// CompletedWorkOnDate returns the completed work sessions of one date.
func (s *Store) CompletedWorkOnDate(date string) ([]models.SessionRecord, error) {
	completed := true
	return s.GetSessions(SessionQuery{
		From: date, To: date,
		Phase: models.PhaseWork, Completed: &completed,
	})
}

// CountSessions returns the total number of log entries, any phase.
func (s *Store) CountSessions() (int, error) {
	var n int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, models.NewStorageError("count sessions", err)
}

// CountCompletedWork returns the cumulative completed pomodoro count.
func (s *Store) CountCompletedWork() (int, error) {
	var n int
	err := s.q.QueryRow(`
		SELECT COUNT(*) FROM sessions WHERE phase = 'work' AND completed = 1
	`).Scan(&n)
	return n, models.NewStorageError("count completed work", err)
}

// SumCompletedWorkMinutes returns cumulative focused minutes.
func (s *Store) SumCompletedWorkMinutes() (int, error) {
	var n sql.NullInt64
	err := s.q.QueryRow(`
		SELECT SUM(duration_seconds) / 60 FROM sessions
		WHERE phase = 'work' AND completed = 1
	`).Scan(&n)
	return int(n.Int64), models.NewStorageError("sum completed minutes", err)
}

// CountDistinctCompletedTasks returns how many distinct task names have
// at least one completed work session.
func (s *Store) CountDistinctCompletedTasks() (int, error) {
	var n int
	err := s.q.QueryRow(`
		SELECT COUNT(DISTINCT task_name) FROM sessions
		WHERE phase = 'work' AND completed = 1
	`).Scan(&n)
	return n, models.NewStorageError("count distinct tasks", err)
}

func scanSession(rows *sql.Rows) (models.SessionRecord, error) {
	var (
		r          models.SessionRecord
		start, end string
		phase      string
		tags       sql.NullString
		notes      sql.NullString
	)
	if err := rows.Scan(&r.ID, &start, &end, &r.DurationSeconds, &r.TaskName,
		&phase, &r.Completed, &r.Interruptions, &r.FocusScore, &tags, &notes); err != nil {
		return r, err
	}

	var err error
	if r.StartTime, err = time.Parse(timeFormat, start); err != nil {
		return r, err
	}
	if r.EndTime, err = time.Parse(timeFormat, end); err != nil {
		return r, err
	}
	r.Phase = models.Phase(phase)
	r.Notes = notes.String
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &r.Tags); err != nil {
			return r, err
		}
	}
	return r, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
