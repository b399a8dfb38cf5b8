// Package export serializes the session log to JSON or CSV and imports
// it back. Round-tripping is lossless: an exported log imported into an
// empty database and rebuilt yields identical aggregates.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

const timeFormat = time.RFC3339Nano

// record is the wire shape of one session. Field names match the
// database columns so exports stay greppable against the schema.
type record struct {
	UUID            string   `json:"uuid"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationSeconds int      `json:"duration_seconds"`
	TaskName        string   `json:"task_name"`
	Phase           string   `json:"phase"`
	Completed       bool     `json:"completed"`
	Interruptions   int      `json:"interruptions"`
	FocusScore      int      `json:"focus_score"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

var csvHeader = []string{
	"uuid", "start_time", "end_time", "duration_seconds", "task_name",
	"phase", "completed", "interruptions", "focus_score", "tags", "notes",
}

func toRecord(s models.SessionRecord) record {
	return record{
		UUID:            s.ID,
		StartTime:       s.StartTime.Format(timeFormat),
		EndTime:         s.EndTime.Format(timeFormat),
		DurationSeconds: s.DurationSeconds,
		TaskName:        s.TaskName,
		Phase:           string(s.Phase),
		Completed:       s.Completed,
		Interruptions:   s.Interruptions,
		FocusScore:      s.FocusScore,
		Tags:            s.Tags,
		Notes:           s.Notes,
	}
}

func (r record) toSession() (models.SessionRecord, error) {
	start, err := time.Parse(timeFormat, r.StartTime)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("%w: start_time %q: %v", models.ErrInvalidInput, r.StartTime, err)
	}
	end, err := time.Parse(timeFormat, r.EndTime)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("%w: end_time %q: %v", models.ErrInvalidInput, r.EndTime, err)
	}
	return models.SessionRecord{
		ID:              r.UUID,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: r.DurationSeconds,
		TaskName:        r.TaskName,
		Phase:           models.Phase(r.Phase),
		Completed:       r.Completed,
		Interruptions:   r.Interruptions,
		FocusScore:      r.FocusScore,
		Tags:            r.Tags,
		Notes:           r.Notes,
	}, nil
}

// WriteJSON writes sessions as an indented JSON array.
func WriteJSON(w io.Writer, sessions []models.SessionRecord) error {
	records := make([]record, len(sessions))
	for i, s := range sessions {
		records[i] = toRecord(s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ReadJSON parses a JSON array of sessions.
func ReadJSON(r io.Reader) ([]models.SessionRecord, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return convert(records)
}

// WriteCSV writes sessions with a header row. Tags are JSON-encoded
// inside their cell so the column count stays fixed.
func WriteCSV(w io.Writer, sessions []models.SessionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sessions {
		r := toRecord(s)
		tags := ""
		if len(r.Tags) > 0 {
			data, err := json.Marshal(r.Tags)
			if err != nil {
				return err
			}
			tags = string(data)
		}
		row := []string{
			r.UUID, r.StartTime, r.EndTime,
			strconv.Itoa(r.DurationSeconds), r.TaskName, r.Phase,
			strconv.FormatBool(r.Completed),
			strconv.Itoa(r.Interruptions), strconv.Itoa(r.FocusScore),
			tags, r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV produced by WriteCSV.
func ReadCSV(rd io.Reader) ([]models.SessionRecord, error) {
	cr := csv.NewReader(rd)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []record
	for i, row := range rows[1:] { // skip header
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				models.ErrInvalidInput, i+2, len(row), len(csvHeader))
		}
		r := record{
			UUID: row[0], StartTime: row[1], EndTime: row[2],
			TaskName: row[4], Phase: row[5], Notes: row[10],
		}
		if r.DurationSeconds, err = strconv.Atoi(row[3]); err != nil {
			return nil, fmt.Errorf("%w: row %d duration: %v", models.ErrInvalidInput, i+2, err)
		}
		if r.Completed, err = strconv.ParseBool(row[6]); err != nil {
			return nil, fmt.Errorf("%w: row %d completed: %v", models.ErrInvalidInput, i+2, err)
		}
		if r.Interruptions, err = strconv.Atoi(row[7]); err != nil {
			return nil, fmt.Errorf("%w: row %d interruptions: %v", models.ErrInvalidInput, i+2, err)
		}
		if r.FocusScore, err = strconv.Atoi(row[8]); err != nil {
			return nil, fmt.Errorf("%w: row %d focus score: %v", models.ErrInvalidInput, i+2, err)
		}
		if row[9] != "" {
			if err := json.Unmarshal([]byte(row[9]), &r.Tags); err != nil {
				return nil, fmt.Errorf("%w: row %d tags: %v", models.ErrInvalidInput, i+2, err)
			}
		}
		records = append(records, r)
	}
	return convert(records)
}

func convert(records []record) ([]models.SessionRecord, error) {
	sessions := make([]models.SessionRecord, 0, len(records))
	for _, r := range records {
		s, err := r.toSession()
		if err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// Import appends sessions in one transaction. Appends are idempotent by
// id, so importing an export of the same database is a no-op. Returns
// how many sessions were actually new.
func Import(d *db.DB, sessions []models.SessionRecord) (int, error) {
	added := 0
	err := d.WithTx(func(tx *db.Tx) error {
		before, err := tx.CountSessions()
		if err != nil {
			return err
		}
		for i := range sessions {
			if err := tx.AppendSession(&sessions[i]); err != nil {
				return err
			}
		}
		after, err := tx.CountSessions()
		if err != nil {
			return err
		}
		added = after - before
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
