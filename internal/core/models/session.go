package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase is the kind of timed interval a session covers.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Valid reports whether p is one of the three known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether p is a break phase.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// SessionRecord is one attempted or completed focus/break interval.
//
// A record is created when a phase starts, mutated only by the state
// machine that owns it, and finalized exactly once. After finalization it
// is immutable and handed to the store.
type SessionRecord struct {
	ID              string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	TaskName        string
	Phase           Phase
	Completed       bool
	Interruptions   int
	FocusScore      int // 0-100
	Tags            []string
	Notes           string
}

// NewSessionRecord opens a record for a phase starting now.
func NewSessionRecord(phase Phase, task string, start time.Time) *SessionRecord {
	return &SessionRecord{
		ID:        uuid.NewString(),
		StartTime: start,
		TaskName:  task,
		Phase:     phase,
	}
}

// Validate checks the record invariants before it is persisted.
func (r *SessionRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if r.Phase == PhaseWork && strings.TrimSpace(r.TaskName) == "" {
		return fmt.Errorf("%w: task name is required for work sessions", ErrInvalidInput)
	}
	if !r.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidInput, r.Phase)
	}
	if r.EndTime.Before(r.StartTime) {
		return fmt.Errorf("%w: end time precedes start time", ErrInvalidInput)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidInput)
	}
	if r.Interruptions < 0 {
		return fmt.Errorf("%w: negative interruption count", ErrInvalidInput)
	}
	if r.FocusScore < 0 || r.FocusScore > 100 {
		return fmt.Errorf("%w: focus score %d out of range", ErrInvalidInput, r.FocusScore)
	}
	return nil
}

// Date returns the calendar date the session started on, in local time.
func (r *SessionRecord) Date() string {
	return r.StartTime.Format("2006-01-02")
}
