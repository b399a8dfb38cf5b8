// Package timer implements the session state machine: the lifecycle of
// one active focus or break interval, driven forward by an external tick
// source. The machine owns the single in-flight SessionRecord until it is
// finalized and handed to the sink.
package timer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/config"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

// State is the machine's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateWorking    State = "working"
	StateShortBreak State = "short_break"
	StateLongBreak  State = "long_break"
	StatePaused     State = "paused"
)

// FinalizeSink receives every finalized SessionRecord. The sink runs the
// whole finalize-and-aggregate cycle; an error means nothing was
// persisted and the machine keeps the record resident for retry.
type FinalizeSink interface {
	Finalize(record *models.SessionRecord) error
}

// interruptionPenalty is the fixed focus-score deduction per recorded
// interruption. An uninterrupted completed work session scores 100.
const interruptionPenalty = 10

// Machine governs one active session at a time. All mutation happens on
// the caller's tick goroutine; Snapshot and CurrentState are safe to call
// concurrently from readers.
type Machine struct {
	mu    sync.Mutex
	cfg   *config.Config
	clock Clock
	sink  FinalizeSink

	state      State
	pausedFrom State // state to resume into

	current    *models.SessionRecord
	planned    time.Duration
	remaining  time.Duration
	pausedFor  time.Duration
	pauseStart time.Time

	// pending holds a finalized record the sink rejected with a storage
	// error. The next tick retries the sink before advancing time.
	pending *models.SessionRecord

	completedWork int // drives the long-break cadence
	lastTask      string
}

// New creates an idle machine.
func New(cfg *config.Config, clock Clock, sink FinalizeSink) *Machine {
	return &Machine{cfg: cfg, clock: clock, sink: sink, state: StateIdle}
}

// SetCompletedWork seeds the long-break cadence counter, typically from
// today's persisted pomodoro count at startup.
func (m *Machine) SetCompletedWork(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n >= 0 {
		m.completedWork = n
	}
}

// Snapshot is a read-only view of the in-flight session.
type Snapshot struct {
	State         State
	Phase         models.Phase
	TaskName      string
	Remaining     time.Duration
	Planned       time.Duration
	Interruptions int
	CompletedWork int
	PendingWrite  bool
}

// CurrentState returns the machine state.
func (m *Machine) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentSnapshot returns a consistent copy of the in-flight state.
func (m *Machine) CurrentSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		State:         m.state,
		Remaining:     m.remaining,
		Planned:       m.planned,
		CompletedWork: m.completedWork,
		PendingWrite:  m.pending != nil,
	}
	if m.current != nil {
		snap.Phase = m.current.Phase
		snap.TaskName = m.current.TaskName
		snap.Interruptions = m.current.Interruptions
	}
	return snap
}

// StartWork opens a work session. Valid only from Idle; the trimmed task
// name must be non-empty.
func (m *Machine) StartWork(task string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return fmt.Errorf("%w: cannot start work from %s", models.ErrIllegalTransition, m.state)
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return fmt.Errorf("%w: task name must not be empty", models.ErrInvalidInput)
	}

	m.openPhase(models.PhaseWork, task)
	return nil
}

// StartBreak opens a break manually, for profiles with auto_start_break
// disabled. Valid only from Idle.
func (m *Machine) StartBreak(long bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return fmt.Errorf("%w: cannot start break from %s", models.ErrIllegalTransition, m.state)
	}

	phase := models.PhaseShortBreak
	if long {
		phase = models.PhaseLongBreak
	}
	m.openPhase(phase, "")
	return nil
}

// Tick advances the active session by elapsed. When the remaining time
// reaches zero the record is finalized as completed, handed to the sink,
// and the machine auto-transitions. A sink failure leaves the finalized
// record resident; the next tick retries before advancing time again.
func (m *Machine) Tick(elapsed time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elapsed < 0 {
		return fmt.Errorf("%w: negative elapsed %v", models.ErrInvalidInput, elapsed)
	}

	// Flush a rejected finalize first; time does not move until the
	// record is safely persisted.
	if m.pending != nil {
		if err := m.flushPending(); err != nil {
			return err
		}
		return nil
	}

	switch m.state {
	case StateWorking, StateShortBreak, StateLongBreak:
	default:
		return fmt.Errorf("%w: tick invalid in %s", models.ErrIllegalTransition, m.state)
	}

	m.remaining -= elapsed
	if m.remaining > 0 {
		return nil
	}

	return m.finalize(true)
}

// Pause suspends the active session. Pause time is excluded from all
// elapsed accounting.
func (m *Machine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateWorking, StateShortBreak, StateLongBreak:
	default:
		return fmt.Errorf("%w: pause invalid in %s", models.ErrIllegalTransition, m.state)
	}

	m.pausedFrom = m.state
	m.state = StatePaused
	m.pauseStart = m.clock.Now()
	return nil
}

// Resume returns from Paused to the suspended state with remaining time
// unchanged.
func (m *Machine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePaused {
		return fmt.Errorf("%w: resume invalid in %s", models.ErrIllegalTransition, m.state)
	}

	m.pausedFor += m.clock.Now().Sub(m.pauseStart)
	m.state = m.pausedFrom
	return nil
}

// Skip abandons the current session: the record is finalized with
// completed=false and a zero focus score, then the same auto-transition
// logic as natural completion runs. Skipped work sessions never count
// toward the completed-pomodoro counters.
func (m *Machine) Skip() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The session already ran to completion; only the write failed. Retry
	// the persisted-once handoff instead of finalizing a second time.
	if m.pending != nil {
		return m.flushPending()
	}

	switch m.state {
	case StateWorking, StateShortBreak, StateLongBreak:
	case StatePaused:
		// Resume accounting so the skip records the paused-from phase.
		m.pausedFor += m.clock.Now().Sub(m.pauseStart)
		m.state = m.pausedFrom
	default:
		return fmt.Errorf("%w: skip invalid in %s", models.ErrIllegalTransition, m.state)
	}

	return m.finalize(false)
}

// RecordInterruption increments the interruption count on the in-flight
// work session. Valid only while Working; does not change state.
func (m *Machine) RecordInterruption() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateWorking {
		return fmt.Errorf("%w: interruptions only count while working", models.ErrIllegalTransition)
	}
	m.current.Interruptions++
	return nil
}

// Discard drops the in-flight, unfinalized record without persisting it.
// Stopping mid-session must never finalize: completed sessions are
// recorded at most once.
func (m *Machine) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.pending = nil
	m.remaining = 0
	m.state = StateIdle
}

// openPhase assumes the lock is held.
func (m *Machine) openPhase(phase models.Phase, task string) {
	m.planned = m.cfg.PhaseDuration(phase)
	m.remaining = m.planned
	m.pausedFor = 0
	m.current = models.NewSessionRecord(phase, task, m.clock.Now())

	switch phase {
	case models.PhaseWork:
		m.state = StateWorking
		m.lastTask = task
	case models.PhaseShortBreak:
		m.state = StateShortBreak
	case models.PhaseLongBreak:
		m.state = StateLongBreak
	}
}

// finalize closes the current record, hands it to the sink, and on
// success applies the auto-transition. Assumes the lock is held.
func (m *Machine) finalize(completed bool) error {
	r := m.current
	now := m.clock.Now()
	r.EndTime = now
	r.Completed = completed

	if completed {
		r.DurationSeconds = int(m.planned.Seconds())
		if r.Phase == models.PhaseWork {
			r.FocusScore = focusScore(r.Interruptions)
		}
	} else {
		elapsed := m.planned - m.remaining
		if elapsed < 0 {
			elapsed = 0
		}
		r.DurationSeconds = int(elapsed.Seconds())
		r.FocusScore = 0
	}

	if err := m.sink.Finalize(r); err != nil {
		if models.IsStorageError(err) {
			m.pending = r
		}
		return err
	}

	m.afterFinalize(r)
	return nil
}

// flushPending retries the sink for a previously rejected record.
// Assumes the lock is held.
func (m *Machine) flushPending() error {
	if err := m.sink.Finalize(m.pending); err != nil {
		return err
	}
	r := m.pending
	m.pending = nil
	m.afterFinalize(r)
	return nil
}

// afterFinalize applies the auto-transition for a just-persisted record.
// Assumes the lock is held.
func (m *Machine) afterFinalize(r *models.SessionRecord) {
	m.current = nil
	m.pending = nil
	m.remaining = 0

	if r.Phase == models.PhaseWork {
		if r.Completed {
			m.completedWork++
		}
		if !m.cfg.AutoStartBreak {
			m.state = StateIdle
			return
		}
		phase := models.PhaseShortBreak
		if m.completedWork > 0 && m.completedWork%m.cfg.PomodorosUntilLongBreak == 0 {
			phase = models.PhaseLongBreak
		}
		m.openPhase(phase, "")
		return
	}

	// Break finished.
	if m.cfg.AutoStartWork && m.lastTask != "" {
		m.openPhase(models.PhaseWork, m.lastTask)
		return
	}
	m.state = StateIdle
}

// focusScore computes the 0-100 score for a completed work session:
// 100 minus a fixed penalty per interruption, floor-clamped at 0.
func focusScore(interruptions int) int {
	score := 100 - interruptionPenalty*interruptions
	if score < 0 {
		score = 0
	}
	return score
}
