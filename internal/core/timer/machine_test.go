package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/config"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time                  { return c.now }
func (c *fakeClock) advance(d time.Duration)         { c.now = c.now.Add(d) }
func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
}

type fakeSink struct {
	records  []*models.SessionRecord
	failures int // reject this many calls with a storage error
}

func (s *fakeSink) Finalize(r *models.SessionRecord) error {
	if s.failures > 0 {
		s.failures--
		return models.NewStorageError("append session", errors.New("disk unavailable"))
	}
	s.records = append(s.records, r)
	return nil
}

func testMachine(t *testing.T, mutate func(*config.Config)) (*Machine, *fakeClock, *fakeSink) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	clock := newFakeClock()
	sink := &fakeSink{}
	return New(cfg, clock, sink), clock, sink
}

func TestStartWorkValidation(t *testing.T) {
	m, _, _ := testMachine(t, nil)

	if err := m.StartWork("   "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank task: error = %v, want ErrInvalidInput", err)
	}
	if m.CurrentState() != StateIdle {
		t.Error("failed start must not change state")
	}

	if err := m.StartWork("Write report"); err != nil {
		t.Fatalf("StartWork() error = %v", err)
	}
	if m.CurrentState() != StateWorking {
		t.Errorf("state = %s, want working", m.CurrentState())
	}

	if err := m.StartWork("Another"); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("double start: error = %v, want ErrIllegalTransition", err)
	}
}

func TestTickFinalizesExactlyOnce(t *testing.T) {
	// Ticks summing past the planned duration finalize exactly one
	// record, with the planned duration, not the raw elapsed sum.
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}

	// 24 minutes of one-minute ticks, then one oversized tick.
	for i := 0; i < 24; i++ {
		clock.advance(time.Minute)
		if err := m.Tick(time.Minute); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	clock.advance(90 * time.Second)
	if err := m.Tick(90 * time.Second); err != nil {
		t.Fatalf("final tick: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("finalized %d records, want 1", len(sink.records))
	}
	r := sink.records[0]
	if !r.Completed {
		t.Error("record not completed")
	}
	if r.DurationSeconds != 1500 {
		t.Errorf("duration = %d, want planned 1500", r.DurationSeconds)
	}
	if r.FocusScore != 100 {
		t.Errorf("focus score = %d, want 100", r.FocusScore)
	}
	if m.CurrentState() != StateIdle {
		t.Errorf("state after completion = %s, want idle (auto_start_break off)", m.CurrentState())
	}
}

func TestTickRejectsNegativeElapsed(t *testing.T) {
	m, _, _ := testMachine(t, nil)
	if err := m.StartWork("x"); err != nil {
		t.Fatal(err)
	}
	if err := m.Tick(-time.Second); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestTickInvalidFromIdle(t *testing.T) {
	m, _, _ := testMachine(t, nil)
	if err := m.Tick(time.Second); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestPauseResumeNeutral(t *testing.T) {
	// Pause followed by resume leaves remaining time and focus scoring
	// unchanged; pause wall time never reaches the duration.
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(10 * time.Minute)
	if err := m.Tick(10 * time.Minute); err != nil {
		t.Fatal(err)
	}

	before := m.CurrentSnapshot().Remaining

	if err := m.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := m.Tick(time.Second); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("tick while paused: error = %v, want ErrIllegalTransition", err)
	}
	clock.advance(30 * time.Minute) // long paused stretch
	if err := m.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	if got := m.CurrentSnapshot().Remaining; got != before {
		t.Errorf("remaining changed across pause: %v != %v", got, before)
	}

	clock.advance(15 * time.Minute)
	if err := m.Tick(15 * time.Minute); err != nil {
		t.Fatal(err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("finalized %d records, want 1", len(sink.records))
	}
	r := sink.records[0]
	if r.DurationSeconds != 1500 {
		t.Errorf("duration = %d, want 1500 (pause excluded)", r.DurationSeconds)
	}
	if r.FocusScore != 100 {
		t.Errorf("focus score = %d, want 100", r.FocusScore)
	}
}

func TestPauseResumeIllegalStates(t *testing.T) {
	m, _, _ := testMachine(t, nil)

	if err := m.Pause(); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("pause from idle: %v", err)
	}
	if err := m.Resume(); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("resume from idle: %v", err)
	}
}

func TestRecordInterruptionLowersScore(t *testing.T) {
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := m.RecordInterruption(); err != nil {
			t.Fatal(err)
		}
	}
	clock.advance(25 * time.Minute)
	if err := m.Tick(25 * time.Minute); err != nil {
		t.Fatal(err)
	}

	r := sink.records[0]
	if r.Interruptions != 3 {
		t.Errorf("interruptions = %d, want 3", r.Interruptions)
	}
	if r.FocusScore != 70 {
		t.Errorf("focus score = %d, want 70", r.FocusScore)
	}
}

func TestFocusScoreFloorsAtZero(t *testing.T) {
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Chaotic day"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 15; i++ {
		if err := m.RecordInterruption(); err != nil {
			t.Fatal(err)
		}
	}
	clock.advance(25 * time.Minute)
	if err := m.Tick(25 * time.Minute); err != nil {
		t.Fatal(err)
	}

	if got := sink.records[0].FocusScore; got != 0 {
		t.Errorf("focus score = %d, want 0", got)
	}
}

func TestInterruptionOnlyWhileWorking(t *testing.T) {
	m, _, _ := testMachine(t, nil)

	if err := m.RecordInterruption(); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("idle: error = %v", err)
	}

	if err := m.StartBreak(false); err != nil {
		t.Fatal(err)
	}
	if err := m.RecordInterruption(); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("break: error = %v", err)
	}
}

func TestSkipRecordsIncomplete(t *testing.T) {
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(10 * time.Minute)
	if err := m.Tick(10 * time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Skip(); err != nil {
		t.Fatalf("Skip() error = %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("finalized %d records, want 1", len(sink.records))
	}
	r := sink.records[0]
	if r.Completed {
		t.Error("skipped session marked completed")
	}
	if r.FocusScore != 0 {
		t.Errorf("skipped focus score = %d, want 0", r.FocusScore)
	}
	if r.DurationSeconds != 600 {
		t.Errorf("skipped duration = %d, want elapsed 600", r.DurationSeconds)
	}
	if m.CurrentSnapshot().CompletedWork != 0 {
		t.Error("skip must not increment the completed counter")
	}
}

func TestSkipFromPaused(t *testing.T) {
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(5 * time.Minute)
	if err := m.Tick(5 * time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Pause(); err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Hour)
	if err := m.Skip(); err != nil {
		t.Fatalf("Skip() from paused error = %v", err)
	}

	r := sink.records[0]
	if r.Completed || r.Phase != models.PhaseWork {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.DurationSeconds != 300 {
		t.Errorf("duration = %d, want 300 (pause excluded)", r.DurationSeconds)
	}
	if m.CurrentState() != StateIdle {
		t.Errorf("state = %s, want idle", m.CurrentState())
	}
}

func TestSkipFromIdleIllegal(t *testing.T) {
	m, _, _ := testMachine(t, nil)
	if err := m.Skip(); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestAutoStartBreakCadence(t *testing.T) {
	// With auto_start_break on, work completion rolls into a short
	// break, and every 4th completion into a long break.
	m, clock, sink := testMachine(t, func(c *config.Config) {
		c.AutoStartBreak = true
		c.AutoStartWork = true
	})

	finishPhase := func(d time.Duration) {
		t.Helper()
		clock.advance(d)
		if err := m.Tick(d); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.StartWork("Cycle"); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 4; i++ {
		finishPhase(25 * time.Minute) // work completes, break opens
		want := StateShortBreak
		if i == 4 {
			want = StateLongBreak
		}
		if got := m.CurrentState(); got != want {
			t.Fatalf("after pomodoro %d: state = %s, want %s", i, got, want)
		}
		breakLen := 5 * time.Minute
		if i == 4 {
			breakLen = 15 * time.Minute
		}
		finishPhase(breakLen) // break completes, auto-starts work
		if got := m.CurrentState(); got != StateWorking {
			t.Fatalf("after break %d: state = %s, want working", i, got)
		}
	}

	// 4 work + 4 break records.
	if len(sink.records) != 8 {
		t.Fatalf("finalized %d records, want 8", len(sink.records))
	}
	if sink.records[7].Phase != models.PhaseLongBreak {
		t.Errorf("eighth record phase = %s, want long_break", sink.records[7].Phase)
	}
	// Auto-started work keeps the task name.
	if sink.records[2].TaskName != "Cycle" {
		t.Errorf("auto-started work task = %q, want Cycle", sink.records[2].TaskName)
	}
}

func TestStorageFailureRetriesOnNextTick(t *testing.T) {
	// A sink failure keeps the record resident; ticks retry the write
	// before advancing time, and the session finalizes exactly once.
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })
	sink.failures = 2

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(25 * time.Minute)

	err := m.Tick(25 * time.Minute)
	if !models.IsStorageError(err) {
		t.Fatalf("error = %v, want storage error", err)
	}
	if !m.CurrentSnapshot().PendingWrite {
		t.Fatal("record not resident after storage failure")
	}

	// Second attempt also fails.
	if err := m.Tick(time.Second); !models.IsStorageError(err) {
		t.Fatalf("retry error = %v, want storage error", err)
	}

	// Third attempt succeeds.
	if err := m.Tick(time.Second); err != nil {
		t.Fatalf("final retry error = %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("finalized %d records, want exactly 1", len(sink.records))
	}
	if m.CurrentState() != StateIdle {
		t.Errorf("state = %s, want idle after flushed finalize", m.CurrentState())
	}
	if m.CurrentSnapshot().CompletedWork != 1 {
		t.Error("completed counter should advance only after persist")
	}
}

func TestSkipAfterStorageFailureDeliversOnce(t *testing.T) {
	// A session that ran to completion but failed to persist is resident
	// for retry. Skipping then must flush that record as-is, not finalize
	// it a second time.
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartBreak = false })
	sink.failures = 1

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(25 * time.Minute)
	if err := m.Tick(25 * time.Minute); !models.IsStorageError(err) {
		t.Fatalf("error = %v, want storage error", err)
	}

	if err := m.Skip(); err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if m.CurrentSnapshot().PendingWrite {
		t.Error("record still resident after successful skip")
	}
	if m.CurrentState() != StateIdle {
		t.Errorf("state = %s, want idle", m.CurrentState())
	}

	// A later tick has nothing left to flush.
	if err := m.Tick(time.Second); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("tick after flush: error = %v, want ErrIllegalTransition", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("delivered %d records, want exactly 1", len(sink.records))
	}
	r := sink.records[0]
	if !r.Completed || r.DurationSeconds != 1500 {
		t.Errorf("record = completed %v duration %d, want the completed session unchanged", r.Completed, r.DurationSeconds)
	}
	if m.CurrentSnapshot().CompletedWork != 1 {
		t.Error("completed counter should reflect the flushed session")
	}
}

func TestDiscardDropsInFlightRecord(t *testing.T) {
	m, clock, sink := testMachine(t, nil)

	if err := m.StartWork("Write report"); err != nil {
		t.Fatal(err)
	}
	clock.advance(10 * time.Minute)
	if err := m.Tick(10 * time.Minute); err != nil {
		t.Fatal(err)
	}

	m.Discard()

	if m.CurrentState() != StateIdle {
		t.Errorf("state = %s, want idle", m.CurrentState())
	}
	if len(sink.records) != 0 {
		t.Errorf("discard must not finalize, got %d records", len(sink.records))
	}
}

func TestManualBreakFromIdle(t *testing.T) {
	m, clock, sink := testMachine(t, func(c *config.Config) { c.AutoStartWork = false })

	if err := m.StartBreak(true); err != nil {
		t.Fatalf("StartBreak() error = %v", err)
	}
	if m.CurrentState() != StateLongBreak {
		t.Errorf("state = %s, want long_break", m.CurrentState())
	}

	clock.advance(15 * time.Minute)
	if err := m.Tick(15 * time.Minute); err != nil {
		t.Fatal(err)
	}
	if m.CurrentState() != StateIdle {
		t.Errorf("state after break = %s, want idle", m.CurrentState())
	}
	if len(sink.records) != 1 || sink.records[0].Phase != models.PhaseLongBreak {
		t.Errorf("unexpected records: %+v", sink.records)
	}
}

func TestSeededCadenceCounter(t *testing.T) {
	// Seeding with 3 completed pomodoros makes the next completion the
	// 4th, which earns a long break.
	m, clock, _ := testMachine(t, func(c *config.Config) { c.AutoStartBreak = true })
	m.SetCompletedWork(3)

	if err := m.StartWork("Fourth"); err != nil {
		t.Fatal(err)
	}
	clock.advance(25 * time.Minute)
	if err := m.Tick(25 * time.Minute); err != nil {
		t.Fatal(err)
	}
	if m.CurrentState() != StateLongBreak {
		t.Errorf("state = %s, want long_break", m.CurrentState())
	}
}
