// Package tracker wires the state machine to persistence. It implements
// the machine's finalize sink: one transaction appends the session,
// recomputes the derived aggregates, and evaluates achievements, so the
// log and everything derived from it commit or roll back together.
package tracker

import (
	"github.com/pomotrack/pomotrack/internal/core/achievements"
	"github.com/pomotrack/pomotrack/internal/core/config"
	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/level"
	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/notify"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

// Tracker persists finalized session records and fans out the resulting
// events after commit.
type Tracker struct {
	db       *db.DB
	cfg      *config.Config
	notifier notify.Notifier
}

// New builds a tracker. The notifier only ever sees committed state.
func New(database *db.DB, cfg *config.Config, notifier notify.Notifier) *Tracker {
	return &Tracker{db: database, cfg: cfg, notifier: notifier}
}

// Finalize runs the finalize-and-aggregate cycle for one record.
//
// Breaks and abandoned sessions are append-only: they never touch the
// aggregates. A completed work session additionally recomputes its
// date's DailyStat, the cumulative counters, and achievement progress,
// all inside the same transaction as the append. The append is
// idempotent by record id, so the machine retrying a rejected finalize
// can never double-count.
func (t *Tracker) Finalize(r *models.SessionRecord) error {
	var (
		unlocked       []models.Achievement
		levelUp        *level.Progress
		completedToday int
	)

	err := t.db.WithTx(func(tx *db.Tx) error {
		unlocked = nil
		levelUp = nil
		completedToday = 0

		prevLevel, err := tx.GetUserStatInt(models.StatLevel)
		if err != nil {
			return err
		}

		if err := tx.AppendSession(r); err != nil {
			return err
		}
		if !r.Completed || r.Phase != models.PhaseWork {
			return nil
		}

		// Aggregate evaluation runs at the session's end time so unlock
		// dates and streaks are deterministic under replay.
		prog, err := stats.ApplyCompleted(&tx.Store, r, r.EndTime)
		if err != nil {
			return err
		}
		if prevLevel > 0 && prog.Level > prevLevel {
			levelUp = &prog
		}

		unlocked, err = achievements.Evaluate(&tx.Store, r.EndTime, t.cfg.DailyGoal)
		if err != nil {
			return err
		}

		stat, err := tx.GetDailyStat(r.Date())
		if err != nil {
			return err
		}
		if stat != nil {
			completedToday = stat.TotalPomodoros
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.Completed {
		t.notifier.SessionCompleted(r, completedToday, t.cfg.DailyGoal)
	}
	for _, a := range unlocked {
		t.notifier.AchievementUnlocked(a)
	}
	if levelUp != nil {
		t.notifier.LevelUp(*levelUp)
	}
	return nil
}

// CompletedToday returns today's persisted pomodoro count, used to seed
// the machine's long-break cadence at startup.
func (t *Tracker) CompletedToday(date string) (int, error) {
	stat, err := t.db.GetDailyStat(date)
	if err != nil {
		return 0, err
	}
	if stat == nil {
		return 0, nil
	}
	return stat.TotalPomodoros, nil
}
