// Package achievements evaluates unlock rules against the session log.
// Progress is always recomputed from persisted sessions and daily stats,
// so evaluation is idempotent; the store's monotonic upsert guarantees an
// unlocked achievement never regresses.
package achievements

import (
	"time"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

// earlyBirdHour and nightOwlHour bound the time-of-day rules: a work
// session started before 06:00 or completed at or after 22:00.
const (
	earlyBirdHour = 6
	nightOwlHour  = 22
)

// EvalContext carries the inputs one evaluation pass shares. Session and
// stat queries are cached so twenty rules cost two reads.
type EvalContext struct {
	store     *db.Store
	now       time.Time
	dailyGoal int

	sessions       []models.SessionRecord
	sessionsLoaded bool
	daily          []models.DailyStat
	dailyLoaded    bool
}

func newEvalContext(s *db.Store, now time.Time, dailyGoal int) *EvalContext {
	return &EvalContext{store: s, now: now, dailyGoal: dailyGoal}
}

// completedWork returns every completed work session in start order.
func (c *EvalContext) completedWork() ([]models.SessionRecord, error) {
	if !c.sessionsLoaded {
		sessions, err := c.store.CompletedWorkSessions()
		if err != nil {
			return nil, err
		}
		c.sessions = sessions
		c.sessionsLoaded = true
	}
	return c.sessions, nil
}

func (c *EvalContext) dailyStats() ([]models.DailyStat, error) {
	if !c.dailyLoaded {
		daily, err := c.store.GetStatsRange("0001-01-01", "9999-12-31")
		if err != nil {
			return nil, err
		}
		c.daily = daily
		c.dailyLoaded = true
	}
	return c.daily, nil
}

// progressFunc computes a rule's current progress. Unlock happens when
// progress reaches the definition's MaxProgress.
type progressFunc func(*EvalContext) (int, error)

func countCompleted(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	return len(sessions), err
}

func totalMinutes(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	minutes := 0
	for _, s := range sessions {
		minutes += s.DurationSeconds / 60
	}
	return minutes, nil
}

func maxStreak(c *EvalContext) (int, error) {
	daily, err := c.dailyStats()
	if err != nil {
		return 0, err
	}
	best := 0
	for _, st := range daily {
		if st.StreakDays > best {
			best = st.StreakDays
		}
	}
	return best, nil
}

func maxDailyCount(c *EvalContext) (int, error) {
	daily, err := c.dailyStats()
	if err != nil {
		return 0, err
	}
	best := 0
	for _, st := range daily {
		if st.TotalPomodoros > best {
			best = st.TotalPomodoros
		}
	}
	return best, nil
}

func daysAtGoal(c *EvalContext) (int, error) {
	daily, err := c.dailyStats()
	if err != nil {
		return 0, err
	}
	days := 0
	for _, st := range daily {
		if c.dailyGoal > 0 && st.TotalPomodoros >= c.dailyGoal {
			days++
		}
	}
	return days, nil
}

func earlyStarts(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		if s.StartTime.Hour() < earlyBirdHour {
			n++
		}
	}
	return n, nil
}

func lateFinishes(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		if s.EndTime.Hour() >= nightOwlHour {
			n++
		}
	}
	return n, nil
}

func interruptionFree(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		if s.Interruptions == 0 {
			n++
		}
	}
	return n, nil
}

// interruptionFreeRun is the longest run of consecutive completed work
// sessions with zero interruptions.
func interruptionFreeRun(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	best, run := 0, 0
	for _, s := range sessions {
		if s.Interruptions == 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best, nil
}

func weekendCount(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		switch s.StartTime.Weekday() {
		case time.Saturday, time.Sunday:
			n++
		}
	}
	return n, nil
}

// maxTaskCount is the highest completed-session count on any single task.
func maxTaskCount(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	counts := map[string]int{}
	best := 0
	for _, s := range sessions {
		counts[s.TaskName]++
		if counts[s.TaskName] > best {
			best = counts[s.TaskName]
		}
	}
	return best, nil
}

// distinctTasksInDay is the highest number of different tasks completed
// on any single date.
func distinctTasksInDay(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	byDate := map[string]map[string]bool{}
	best := 0
	for _, s := range sessions {
		date := s.Date()
		if byDate[date] == nil {
			byDate[date] = map[string]bool{}
		}
		byDate[date][s.TaskName] = true
		if len(byDate[date]) > best {
			best = len(byDate[date])
		}
	}
	return best, nil
}

func distinctTasks(c *EvalContext) (int, error) {
	sessions, err := c.completedWork()
	if err != nil {
		return 0, err
	}
	tasks := map[string]bool{}
	for _, s := range sessions {
		tasks[s.TaskName] = true
	}
	return len(tasks), nil
}
