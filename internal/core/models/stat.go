package models

// DailyStat is the aggregate for one calendar date. It is derived wholly
// from that date's completed work sessions plus the previous date's stat
// (for streak continuity), and is never hand-edited.
type DailyStat struct {
	Date               string // YYYY-MM-DD
	TotalPomodoros     int
	TotalMinutes       int
	AvgFocusScore      float64
	CompletedTasks     int // distinct task names with a completed session
	MostProductiveHour int // 0-23; ties break toward the earliest hour
	StreakDays         int // consecutive days up to and including Date
}

// PeriodSummary folds a range of DailyStats into one view. Weekly and
// monthly summaries share this shape.
type PeriodSummary struct {
	Start          string
	End            string
	TotalPomodoros int
	TotalMinutes   int
	AvgFocusScore  float64 // weighted by per-day pomodoro count
	ActiveDays     int
	BestDay        string
	BestDayCount   int
}

// TaskSummary aggregates completed work per task name.
type TaskSummary struct {
	TaskName   string
	Sessions   int
	TotalHours float64
	AvgFocus   float64
	LastWorked string
}

// User stat cache keys. Every value stored under these keys is
// reconstructible from the session log alone.
const (
	StatTotalPomodoros = "total_pomodoros"
	StatTotalMinutes   = "total_minutes"
	StatTotalTasks     = "total_tasks"
	StatAvgFocus       = "avg_focus"
	StatMaxStreak      = "max_streak"
	StatLevel          = "level"
	StatLastUpdated    = "last_updated"
)
