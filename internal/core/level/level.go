// Package level maps cumulative completed pomodoros to a level, a title,
// and progress toward the next level. It is a pure function of its input:
// no storage, no clock, no hidden state.
package level

import "math"

// MaxLevel is the level ceiling. There is no threshold beyond it; excess
// pomodoros show 100% progress.
const MaxLevel = 100

// Progress describes where a pomodoro total falls on the level curve.
type Progress struct {
	Level     int
	Title     string
	IntoLevel int // pomodoros earned since reaching Level
	ToNext    int // pomodoros still needed for Level+1; 0 at the ceiling
	Percent   int // 0-100 progress within the current level
}

// Threshold returns how many pomodoros it takes to advance from level n
// to n+1: round(10 * 1.15^(n-1)). Level 1 requires 0 prior pomodoros, so
// Threshold(1) = 10 is the cost of reaching level 2.
func Threshold(n int) int {
	if n < 1 || n >= MaxLevel {
		return 0
	}
	return int(math.Round(10 * math.Pow(1.15, float64(n-1))))
}

// titleBands maps level ranges to titles. The band with the largest
// minimum at or below the level wins.
var titleBands = []struct {
	min   int
	title string
}{
	{1, "Tomato Apprentice"},
	{5, "Focus Novice"},
	{10, "Timekeeper"},
	{20, "Efficiency Adept"},
	{30, "Productivity Master"},
	{40, "Tomato Warrior"},
	{50, "Focus Master"},
	{60, "Time Lord"},
	{75, "Efficiency Sovereign"},
	{90, "Productivity Legend"},
	{100, "Pomodoro Myth"},
}

// TitleFor returns the title band for a level.
func TitleFor(lvl int) string {
	title := titleBands[0].title
	for _, band := range titleBands {
		if lvl >= band.min {
			title = band.title
		}
	}
	return title
}

// For computes the level progress for a cumulative completed pomodoro
// count. Identical input always yields identical output.
func For(totalPomodoros int) Progress {
	if totalPomodoros < 0 {
		totalPomodoros = 0
	}

	lvl := 1
	remaining := totalPomodoros
	for lvl < MaxLevel {
		need := Threshold(lvl)
		if remaining < need {
			break
		}
		remaining -= need
		lvl++
	}

	p := Progress{Level: lvl, Title: TitleFor(lvl), IntoLevel: remaining}
	if lvl >= MaxLevel {
		p.ToNext = 0
		p.Percent = 100
		return p
	}
	need := Threshold(lvl)
	p.ToNext = need - remaining
	p.Percent = remaining * 100 / need
	return p
}
