// Package notify delivers lifecycle events to the user. Delivery happens
// only after the finalize transaction commits, so a notification is never
// sent for state that rolled back.
package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"github.com/pomotrack/pomotrack/internal/core/level"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

// Notifier receives post-commit lifecycle events.
type Notifier interface {
	SessionCompleted(r *models.SessionRecord, completedToday, dailyGoal int)
	AchievementUnlocked(a models.Achievement)
	LevelUp(p level.Progress)
}

// Console writes notifications to a writer using a user-overridable
// mustache template for session completions.
type Console struct {
	Out      io.Writer
	Template string
}

// NewConsole builds a console notifier around out.
func NewConsole(out io.Writer, template string) *Console {
	return &Console{Out: out, Template: template}
}

func (c *Console) SessionCompleted(r *models.SessionRecord, completedToday, dailyGoal int) {
	if r.Phase.IsBreak() {
		fmt.Fprintf(c.Out, "Break over (%s).\n", durationText(r.DurationSeconds))
		return
	}

	rendered, err := mustache.Render(c.Template, map[string]interface{}{
		"task_name":       r.TaskName,
		"duration":        durationText(r.DurationSeconds),
		"focus_score":     r.FocusScore,
		"interrupted":     r.Interruptions > 0,
		"interruptions":   r.Interruptions,
		"completed_today": completedToday,
		"daily_goal":      dailyGoal,
	})
	if err != nil {
		// A broken user template must not swallow the event.
		rendered = fmt.Sprintf("Finished %q (%s, focus %d/100).",
			r.TaskName, durationText(r.DurationSeconds), r.FocusScore)
	}
	fmt.Fprintln(c.Out, rendered)
}

func (c *Console) AchievementUnlocked(a models.Achievement) {
	fmt.Fprintf(c.Out, "%s Achievement unlocked: %s — %s [%s]\n",
		a.Icon, a.Name, a.Description, a.Rarity)
}

func (c *Console) LevelUp(p level.Progress) {
	fmt.Fprintf(c.Out, "Level up! You are now level %d: %s\n", p.Level, p.Title)
}

// durationText renders a second count the way a human says it.
func durationText(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", seconds)
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}

// Silent drops every event. Used by commands that only mutate data.
type Silent struct{}

func (Silent) SessionCompleted(*models.SessionRecord, int, int) {}
func (Silent) AchievementUnlocked(models.Achievement)           {}
func (Silent) LevelUp(level.Progress)                           {}
