package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// DefaultNotifyTemplate renders the session-completed notification.
// Users can override it by dropping a notify_template.txt next to the
// config file.
const DefaultNotifyTemplate = `Finished "{{task_name}}" ({{duration}}, focus {{focus_score}}/100).{{#interrupted}} {{interruptions}} interruption(s) recorded.{{/interrupted}} Completed {{completed_today}} of {{daily_goal}} today.`

// Config is the immutable, validated configuration for a profile.
// Durations are minutes unless DebugMode substitutes the second-based
// values for faster iteration.
type Config struct {
	WorkMinutes             int  `toml:"work_minutes"`
	ShortBreakMinutes       int  `toml:"short_break_minutes"`
	LongBreakMinutes        int  `toml:"long_break_minutes"`
	PomodorosUntilLongBreak int  `toml:"pomodoros_until_long_break"`
	DailyGoal               int  `toml:"daily_goal"`
	AutoStartBreak          bool `toml:"auto_start_break"`
	AutoStartWork           bool `toml:"auto_start_work"`

	DebugMode              bool `toml:"debug_mode"`
	DebugWorkSeconds       int  `toml:"debug_work_seconds"`
	DebugShortBreakSeconds int  `toml:"debug_short_break_seconds"`
	DebugLongBreakSeconds  int  `toml:"debug_long_break_seconds"`

	NotifyTemplate string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WorkMinutes:             25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		PomodorosUntilLongBreak: 4,
		DailyGoal:               8,
		AutoStartBreak:          true,
		AutoStartWork:           false,
		DebugMode:               false,
		DebugWorkSeconds:        10,
		DebugShortBreakSeconds:  5,
		DebugLongBreakSeconds:   10,
		NotifyTemplate:          DefaultNotifyTemplate,
	}
}

// Dir returns the per-user config directory (~/.config/pomotrack).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "pomotrack")
}

// Load reads config.toml and notify_template.txt from the default config
// directory. Missing files fall back to defaults; invalid values fail
// fast with ErrInvalidInput.
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom reads configuration from an explicit directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrInvalidInput, tomlPath, err)
		}
	}

	templatePath := filepath.Join(dir, "notify_template.txt")
	if data, err := os.ReadFile(templatePath); err == nil {
		cfg.NotifyTemplate = string(data)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range values before they can propagate.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		val  int
		min  int
	}{
		{"work_minutes", c.WorkMinutes, 1},
		{"short_break_minutes", c.ShortBreakMinutes, 1},
		{"long_break_minutes", c.LongBreakMinutes, 1},
		{"pomodoros_until_long_break", c.PomodorosUntilLongBreak, 1},
		{"daily_goal", c.DailyGoal, 1},
		{"debug_work_seconds", c.DebugWorkSeconds, 1},
		{"debug_short_break_seconds", c.DebugShortBreakSeconds, 1},
		{"debug_long_break_seconds", c.DebugLongBreakSeconds, 1},
	}
	for _, ch := range checks {
		if ch.val < ch.min {
			return fmt.Errorf("%w: %s must be >= %d, got %d",
				models.ErrInvalidInput, ch.name, ch.min, ch.val)
		}
	}
	return nil
}

// WorkDuration returns the planned work phase length.
func (c *Config) WorkDuration() time.Duration {
	if c.DebugMode {
		return time.Duration(c.DebugWorkSeconds) * time.Second
	}
	return time.Duration(c.WorkMinutes) * time.Minute
}

// ShortBreakDuration returns the planned short break length.
func (c *Config) ShortBreakDuration() time.Duration {
	if c.DebugMode {
		return time.Duration(c.DebugShortBreakSeconds) * time.Second
	}
	return time.Duration(c.ShortBreakMinutes) * time.Minute
}

// LongBreakDuration returns the planned long break length.
func (c *Config) LongBreakDuration() time.Duration {
	if c.DebugMode {
		return time.Duration(c.DebugLongBreakSeconds) * time.Second
	}
	return time.Duration(c.LongBreakMinutes) * time.Minute
}

// PhaseDuration maps a phase to its planned length.
func (c *Config) PhaseDuration(phase models.Phase) time.Duration {
	switch phase {
	case models.PhaseShortBreak:
		return c.ShortBreakDuration()
	case models.PhaseLongBreak:
		return c.LongBreakDuration()
	default:
		return c.WorkDuration()
	}
}
