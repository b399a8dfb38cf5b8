package achievements

import "github.com/pomotrack/pomotrack/internal/core/models"

// Definition couples the static achievement row with its progress rule.
type Definition struct {
	models.Achievement
	progress progressFunc
}

// definitions is the closed set of achievements. IDs are stable: they key
// the database rows, so renaming one orphans its unlock state.
var definitions = []Definition{
	{
		Achievement: models.Achievement{
			ID: "first_pomodoro", Name: "First Steps",
			Description: "Complete your first pomodoro",
			Icon:        "🍅", Category: "milestone",
			Rarity: models.RarityCommon, MaxProgress: 1,
		},
		progress: countCompleted,
	},
	{
		Achievement: models.Achievement{
			ID: "ten_pomodoros", Name: "Getting Started",
			Description: "Complete 10 pomodoros",
			Icon:        "🔟", Category: "milestone",
			Rarity: models.RarityCommon, MaxProgress: 10,
		},
		progress: countCompleted,
	},
	{
		Achievement: models.Achievement{
			ID: "hundred_pomodoros", Name: "Century Club",
			Description: "Complete 100 pomodoros",
			Icon:        "💯", Category: "milestone",
			Rarity: models.RarityRare, MaxProgress: 100,
		},
		progress: countCompleted,
	},
	{
		Achievement: models.Achievement{
			ID: "thousand_pomodoros", Name: "Pomodoro Veteran",
			Description: "Complete 1000 pomodoros",
			Icon:        "🏆", Category: "milestone",
			Rarity: models.RarityEpic, MaxProgress: 1000,
		},
		progress: countCompleted,
	},
	{
		Achievement: models.Achievement{
			ID: "three_day_streak", Name: "Momentum",
			Description: "Work 3 days in a row",
			Icon:        "🔥", Category: "streak",
			Rarity: models.RarityCommon, MaxProgress: 3,
		},
		progress: maxStreak,
	},
	{
		Achievement: models.Achievement{
			ID: "week_streak", Name: "Week Warrior",
			Description: "Work 7 days in a row",
			Icon:        "📅", Category: "streak",
			Rarity: models.RarityRare, MaxProgress: 7,
		},
		progress: maxStreak,
	},
	{
		Achievement: models.Achievement{
			ID: "month_streak", Name: "Habit Formed",
			Description: "Work 30 days in a row",
			Icon:        "🗓️", Category: "streak",
			Rarity: models.RarityEpic, MaxProgress: 30,
		},
		progress: maxStreak,
	},
	{
		Achievement: models.Achievement{
			ID: "year_streak", Name: "Unstoppable",
			Description: "Work 365 days in a row",
			Icon:        "👑", Category: "streak",
			Rarity: models.RarityLegendary, MaxProgress: 365,
		},
		progress: maxStreak,
	},
	{
		Achievement: models.Achievement{
			ID: "daily_goal", Name: "Goal Getter",
			Description: "Reach your daily pomodoro goal",
			Icon:        "🎯", Category: "daily",
			Rarity: models.RarityCommon, MaxProgress: 1,
		},
		progress: daysAtGoal,
	},
	{
		Achievement: models.Achievement{
			ID: "perfect_day", Name: "Perfect Day",
			Description: "Complete 8 pomodoros in a single day",
			Icon:        "⭐", Category: "daily",
			Rarity: models.RarityCommon, MaxProgress: 8,
		},
		progress: maxDailyCount,
	},
	{
		Achievement: models.Achievement{
			ID: "early_bird", Name: "Early Bird",
			Description: "Start a pomodoro before 6 AM",
			Icon:        "🌅", Category: "time",
			Rarity: models.RarityCommon, MaxProgress: 1,
		},
		progress: earlyStarts,
	},
	{
		Achievement: models.Achievement{
			ID: "night_owl", Name: "Night Owl",
			Description: "Finish a pomodoro at 10 PM or later",
			Icon:        "🦉", Category: "time",
			Rarity: models.RarityCommon, MaxProgress: 1,
		},
		progress: lateFinishes,
	},
	{
		Achievement: models.Achievement{
			ID: "perfect_focus", Name: "Perfect Focus",
			Description: "Complete a pomodoro with zero interruptions",
			Icon:        "💎", Category: "focus",
			Rarity: models.RarityCommon, MaxProgress: 1,
		},
		progress: interruptionFree,
	},
	{
		Achievement: models.Achievement{
			ID: "focus_master", Name: "Focus Master",
			Description: "Complete 5 uninterrupted pomodoros in a row",
			Icon:        "🧘", Category: "focus",
			Rarity: models.RarityRare, MaxProgress: 5,
		},
		progress: interruptionFreeRun,
	},
	{
		Achievement: models.Achievement{
			ID: "deep_work", Name: "Deep Work",
			Description: "Complete 10 pomodoros on a single task",
			Icon:        "🌊", Category: "focus",
			Rarity: models.RarityRare, MaxProgress: 10,
		},
		progress: maxTaskCount,
	},
	{
		Achievement: models.Achievement{
			ID: "weekend_warrior", Name: "Weekend Warrior",
			Description: "Complete 10 pomodoros on weekends",
			Icon:        "⚔️", Category: "dedication",
			Rarity: models.RarityCommon, MaxProgress: 10,
		},
		progress: weekendCount,
	},
	{
		Achievement: models.Achievement{
			ID: "task_crusher", Name: "Task Crusher",
			Description: "Complete 10 different tasks in one day",
			Icon:        "💥", Category: "task",
			Rarity: models.RarityRare, MaxProgress: 10,
		},
		progress: distinctTasksInDay,
	},
	{
		Achievement: models.Achievement{
			ID: "marathon", Name: "Marathon",
			Description: "Accumulate 100 hours of focused work",
			Icon:        "🏃", Category: "dedication",
			Rarity: models.RarityEpic, MaxProgress: 6000,
		},
		progress: totalMinutes,
	},
	{
		Achievement: models.Achievement{
			ID: "time_traveler", Name: "Time Traveler",
			Description: "Accumulate 1000 hours of focused work",
			Icon:        "⏰", Category: "dedication",
			Rarity: models.RarityLegendary, MaxProgress: 60000,
		},
		progress: totalMinutes,
	},
	{
		Achievement: models.Achievement{
			ID: "task_master", Name: "Task Master",
			Description: "Complete 1000 different tasks",
			Icon:        "📋", Category: "task",
			Rarity: models.RarityLegendary, MaxProgress: 1000,
		},
		progress: distinctTasks,
	},
}

// Definitions returns the static achievement rows for seeding.
func Definitions() []models.Achievement {
	out := make([]models.Achievement, len(definitions))
	for i, d := range definitions {
		out[i] = d.Achievement
	}
	return out
}
