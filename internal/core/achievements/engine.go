package achievements

import (
	"time"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

// Seed ensures every definition has a database row. New definitions get
// zero progress; existing rows are untouched.
func Seed(s *db.Store) error {
	return s.SeedAchievements(Definitions())
}

// Evaluate recomputes progress for every locked achievement and unlocks
// the ones whose rule has been satisfied. It returns the newly unlocked
// achievements, fully populated for notification. Runs in the same
// transaction as the session append so an unlock is never recorded
// without the session that earned it.
func Evaluate(s *db.Store, now time.Time, dailyGoal int) ([]models.Achievement, error) {
	rows, err := s.ListAchievements(db.AchievementFilter{})
	if err != nil {
		return nil, err
	}
	unlockedBefore := map[string]bool{}
	for _, row := range rows {
		if row.Unlocked {
			unlockedBefore[row.ID] = true
		}
	}

	ctx := newEvalContext(s, now, dailyGoal)
	var unlocked []models.Achievement

	for _, def := range definitions {
		if unlockedBefore[def.ID] {
			continue
		}

		progress, err := def.progress(ctx)
		if err != nil {
			return nil, err
		}
		if progress < 0 {
			progress = 0
		}

		update := def.Achievement
		update.Progress = progress
		if progress >= def.MaxProgress {
			update.Unlocked = true
			ts := now
			update.UnlockedDate = &ts
			update.Progress = def.MaxProgress
			unlocked = append(unlocked, update)
		}

		if err := s.UpsertAchievement(&update); err != nil {
			return nil, err
		}
	}
	return unlocked, nil
}
