package db

import (
	"database/sql"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// AchievementFilter narrows ListAchievements. Zero value lists all.
type AchievementFilter struct {
	Rarity   models.Rarity
	Category string
	Unlocked *bool
}

// SeedAchievements inserts definitions that are not present yet. Existing
// rows keep their progress and unlock state, so seeding is safe on every
// startup.
func (s *Store) SeedAchievements(defs []models.Achievement) error {
	for _, a := range defs {
		_, err := s.q.Exec(`
			INSERT INTO achievements
			(id, name, description, icon, category, rarity, unlocked, progress, max_progress)
			VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)
			ON CONFLICT(id) DO NOTHING
		`, a.ID, a.Name, a.Description, a.Icon, a.Category, string(a.Rarity), a.MaxProgress)
		if err != nil {
			return models.NewStorageError("seed achievement "+a.ID, err)
		}
	}
	return nil
}

// GetAchievement returns one achievement by id, or nil if unknown.
func (s *Store) GetAchievement(id string) (*models.Achievement, error) {
	row := s.q.QueryRow(`
		SELECT id, name, description, icon, category, rarity,
		       unlocked, unlocked_date, progress, max_progress
		FROM achievements WHERE id = ?
	`, id)

	a, err := scanAchievement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("get achievement", err)
	}
	return a, nil
}

// ListAchievements returns achievements matching the filter, unlocked
// first, then by rarity and id.
func (s *Store) ListAchievements(f AchievementFilter) ([]models.Achievement, error) {
	query := `
		SELECT id, name, description, icon, category, rarity,
		       unlocked, unlocked_date, progress, max_progress
		FROM achievements WHERE 1=1`
	args := []interface{}{}

	if f.Rarity != "" {
		query += " AND rarity = ?"
		args = append(args, string(f.Rarity))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Unlocked != nil {
		query += " AND unlocked = ?"
		args = append(args, *f.Unlocked)
	}

	query += `
		ORDER BY unlocked DESC,
		CASE rarity
			WHEN 'common' THEN 0 WHEN 'rare' THEN 1
			WHEN 'epic' THEN 2 ELSE 3
		END, id`

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, models.NewStorageError("list achievements", err)
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows.Scan)
		if err != nil {
			return nil, models.NewStorageError("scan achievement", err)
		}
		out = append(out, *a)
	}
	return out, models.NewStorageError("iterate achievements", rows.Err())
}

// UpsertAchievement writes back progress and unlock state. Unlock fields
// are monotonic: a row that is already unlocked keeps its original date
// and pinned progress no matter what the caller passes.
func (s *Store) UpsertAchievement(a *models.Achievement) error {
	var unlockedDate interface{}
	if a.UnlockedDate != nil {
		unlockedDate = a.UnlockedDate.Format(timeFormat)
	}

	_, err := s.q.Exec(`
		UPDATE achievements SET
			progress = CASE WHEN unlocked = 1 THEN max_progress ELSE MAX(progress, ?) END,
			unlocked = MAX(unlocked, ?),
			unlocked_date = COALESCE(unlocked_date, ?)
		WHERE id = ?
	`, a.Progress, a.Unlocked, unlockedDate, a.ID)
	return models.NewStorageError("upsert achievement", err)
}

func scanAchievement(scan func(...interface{}) error) (*models.Achievement, error) {
	var (
		a        models.Achievement
		rarity   string
		unlocked sql.NullString
	)
	err := scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Category, &rarity,
		&a.Unlocked, &unlocked, &a.Progress, &a.MaxProgress)
	if err != nil {
		return nil, err
	}
	a.Rarity = models.Rarity(rarity)
	if unlocked.Valid {
		t, err := time.Parse(timeFormat, unlocked.String)
		if err != nil {
			return nil, err
		}
		a.UnlockedDate = &t
	}
	return &a, nil
}
