package db

import (
	"database/sql"
	"strconv"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// SetUserStat writes one cache counter.
func (s *Store) SetUserStat(key, value string) error {
	_, err := s.q.Exec(`
		INSERT INTO user_stats (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	return models.NewStorageError("set user stat", err)
}

// GetUserStat returns the raw value for key; found is false if unset.
func (s *Store) GetUserStat(key string) (value string, found bool, err error) {
	err = s.q.QueryRow(`SELECT value FROM user_stats WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, models.NewStorageError("get user stat", err)
	}
	return value, true, nil
}

// GetUserStatInt returns a counter as an int, 0 if unset.
func (s *Store) GetUserStatInt(key string) (int, error) {
	raw, found, err := s.GetUserStat(key)
	if err != nil || !found {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewStorageError("parse user stat "+key, err)
	}
	return n, nil
}

// GetUserStatFloat returns a counter as a float64, 0 if unset.
func (s *Store) GetUserStatFloat(key string) (float64, error) {
	raw, found, err := s.GetUserStat(key)
	if err != nil || !found {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, models.NewStorageError("parse user stat "+key, err)
	}
	return f, nil
}
