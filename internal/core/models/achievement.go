package models

import "time"

// Rarity is the achievement tier. It has no mechanical effect beyond
// display and filtering.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Achievement is a static definition plus its dynamic progress state.
//
// Once Unlocked is true it never flips back: progress stays pinned at
// MaxProgress and UnlockedDate is immutable.
type Achievement struct {
	ID           string
	Name         string
	Description  string
	Icon         string
	Category     string
	Rarity       Rarity
	Unlocked     bool
	UnlockedDate *time.Time
	Progress     int
	MaxProgress  int
}

// Percent returns unlock progress as 0-100.
func (a *Achievement) Percent() int {
	if a.MaxProgress <= 0 {
		return 0
	}
	if a.Unlocked || a.Progress >= a.MaxProgress {
		return 100
	}
	return a.Progress * 100 / a.MaxProgress
}
