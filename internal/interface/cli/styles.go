package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	breakTimerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("78"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	rarityStyles = map[models.Rarity]lipgloss.Style{
		models.RarityCommon:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.RarityRare:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.RarityEpic:      lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		models.RarityLegendary: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func rarityStyle(r models.Rarity) lipgloss.Style {
	if s, ok := rarityStyles[r]; ok {
		return s
	}
	return dimStyle
}
