package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
)

var (
	achRarity   string
	achCategory string
	achUnlocked bool
	achLocked   bool
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show the achievement board",
	Long: `List achievements with unlock state and progress.

Examples:
  pomotrack achievements
  pomotrack achievements --unlocked
  pomotrack achievements --rarity legendary
  pomotrack achievements --category streak`,
	RunE: runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
	achievementsCmd.Flags().StringVar(&achRarity, "rarity", "", "Filter by rarity (common, rare, epic, legendary)")
	achievementsCmd.Flags().StringVar(&achCategory, "category", "", "Filter by category")
	achievementsCmd.Flags().BoolVar(&achUnlocked, "unlocked", false, "Only unlocked achievements")
	achievementsCmd.Flags().BoolVar(&achLocked, "locked", false, "Only locked achievements")
}

func runAchievements(cmd *cobra.Command, args []string) error {
	if achRarity != "" && !models.Rarity(achRarity).Valid() {
		return fmt.Errorf("unknown rarity %q", achRarity)
	}
	if achUnlocked && achLocked {
		return fmt.Errorf("--unlocked and --locked are mutually exclusive")
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	filter := db.AchievementFilter{
		Rarity:   models.Rarity(achRarity),
		Category: achCategory,
	}
	if achUnlocked {
		v := true
		filter.Unlocked = &v
	}
	if achLocked {
		v := false
		filter.Unlocked = &v
	}

	all, err := database.ListAchievements(filter)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println(dimStyle.Render("Nothing matches."))
		return nil
	}

	unlockedCount := 0
	for _, a := range all {
		if a.Unlocked {
			unlockedCount++
		}
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Achievements (%d/%d unlocked)", unlockedCount, len(all))))

	for _, a := range all {
		name := rarityStyle(a.Rarity).Render(a.Name)
		if a.Unlocked {
			date := ""
			if a.UnlockedDate != nil {
				date = dimStyle.Render("  " + humanize.Time(*a.UnlockedDate))
			}
			fmt.Printf("%s %s — %s%s\n", a.Icon, name, a.Description, date)
			continue
		}
		fmt.Printf("%s %s — %s %s\n",
			a.Icon, lockedStyle.Render(a.Name), lockedStyle.Render(a.Description),
			dimStyle.Render(fmt.Sprintf("(%d/%d, %d%%)", a.Progress, a.MaxProgress, a.Percent())))
	}
	return nil
}
