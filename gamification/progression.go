package gamification

import (
	"time"

	"github.com/spiritcity/spirit-api/models"
)

// EvolutionLevels maps pet level to the evolution stage reached at that level:
// 1=egg, 3=baby, 6=teen, 10=adult.
var EvolutionLevels = map[int]int{1: 1, 3: 2, 6: 3, 10: 4}

// StreakPolicy configures the consecutive-day completion bonus.
type StreakPolicy struct {
	BonusPerDay int
	BonusMax    int
}

const dateLayout = "2006-01-02"

// xpToNextLevel is the XP needed to clear the given level.
func xpToNextLevel(level int) int {
	return level * 100
}

// UpdateStreak advances the pet's consecutive-day counter for a completion at
// the given moment and returns the streak bonus XP. A second completion on the
// same calendar day keeps the streak and earns no extra bonus; a completion on
// the day after the last one extends the streak and earns the per-day bonus;
// anything else resets the streak to 1 with no bonus.
func UpdateStreak(pet *models.Pet, now time.Time, pol StreakPolicy) int {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	if pet.StreakLastDate == today {
		return 0
	}

	if pet.StreakLastDate == yesterday {
		pet.StreakDays++
		pet.StreakLastDate = today
		bonus := pet.StreakDays * pol.BonusPerDay
		if bonus > pol.BonusMax {
			bonus = pol.BonusMax
		}
		return bonus
	}

	pet.StreakDays = 1
	pet.StreakLastDate = today
	return 0
}

// AddXP feeds the pet. XP rolls over into level-ups until the remainder is
// below the next-level requirement; evolution stage follows the level
// thresholds. Feeding always leaves the pet happy.
func AddXP(pet *models.Pet, amount int, now time.Time) {
	pet.XP += amount
	fedAt := now
	pet.LastFedAt = &fedAt

	for pet.XP >= pet.XPToNextLevel {
		pet.XP -= pet.XPToNextLevel
		pet.Level++
		pet.XPToNextLevel = xpToNextLevel(pet.Level)

		if stage, ok := EvolutionLevels[pet.Level]; ok {
			pet.EvolutionStage = stage
		}
	}

	pet.Mood = models.MoodHappy
}

// Mood derives the display mood from the time since the pet was last fed:
// under 12h happy, under 24h neutral, under 48h sad, then sleeping.
func Mood(lastFedAt *time.Time, now time.Time) string {
	if lastFedAt == nil {
		return models.MoodNeutral
	}
	switch hours := now.Sub(*lastFedAt).Hours(); {
	case hours < 12:
		return models.MoodHappy
	case hours < 24:
		return models.MoodNeutral
	case hours < 48:
		return models.MoodSad
	default:
		return models.MoodSleeping
	}
}

// TotalXP reconstructs lifetime XP from the pet's level and current remainder.
// Each level n costs n*100 XP, so levels 1..L-1 sum to (L-1)*L*50.
func TotalXP(pet *models.Pet) int {
	if pet == nil {
		return 0
	}
	return (pet.Level-1)*pet.Level*50 + pet.XP
}

// CompletionReward is what a successful completion returns to the client.
// XPEarned includes the event reward, the streak bonus and any achievement
// bonuses; the pet snapshot reflects all of them.
type CompletionReward struct {
	XPEarned        int
	StreakBonus     int
	NewAchievements []models.Achievement
}

// ResolveCompletion applies the full reward pipeline for one completed event:
// streak update, event XP, achievement evaluation against post-completion
// stats, then achievement bonus XP. The pet is mutated in place; the caller
// persists it in the same transaction that flips the participation status.
// stats must already count the completion being resolved.
func ResolveCompletion(
	pet *models.Pet,
	event *models.Event,
	stats UserStats,
	all []models.Achievement,
	earnedIDs map[string]struct{},
	now time.Time,
	pol StreakPolicy,
) CompletionReward {
	streakBonus := UpdateStreak(pet, now, pol)
	total := event.XPReward + streakBonus
	AddXP(pet, total, now)

	stats.StreakDays = pet.StreakDays
	stats.Level = pet.Level
	newAchievements := EvaluateAchievements(all, earnedIDs, stats)

	achievementXP := 0
	for _, a := range newAchievements {
		achievementXP += a.XPBonus
	}
	if achievementXP > 0 {
		AddXP(pet, achievementXP, now)
	}

	return CompletionReward{
		XPEarned:        total + achievementXP,
		StreakBonus:     streakBonus,
		NewAchievements: newAchievements,
	}
}
