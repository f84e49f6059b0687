package gamification

import (
	"strings"

	"github.com/spiritcity/spirit-api/models"
)

// UserStats are the cumulative counters achievement conditions are evaluated
// against.
type UserStats struct {
	EventsCompleted int
	StreakDays      int
	Level           int
	CategoryCounts  map[string]int
}

// EvaluateAchievements returns the achievements whose condition newly holds
// for the given stats. Achievements already in earnedIDs are skipped, which is
// what makes every unlock a once-ever award.
func EvaluateAchievements(all []models.Achievement, earnedIDs map[string]struct{}, stats UserStats) []models.Achievement {
	var unlocked []models.Achievement
	for _, a := range all {
		if _, ok := earnedIDs[a.ID]; ok {
			continue
		}
		if conditionMet(a, stats) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func conditionMet(a models.Achievement, stats UserStats) bool {
	switch {
	case a.ConditionType == models.ConditionEventsCompleted:
		return stats.EventsCompleted >= a.ConditionValue
	case a.ConditionType == models.ConditionStreak:
		return stats.StreakDays >= a.ConditionValue
	case a.ConditionType == models.ConditionLevel:
		return stats.Level >= a.ConditionValue
	case strings.HasPrefix(a.ConditionType, models.ConditionCategoryPrefix):
		cat := strings.TrimPrefix(a.ConditionType, models.ConditionCategoryPrefix)
		return stats.CategoryCounts[cat] >= a.ConditionValue
	}
	return false
}
