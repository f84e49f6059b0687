package gamification

import (
	"testing"

	"github.com/spiritcity/spirit-api/models"
)

func TestEvaluateAchievementsConditions(t *testing.T) {
	all := []models.Achievement{
		{ID: "a1", Key: "first_event", ConditionType: models.ConditionEventsCompleted, ConditionValue: 1},
		{ID: "a2", Key: "ten_events", ConditionType: models.ConditionEventsCompleted, ConditionValue: 10},
		{ID: "a3", Key: "week_streak", ConditionType: models.ConditionStreak, ConditionValue: 7},
		{ID: "a4", Key: "level_5", ConditionType: models.ConditionLevel, ConditionValue: 5},
		{ID: "a5", Key: "eco_hero", ConditionType: "category_ecology", ConditionValue: 3},
	}
	stats := UserStats{
		EventsCompleted: 4,
		StreakDays:      7,
		Level:           2,
		CategoryCounts:  map[string]int{"ecology": 3, "social": 1},
	}

	unlocked := EvaluateAchievements(all, nil, stats)

	got := map[string]bool{}
	for _, a := range unlocked {
		got[a.ID] = true
	}
	want := []string{"a1", "a3", "a5"}
	if len(unlocked) != len(want) {
		t.Fatalf("unlocked %d achievements %v, want %v", len(unlocked), got, want)
	}
	for _, id := range want {
		if !got[id] {
			t.Errorf("achievement %s not unlocked", id)
		}
	}
}

func TestEvaluateAchievementsSkipsEarned(t *testing.T) {
	all := []models.Achievement{
		{ID: "a1", Key: "first_event", ConditionType: models.ConditionEventsCompleted, ConditionValue: 1},
	}
	earned := map[string]struct{}{"a1": {}}

	unlocked := EvaluateAchievements(all, earned, UserStats{EventsCompleted: 5})
	if len(unlocked) != 0 {
		t.Errorf("earned achievement unlocked again: %v", unlocked)
	}
}

func TestEvaluateAchievementsUnknownCondition(t *testing.T) {
	all := []models.Achievement{
		{ID: "a1", Key: "mystery", ConditionType: "moon_phase", ConditionValue: 1},
	}

	unlocked := EvaluateAchievements(all, nil, UserStats{EventsCompleted: 100, StreakDays: 100, Level: 100})
	if len(unlocked) != 0 {
		t.Errorf("unknown condition type unlocked: %v", unlocked)
	}
}

func TestEvaluateAchievementsCategoryMissingFromCounts(t *testing.T) {
	all := []models.Achievement{
		{ID: "a1", Key: "animal_friend", ConditionType: "category_animals", ConditionValue: 1},
	}

	unlocked := EvaluateAchievements(all, nil, UserStats{CategoryCounts: map[string]int{"ecology": 2}})
	if len(unlocked) != 0 {
		t.Errorf("category with zero completions unlocked: %v", unlocked)
	}
}
