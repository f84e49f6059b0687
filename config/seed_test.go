package config

import (
	"strings"
	"testing"

	"github.com/spiritcity/spirit-api/gamification"
	"github.com/spiritcity/spirit-api/models"
)

func TestDefaultAchievementCatalog(t *testing.T) {
	catalog := defaultAchievements()
	if len(catalog) != 11 {
		t.Fatalf("catalog has %d entries, want 11", len(catalog))
	}

	seen := map[string]bool{}
	for _, a := range catalog {
		if a.Key == "" || a.Title == "" || a.Description == "" {
			t.Errorf("entry %q has empty display fields", a.Key)
		}
		if seen[a.Key] {
			t.Errorf("duplicate catalog key %q", a.Key)
		}
		seen[a.Key] = true
		if a.ConditionValue <= 0 {
			t.Errorf("entry %q has condition_value %d", a.Key, a.ConditionValue)
		}
		if a.XPBonus <= 0 {
			t.Errorf("entry %q has xp_bonus %d", a.Key, a.XPBonus)
		}

		switch {
		case a.ConditionType == models.ConditionEventsCompleted,
			a.ConditionType == models.ConditionStreak,
			a.ConditionType == models.ConditionLevel:
		case strings.HasPrefix(a.ConditionType, models.ConditionCategoryPrefix):
			cat := strings.TrimPrefix(a.ConditionType, models.ConditionCategoryPrefix)
			if !models.ValidCategory(cat) {
				t.Errorf("entry %q targets unknown category %q", a.Key, cat)
			}
		default:
			t.Errorf("entry %q has unknown condition_type %q", a.Key, a.ConditionType)
		}
	}
}

func TestDefaultAchievementsAllUnlockable(t *testing.T) {
	// Every seeded rule must be reachable by the evaluator; an entry that can
	// never unlock is dead weight in the catalog.
	stats := gamification.UserStats{
		EventsCompleted: 100,
		StreakDays:      100,
		Level:           100,
		CategoryCounts: map[string]int{
			models.CategoryEcology:   100,
			models.CategorySocial:    100,
			models.CategoryAnimals:   100,
			models.CategoryEducation: 100,
		},
	}

	catalog := defaultAchievements()
	unlocked := gamification.EvaluateAchievements(catalog, nil, stats)
	if len(unlocked) != len(catalog) {
		t.Errorf("evaluator unlocked %d of %d catalog entries", len(unlocked), len(catalog))
	}
}
