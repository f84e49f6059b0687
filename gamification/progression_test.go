package gamification

import (
	"testing"
	"time"

	"github.com/spiritcity/spirit-api/models"
)

func newPet() *models.Pet {
	return &models.Pet{
		Level:          1,
		XP:             0,
		XPToNextLevel:  100,
		EvolutionStage: 1,
		Mood:           models.MoodNeutral,
	}
}

var testPolicy = StreakPolicy{BonusPerDay: 5, BonusMax: 50}

func TestAddXPNoLevelUp(t *testing.T) {
	pet := newPet()
	now := time.Now()

	AddXP(pet, 60, now)

	if pet.Level != 1 || pet.XP != 60 || pet.XPToNextLevel != 100 {
		t.Errorf("got level=%d xp=%d next=%d, want 1/60/100", pet.Level, pet.XP, pet.XPToNextLevel)
	}
	if pet.Mood != models.MoodHappy {
		t.Errorf("mood = %q, want happy", pet.Mood)
	}
	if pet.LastFedAt == nil || !pet.LastFedAt.Equal(now) {
		t.Errorf("LastFedAt not set to feeding time")
	}
}

func TestAddXPLevelUpRollsOverRemainder(t *testing.T) {
	pet := newPet()
	pet.XP = 80

	AddXP(pet, 50, time.Now())

	if pet.Level != 2 {
		t.Fatalf("level = %d, want 2", pet.Level)
	}
	if pet.XP != 30 {
		t.Errorf("xp = %d, want 30 carried over", pet.XP)
	}
	if pet.XPToNextLevel != 200 {
		t.Errorf("xp_to_next_level = %d, want 200", pet.XPToNextLevel)
	}
}

func TestAddXPMultiLevelJump(t *testing.T) {
	pet := newPet()

	// 100 + 200 = 300 clears levels 1 and 2; 50 remains at level 3.
	AddXP(pet, 350, time.Now())

	if pet.Level != 3 || pet.XP != 50 || pet.XPToNextLevel != 300 {
		t.Errorf("got level=%d xp=%d next=%d, want 3/50/300", pet.Level, pet.XP, pet.XPToNextLevel)
	}
	if pet.EvolutionStage != 2 {
		t.Errorf("evolution_stage = %d, want 2 at level 3", pet.EvolutionStage)
	}
}

func TestAddXPEvolutionStages(t *testing.T) {
	cases := []struct {
		level     int
		wantStage int
	}{
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 3},
		{9, 3},
		{10, 4},
	}
	for _, c := range cases {
		pet := newPet()
		pet.Level = c.level - 1
		pet.XPToNextLevel = xpToNextLevel(c.level - 1)
		pet.XP = pet.XPToNextLevel - 1
		if stage, ok := EvolutionLevels[c.level-1]; ok {
			pet.EvolutionStage = stage
		} else {
			// stage carried from the last threshold below this level
			for lvl := c.level - 1; lvl >= 1; lvl-- {
				if stage, ok := EvolutionLevels[lvl]; ok {
					pet.EvolutionStage = stage
					break
				}
			}
		}

		AddXP(pet, 1, time.Now())

		if pet.Level != c.level {
			t.Errorf("level = %d, want %d", pet.Level, c.level)
		}
		if pet.EvolutionStage != c.wantStage {
			t.Errorf("level %d: evolution_stage = %d, want %d", c.level, pet.EvolutionStage, c.wantStage)
		}
	}
}

func TestUpdateStreakFirstCompletion(t *testing.T) {
	pet := newPet()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	bonus := UpdateStreak(pet, now, testPolicy)

	if bonus != 0 {
		t.Errorf("bonus = %d, want 0 on a fresh streak", bonus)
	}
	if pet.StreakDays != 1 {
		t.Errorf("streak_days = %d, want 1", pet.StreakDays)
	}
	if pet.StreakLastDate != "2026-03-10" {
		t.Errorf("streak_last_date = %q, want 2026-03-10", pet.StreakLastDate)
	}
}

func TestUpdateStreakSameDayNoChange(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 4
	pet.StreakLastDate = "2026-03-10"
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	bonus := UpdateStreak(pet, now, testPolicy)

	if bonus != 0 {
		t.Errorf("bonus = %d, want 0 for a second same-day completion", bonus)
	}
	if pet.StreakDays != 4 {
		t.Errorf("streak_days = %d, want unchanged 4", pet.StreakDays)
	}
}

func TestUpdateStreakNextDayExtends(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 2
	pet.StreakLastDate = "2026-03-09"
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	bonus := UpdateStreak(pet, now, testPolicy)

	if pet.StreakDays != 3 {
		t.Errorf("streak_days = %d, want 3", pet.StreakDays)
	}
	if bonus != 15 {
		t.Errorf("bonus = %d, want 3*5=15", bonus)
	}
	if pet.StreakLastDate != "2026-03-10" {
		t.Errorf("streak_last_date = %q, want 2026-03-10", pet.StreakLastDate)
	}
}

func TestUpdateStreakBonusCapped(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 14
	pet.StreakLastDate = "2026-03-09"
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	bonus := UpdateStreak(pet, now, testPolicy)

	if pet.StreakDays != 15 {
		t.Errorf("streak_days = %d, want 15", pet.StreakDays)
	}
	if bonus != 50 {
		t.Errorf("bonus = %d, want cap 50 (15*5=75 uncapped)", bonus)
	}
}

func TestUpdateStreakBrokenResets(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 7
	pet.StreakLastDate = "2026-03-05"
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	bonus := UpdateStreak(pet, now, testPolicy)

	if bonus != 0 {
		t.Errorf("bonus = %d, want 0 after a gap", bonus)
	}
	if pet.StreakDays != 1 {
		t.Errorf("streak_days = %d, want reset to 1", pet.StreakDays)
	}
	if pet.StreakLastDate != "2026-03-10" {
		t.Errorf("streak_last_date = %q, want 2026-03-10", pet.StreakLastDate)
	}
}

func TestMoodDecay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		hoursAgo float64
		want     string
	}{
		{1, models.MoodHappy},
		{11.9, models.MoodHappy},
		{12, models.MoodNeutral},
		{23, models.MoodNeutral},
		{24, models.MoodSad},
		{47, models.MoodSad},
		{48, models.MoodSleeping},
		{200, models.MoodSleeping},
	}
	for _, c := range cases {
		fed := now.Add(-time.Duration(c.hoursAgo * float64(time.Hour)))
		if got := Mood(&fed, now); got != c.want {
			t.Errorf("fed %.1fh ago: mood = %q, want %q", c.hoursAgo, got, c.want)
		}
	}
	if got := Mood(nil, now); got != models.MoodNeutral {
		t.Errorf("never fed: mood = %q, want neutral", got)
	}
}

func TestTotalXP(t *testing.T) {
	cases := []struct {
		level, xp, want int
	}{
		{1, 0, 0},
		{1, 80, 80},
		{2, 30, 130},
		{5, 80, 1080},
	}
	for _, c := range cases {
		pet := &models.Pet{Level: c.level, XP: c.xp}
		if got := TotalXP(pet); got != c.want {
			t.Errorf("TotalXP(level=%d, xp=%d) = %d, want %d", c.level, c.xp, got, c.want)
		}
	}
	if got := TotalXP(nil); got != 0 {
		t.Errorf("TotalXP(nil) = %d, want 0", got)
	}
}

func TestResolveCompletionBrokenStreakAwardsNoBonus(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 3
	pet.StreakLastDate = "2026-03-05"
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := &models.Event{XPReward: 50}

	reward := ResolveCompletion(pet, event, UserStats{EventsCompleted: 4}, nil, nil, now, testPolicy)

	if reward.XPEarned != 50 {
		t.Errorf("xp_earned = %d, want 50", reward.XPEarned)
	}
	if reward.StreakBonus != 0 {
		t.Errorf("streak_bonus = %d, want 0 after a gap", reward.StreakBonus)
	}
	if pet.StreakDays != 1 {
		t.Errorf("streak_days = %d, want reset to 1", pet.StreakDays)
	}
	if pet.XP != 50 {
		t.Errorf("pet xp = %d, want 50", pet.XP)
	}
	if len(reward.NewAchievements) != 0 {
		t.Errorf("unexpected achievements: %v", reward.NewAchievements)
	}
}

func TestResolveCompletionStreakBonusIncluded(t *testing.T) {
	pet := newPet()
	pet.StreakDays = 1
	pet.StreakLastDate = "2026-03-09"
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := &models.Event{XPReward: 50}

	reward := ResolveCompletion(pet, event, UserStats{EventsCompleted: 2}, nil, nil, now, testPolicy)

	if reward.StreakBonus != 10 {
		t.Errorf("streak_bonus = %d, want 2*5=10", reward.StreakBonus)
	}
	if reward.XPEarned != 60 {
		t.Errorf("xp_earned = %d, want 50+10", reward.XPEarned)
	}
	if pet.XP != 60 {
		t.Errorf("pet xp = %d, want 60", pet.XP)
	}
}

func TestResolveCompletionAchievementUnlockedOnce(t *testing.T) {
	first := models.Achievement{
		ID:             "ach-first",
		Key:            "first_event",
		ConditionType:  models.ConditionEventsCompleted,
		ConditionValue: 1,
		XPBonus:        20,
	}
	all := []models.Achievement{first}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := &models.Event{XPReward: 50}

	pet := newPet()
	reward := ResolveCompletion(pet, event, UserStats{EventsCompleted: 1}, all, map[string]struct{}{}, now, testPolicy)

	if len(reward.NewAchievements) != 1 || reward.NewAchievements[0].ID != "ach-first" {
		t.Fatalf("new achievements = %v, want the first-event unlock", reward.NewAchievements)
	}
	if reward.XPEarned != 70 {
		t.Errorf("xp_earned = %d, want 50+20", reward.XPEarned)
	}
	if pet.XP != 70 {
		t.Errorf("pet xp = %d, want 70", pet.XP)
	}

	// Second completion the same day: already earned, never awarded again.
	earned := map[string]struct{}{"ach-first": {}}
	reward = ResolveCompletion(pet, event, UserStats{EventsCompleted: 2}, all, earned, now, testPolicy)

	if len(reward.NewAchievements) != 0 {
		t.Errorf("achievement awarded twice: %v", reward.NewAchievements)
	}
	if reward.XPEarned != 50 {
		t.Errorf("xp_earned = %d, want 50 with no bonuses", reward.XPEarned)
	}
}

func TestResolveCompletionLevelConditionSeesPostRewardLevel(t *testing.T) {
	levelAch := models.Achievement{
		ID:             "ach-level2",
		Key:            "level_2",
		ConditionType:  models.ConditionLevel,
		ConditionValue: 2,
		XPBonus:        0,
	}
	pet := newPet()
	pet.XP = 80
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := &models.Event{XPReward: 50}

	reward := ResolveCompletion(pet, event, UserStats{EventsCompleted: 3}, []models.Achievement{levelAch}, nil, now, testPolicy)

	if pet.Level != 2 {
		t.Fatalf("level = %d, want 2 after the reward", pet.Level)
	}
	if len(reward.NewAchievements) != 1 {
		t.Errorf("level achievement not unlocked against post-reward level")
	}
}
