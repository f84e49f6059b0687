package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/models"
)

// defaultAchievements is the built-in unlock catalog. Without these rows the
// evaluator has nothing to award, so they ship with the binary instead of
// relying on an out-of-band import.
func defaultAchievements() []models.Achievement {
	return []models.Achievement{
		{Key: "first_event", Title: "Первый шаг", Description: "Завершите первое мероприятие", Icon: "🌱", XPBonus: 20, ConditionType: models.ConditionEventsCompleted, ConditionValue: 1},
		{Key: "five_events", Title: "Активист", Description: "Завершите 5 мероприятий", Icon: "⭐", XPBonus: 50, ConditionType: models.ConditionEventsCompleted, ConditionValue: 5},
		{Key: "ten_events", Title: "Герой города", Description: "Завершите 10 мероприятий", Icon: "🏆", XPBonus: 100, ConditionType: models.ConditionEventsCompleted, ConditionValue: 10},
		{Key: "streak_3", Title: "3 дня подряд", Description: "Поддерживайте серию 3 дня", Icon: "🔥", XPBonus: 30, ConditionType: models.ConditionStreak, ConditionValue: 3},
		{Key: "streak_7", Title: "Неделя добра", Description: "Поддерживайте серию 7 дней", Icon: "💪", XPBonus: 70, ConditionType: models.ConditionStreak, ConditionValue: 7},
		{Key: "level_3", Title: "Подрастающий дух", Description: "Достигните 3 уровня", Icon: "🐣", XPBonus: 25, ConditionType: models.ConditionLevel, ConditionValue: 3},
		{Key: "level_6", Title: "Молодой дух", Description: "Достигните 6 уровня", Icon: "🐥", XPBonus: 50, ConditionType: models.ConditionLevel, ConditionValue: 6},
		{Key: "level_10", Title: "Дух города", Description: "Достигните 10 уровня", Icon: "🦅", XPBonus: 100, ConditionType: models.ConditionLevel, ConditionValue: 10},
		{Key: "eco_3", Title: "Эколог", Description: "Завершите 3 экологических мероприятия", Icon: "🌍", XPBonus: 40, ConditionType: models.ConditionCategoryPrefix + models.CategoryEcology, ConditionValue: 3},
		{Key: "animals_3", Title: "Друг животных", Description: "Завершите 3 мероприятия с животными", Icon: "🐾", XPBonus: 40, ConditionType: models.ConditionCategoryPrefix + models.CategoryAnimals, ConditionValue: 3},
		{Key: "education_3", Title: "Наставник", Description: "Завершите 3 образовательных мероприятия", Icon: "📚", XPBonus: 40, ConditionType: models.ConditionCategoryPrefix + models.CategoryEducation, ConditionValue: 3},
	}
}

// seedAchievements inserts missing catalog rows keyed by Key. Existing rows
// are never touched, so customized entries and earned unlock references
// survive restarts.
func seedAchievements(db *gorm.DB) {
	for _, a := range defaultAchievements() {
		a := a
		if err := db.FirstOrCreate(&a, models.Achievement{Key: a.Key}).Error; err != nil {
			log.Printf("achievement seed failed for %s: %v", a.Key, err)
		}
	}
}
