package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement condition types. category_* conditions carry the category name
// after the prefix, e.g. "category_ecology".
const (
	ConditionEventsCompleted = "events_completed"
	ConditionStreak          = "streak"
	ConditionLevel           = "level"
	ConditionCategoryPrefix  = "category_"
)

// Achievement is an unlockable rule evaluated against cumulative user stats.
type Achievement struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	Key            string `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"size:255;not null" json:"description"`
	Icon           string `gorm:"size:16" json:"icon"`
	XPBonus        int    `gorm:"default:0" json:"xp_bonus"`
	ConditionType  string `gorm:"size:64;not null" json:"-"`
	ConditionValue int    `gorm:"not null" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UserAchievement records a single unlock. The unique index enforces the
// awarded-at-most-once guarantee at the storage layer.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:uidx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"size:36;not null;uniqueIndex:uidx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// BeforeCreate assigns a UUID primary key and the unlock timestamp.
func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == "" {
		ua.ID = uuid.NewString()
	}
	if ua.EarnedAt.IsZero() {
		ua.EarnedAt = time.Now()
	}
	return nil
}
