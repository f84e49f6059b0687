package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pet mood values, derived from how recently the pet was fed (i.e. how recently
// its owner completed an event).
const (
	MoodHappy    = "happy"
	MoodNeutral  = "neutral"
	MoodSad      = "sad"
	MoodSleeping = "sleeping"
)

// Pet is the per-user progression avatar. Created once at registration,
// mutated by every event completion, never deleted while the account exists.
type Pet struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         string     `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Name           string     `gorm:"size:64;default:Buddy" json:"name"`
	Mood           string     `gorm:"size:16;default:neutral" json:"mood"`
	Level          int        `gorm:"default:1" json:"level"`
	XP             int        `gorm:"default:0" json:"xp"`
	XPToNextLevel  int        `gorm:"default:100" json:"xp_to_next_level"`
	EvolutionStage int        `gorm:"default:1" json:"evolution_stage"`
	StreakDays     int        `gorm:"default:0" json:"streak_days"`
	StreakLastDate string     `gorm:"size:10" json:"-"` // YYYY-MM-DD of last streak-counted completion
	LastFedAt      *time.Time `json:"last_fed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
