package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event categories.
const (
	CategoryEcology   = "ecology"
	CategorySocial    = "social"
	CategoryAnimals   = "animals"
	CategoryEducation = "education"
)

// ValidCategory reports whether c is one of the known event categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryEcology, CategorySocial, CategoryAnimals, CategoryEducation:
		return true
	}
	return false
}

// Event is a volunteering event. QRSecret is issued at creation and immutable
// for the event lifetime; it never leaves the server except through the
// creator-only QR endpoint.
type Event struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Category        string     `gorm:"size:32;index;not null" json:"category"`
	Latitude        float64    `gorm:"not null" json:"latitude"`
	Longitude       float64    `gorm:"not null" json:"longitude"`
	Address         string     `gorm:"size:255;not null" json:"address"`
	StartTime       time.Time  `gorm:"index;not null" json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	XPReward        int        `gorm:"default:50" json:"xp_reward"`
	MaxParticipants *int       `json:"max_participants"`
	ImageURL        string     `gorm:"size:512" json:"image_url"`
	CreatorID       string     `gorm:"size:36;index" json:"creator_id"`
	QRSecret        string     `gorm:"size:64;not null" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`

	Participations []Participation `json:"-"`
}

// BeforeCreate assigns a UUID primary key and issues the QR secret.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.QRSecret == "" {
		e.QRSecret = uuid.NewString()
	}
	return nil
}

// Ended reports whether the event's time window is closed at the given moment.
func (e *Event) Ended(now time.Time) bool {
	return e.EndTime != nil && now.After(*e.EndTime)
}
