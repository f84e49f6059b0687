package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participation states. Completion is terminal; rows are never deleted so
// activity and leaderboard aggregation keep full history.
const (
	ParticipationJoined    = "joined"
	ParticipationCompleted = "completed"
)

// Participation links one user to one event. The unique index on
// (user_id, event_id) is what makes the joined->completed transition safe to
// guard with a conditional update.
type Participation struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;not null;uniqueIndex:uidx_user_event" json:"user_id"`
	EventID     string     `gorm:"size:36;not null;uniqueIndex:uidx_user_event" json:"event_id"`
	Status      string     `gorm:"size:16;index;default:joined" json:"status"`
	JoinedAt    time.Time  `json:"joined_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// BeforeCreate assigns a UUID primary key and the join timestamp.
func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}
