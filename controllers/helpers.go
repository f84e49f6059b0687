package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/gamification"
	"github.com/spiritcity/spirit-api/middleware"
	"github.com/spiritcity/spirit-api/models"
)

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (string, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// domainError maps gamification errors to the HTTP status and detail copy the
// client keys its UX messages on.
func domainError(ctx *gin.Context, err error) bool {
	switch {
	case errors.Is(err, gamification.ErrEventFull):
		writeDetail(ctx, http.StatusBadRequest, "Event is full")
	case errors.Is(err, gamification.ErrEventEnded):
		writeDetail(ctx, http.StatusBadRequest, "Event already ended")
	case errors.Is(err, gamification.ErrNotJoined):
		writeDetail(ctx, http.StatusBadRequest, "Not joined")
	case errors.Is(err, gamification.ErrAlreadyCompleted):
		writeDetail(ctx, http.StatusConflict, "Already completed")
	case errors.Is(err, gamification.ErrInvalidQRCode):
		writeDetail(ctx, http.StatusBadRequest, "Invalid QR code")
	case errors.Is(err, gamification.ErrTooFarFromEvent):
		writeDetail(ctx, http.StatusBadRequest, "Too far from event location")
	default:
		return false
	}
	return true
}

func writeDetail(ctx *gin.Context, status int, detail string) {
	ctx.JSON(status, gin.H{"detail": detail})
}

// isDuplicateKey reports whether err is a unique index violation (MySQL 1062).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// userPayload is the public user shape returned by auth endpoints.
func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
	}
}

// petPayload serializes a pet snapshot for API responses.
func petPayload(p *models.Pet) gin.H {
	if p == nil {
		return nil
	}
	return gin.H{
		"id":               p.ID,
		"name":             p.Name,
		"mood":             p.Mood,
		"level":            p.Level,
		"xp":               p.XP,
		"xp_to_next_level": p.XPToNextLevel,
		"evolution_stage":  p.EvolutionStage,
		"streak_days":      p.StreakDays,
		"last_fed_at":      p.LastFedAt,
	}
}

// achievementPayload serializes an achievement rule for API responses.
func achievementPayload(a *models.Achievement) gin.H {
	return gin.H{
		"id":          a.ID,
		"key":         a.Key,
		"title":       a.Title,
		"description": a.Description,
		"icon":        a.Icon,
		"xp_bonus":    a.XPBonus,
	}
}

// refreshMood recomputes the pet's derived mood and persists it when changed.
func refreshMood(db *gorm.DB, pet *models.Pet) {
	mood := gamification.Mood(pet.LastFedAt, time.Now())
	if pet.Mood != mood {
		pet.Mood = mood
		db.Model(pet).Update("mood", mood)
	}
}
