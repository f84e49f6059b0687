package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/gamification"
	"github.com/spiritcity/spirit-api/models"
	"github.com/spiritcity/spirit-api/utils"
)

// EventController handles event listing, creation and the participation
// lifecycle (join, complete, QR-verified complete).
type EventController struct {
	db *gorm.DB
}

// NewEventController creates a new controller instance.
func NewEventController(db *gorm.DB) *EventController {
	return &EventController{db: db}
}

var activeStatuses = []string{models.ParticipationJoined, models.ParticipationCompleted}

// eventForUpdate reads the event row with a FOR UPDATE lock. Capacity checks
// run under this lock so two concurrent joins on the same event serialize
// instead of both passing the count.
func eventForUpdate(tx *gorm.DB, eventID string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Model(&models.Event{}).Where("id = ?", eventID)
}

func (e *EventController) participantsCount(db *gorm.DB, eventID string) int64 {
	var count int64
	db.Model(&models.Participation{}).
		Where("event_id = ? AND status IN ?", eventID, activeStatuses).
		Count(&count)
	return count
}

func eventPayload(ev *models.Event, participants int64) gin.H {
	return gin.H{
		"id":                 ev.ID,
		"title":              ev.Title,
		"description":        ev.Description,
		"category":           ev.Category,
		"latitude":           ev.Latitude,
		"longitude":          ev.Longitude,
		"address":            ev.Address,
		"start_time":         ev.StartTime,
		"end_time":           ev.EndTime,
		"xp_reward":          ev.XPReward,
		"max_participants":   ev.MaxParticipants,
		"image_url":          ev.ImageURL,
		"creator_id":         ev.CreatorID,
		"participants_count": participants,
	}
}

func participationPayload(p *models.Participation) gin.H {
	return gin.H{
		"id":           p.ID,
		"user_id":      p.UserID,
		"event_id":     p.EventID,
		"status":       p.Status,
		"joined_at":    p.JoinedAt,
		"completed_at": p.CompletedAt,
	}
}

// ListEvents returns all events ordered by start time, optionally filtered by category.
func (e *EventController) ListEvents(ctx *gin.Context) {
	query := e.db.Order("start_time")
	if category := ctx.Query("category"); category != "" {
		if !models.ValidCategory(category) {
			writeDetail(ctx, http.StatusBadRequest, "unknown category")
			return
		}
		query = query.Where("category = ?", category)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to list events")
		return
	}

	payload := make([]gin.H, 0, len(events))
	for i := range events {
		payload = append(payload, eventPayload(&events[i], e.participantsCount(e.db, events[i].ID)))
	}

	ctx.JSON(http.StatusOK, gin.H{"events": payload, "count": len(payload)})
}

// PopularEvent returns the still-open event with the most participants.
func (e *EventController) PopularEvent(ctx *gin.Context) {
	var ev models.Event
	err := e.db.Model(&models.Event{}).
		Joins("LEFT JOIN participations p ON p.event_id = events.id AND p.status IN ?", activeStatuses).
		Where("events.end_time IS NULL OR events.end_time > ?", time.Now()).
		Group("events.id").
		Order("COUNT(p.id) DESC, events.start_time ASC").
		First(&ev).Error
	if err != nil {
		writeDetail(ctx, http.StatusNotFound, "Event not found")
		return
	}

	ctx.JSON(http.StatusOK, eventPayload(&ev, e.participantsCount(e.db, ev.ID)))
}

// GetEvent returns event detail plus the caller's participation flags.
func (e *EventController) GetEvent(ctx *gin.Context) {
	userID, _ := getUserID(ctx)

	var ev models.Event
	if err := e.db.First(&ev, "id = ?", ctx.Param("id")).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Event not found")
		return
	}

	payload := eventPayload(&ev, e.participantsCount(e.db, ev.ID))

	var p models.Participation
	err := e.db.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&p).Error
	payload["is_joined"] = err == nil
	payload["is_completed"] = err == nil && p.Status == models.ParticipationCompleted

	ctx.JSON(http.StatusOK, payload)
}

// CreateEvent registers a new event owned by the caller. The QR secret is
// issued here and never changes for the event lifetime.
func (e *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	type request struct {
		Title           string     `json:"title" binding:"required,max=255"`
		Description     string     `json:"description" binding:"required"`
		Category        string     `json:"category" binding:"required"`
		Latitude        float64    `json:"latitude" binding:"required"`
		Longitude       float64    `json:"longitude" binding:"required"`
		Address         string     `json:"address" binding:"required,max=255"`
		StartTime       time.Time  `json:"start_time" binding:"required"`
		EndTime         *time.Time `json:"end_time"`
		XPReward        int        `json:"xp_reward"`
		MaxParticipants *int       `json:"max_participants"`
		ImageURL        string     `json:"image_url"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !models.ValidCategory(req.Category) {
		writeDetail(ctx, http.StatusBadRequest, "unknown category")
		return
	}
	if req.XPReward <= 0 {
		req.XPReward = 50
	}
	if req.MaxParticipants != nil && *req.MaxParticipants <= 0 {
		writeDetail(ctx, http.StatusBadRequest, "max_participants must be positive")
		return
	}

	ev := models.Event{
		Title:           utils.SanitizeText(req.Title),
		Description:     utils.SanitizeText(req.Description),
		Category:        req.Category,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         utils.SanitizeText(req.Address),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		XPReward:        req.XPReward,
		MaxParticipants: req.MaxParticipants,
		ImageURL:        req.ImageURL,
		CreatorID:       userID,
	}
	if err := e.db.Create(&ev).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to create event")
		return
	}

	utils.Sugar.Infow("event created", "event_id", ev.ID, "creator_id", userID, "category", ev.Category)
	ctx.JSON(http.StatusCreated, eventPayload(&ev, 0))
}

// JoinEvent moves the caller to Joined. Joining twice is a no-op that returns
// the existing participation unchanged.
func (e *EventController) JoinEvent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var ev models.Event
	if err := e.db.First(&ev, "id = ?", ctx.Param("id")).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Event not found")
		return
	}

	var participation models.Participation
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Event
		if err := eventForUpdate(tx, ev.ID).First(&locked).Error; err != nil {
			return err
		}

		var existing *models.Participation
		var p models.Participation
		if err := tx.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&p).Error; err == nil {
			existing = &p
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		count := e.participantsCount(tx, ev.ID)
		already, err := gamification.CheckJoin(&locked, existing, count, time.Now())
		if err != nil {
			return err
		}
		if already {
			participation = *existing
			return nil
		}

		participation = models.Participation{
			UserID:  userID,
			EventID: ev.ID,
			Status:  models.ParticipationJoined,
		}
		if err := tx.Create(&participation).Error; err != nil {
			// A concurrent duplicate join loses the insert race on the
			// (user_id, event_id) unique index; answer it idempotently.
			if isDuplicateKey(err) {
				return tx.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&participation).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !domainError(ctx, err) {
			writeDetail(ctx, http.StatusInternalServerError, "failed to join event")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"participation": participationPayload(&participation)})
}

// CompleteEvent is the direct completion path.
func (e *EventController) CompleteEvent(ctx *gin.Context) {
	e.completeWithGates(ctx, nil)
}

// GetEventQR returns the issued code for an event. Creator only: the code is
// what gets printed and shown on site.
func (e *EventController) GetEventQR(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var ev models.Event
	if err := e.db.First(&ev, "id = ?", ctx.Param("id")).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Event not found")
		return
	}
	if ev.CreatorID != userID {
		writeDetail(ctx, http.StatusForbidden, "Only the event creator can view the QR code")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"qr_code":  ev.QRSecret,
		"event_id": ev.ID,
		"title":    ev.Title,
	})
}

// VerifyQR is the QR-gated completion path. The scanned code must match the
// issued secret; when the client reports coordinates, the server additionally
// enforces the proximity radius.
func (e *EventController) VerifyQR(ctx *gin.Context) {
	type request struct {
		QRCode    string   `json:"qr_code" binding:"required"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	e.completeWithGates(ctx, func(ev *models.Event) error {
		if err := gamification.CheckQR(ev, req.QRCode); err != nil {
			return err
		}
		if req.Latitude != nil && req.Longitude != nil {
			radius := config.Get().ProximityRadiusMeters
			return gamification.CheckProximity(ev, *req.Latitude, *req.Longitude, radius)
		}
		return nil
	})
}

// completeWithGates drives the Joined->Completed transition. gates runs after
// the AlreadyCompleted check so a rescan of an already redeemed code gets the
// precise error, and before the transaction since gates never mutate state.
// The status flip is a conditional update: of two concurrent requests exactly
// one row wins, the loser re-reads and reports AlreadyCompleted.
func (e *EventController) completeWithGates(ctx *gin.Context, gates func(*models.Event) error) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var ev models.Event
	if err := e.db.First(&ev, "id = ?", ctx.Param("id")).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Event not found")
		return
	}

	var existing *models.Participation
	var pr models.Participation
	if err := e.db.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&pr).Error; err == nil {
		existing = &pr
	}
	if err := gamification.CheckComplete(existing); err != nil {
		domainError(ctx, err)
		return
	}
	if gates != nil {
		if err := gates(&ev); err != nil {
			domainError(ctx, err)
			return
		}
	}

	cfg := config.Get()
	policy := gamification.StreakPolicy{BonusPerDay: cfg.StreakBonusPerDay, BonusMax: cfg.StreakBonusMax}
	now := time.Now()

	var pet models.Pet
	var reward gamification.CompletionReward
	var participation models.Participation

	err := e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Participation{}).
			Where("event_id = ? AND user_id = ? AND status = ?", ev.ID, userID, models.ParticipationJoined).
			Updates(map[string]interface{}{"status": models.ParticipationCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race or state changed underneath: report precisely.
			var p models.Participation
			if err := tx.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&p).Error; err != nil {
				return gamification.ErrNotJoined
			}
			if p.Status == models.ParticipationCompleted {
				return gamification.ErrAlreadyCompleted
			}
			return gamification.ErrNotJoined
		}

		if err := tx.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&participation).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&pet).Error; err != nil {
			return err
		}

		stats, err := e.completedStats(tx, userID)
		if err != nil {
			return err
		}

		var all []models.Achievement
		if err := tx.Find(&all).Error; err != nil {
			return err
		}
		earnedIDs, err := e.earnedAchievementIDs(tx, userID)
		if err != nil {
			return err
		}

		reward = gamification.ResolveCompletion(&pet, &ev, stats, all, earnedIDs, now, policy)

		for _, a := range reward.NewAchievements {
			ua := models.UserAchievement{UserID: userID, AchievementID: a.ID}
			if err := tx.Create(&ua).Error; err != nil {
				return err
			}
		}

		return tx.Save(&pet).Error
	})
	if err != nil {
		if !domainError(ctx, err) {
			utils.Sugar.Errorw("event completion failed", "event_id", ev.ID, "user_id", userID, "err", err)
			writeDetail(ctx, http.StatusInternalServerError, "failed to complete event")
		}
		return
	}

	// Leaderboard and impact aggregates changed.
	utils.InvalidateByPrefix("cache:leaderboard")
	utils.InvalidateByPrefix("cache:impact")

	utils.Sugar.Infow("event completed",
		"event_id", ev.ID, "user_id", userID,
		"xp_earned", reward.XPEarned, "streak_bonus", reward.StreakBonus,
		"new_achievements", len(reward.NewAchievements))

	achievements := make([]gin.H, 0, len(reward.NewAchievements))
	for i := range reward.NewAchievements {
		achievements = append(achievements, achievementPayload(&reward.NewAchievements[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"participation":    participationPayload(&participation),
		"xp_earned":        reward.XPEarned,
		"streak_bonus":     reward.StreakBonus,
		"pet":              petPayload(&pet),
		"new_achievements": achievements,
	})
}

// completedStats gathers the cumulative counters achievement conditions need.
// Runs inside the completion transaction so the just-flipped row is counted.
func (e *EventController) completedStats(tx *gorm.DB, userID string) (gamification.UserStats, error) {
	stats := gamification.UserStats{CategoryCounts: map[string]int{}}

	var completed int64
	err := tx.Model(&models.Participation{}).
		Where("user_id = ? AND status = ?", userID, models.ParticipationCompleted).
		Count(&completed).Error
	if err != nil {
		return stats, err
	}
	stats.EventsCompleted = int(completed)

	var rows []struct {
		Category string
		Cnt      int
	}
	err = tx.Model(&models.Participation{}).
		Select("events.category AS category, COUNT(*) AS cnt").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.user_id = ? AND participations.status = ?", userID, models.ParticipationCompleted).
		Group("events.category").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.CategoryCounts[r.Category] = r.Cnt
	}
	return stats, nil
}

func (e *EventController) earnedAchievementIDs(tx *gorm.DB, userID string) (map[string]struct{}, error) {
	var ids []string
	err := tx.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	earned := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		earned[id] = struct{}{}
	}
	return earned, nil
}
