package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/models"
	"github.com/spiritcity/spirit-api/utils"
)

// ImpactController serves community-wide totals for the impact screen.
type ImpactController struct {
	db *gorm.DB
}

// NewImpactController creates a new controller instance.
func NewImpactController(db *gorm.DB) *ImpactController {
	return &ImpactController{db: db}
}

const impactCacheKey = "cache:impact:summary"

// GetImpact aggregates community totals: unique volunteers, completions,
// lifetime XP across all pets, category breakdown and the latest completions.
func (c *ImpactController) GetImpact(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(impactCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var totalVolunteers int64
	c.db.Model(&models.Participation{}).
		Where("status = ?", models.ParticipationCompleted).
		Distinct("user_id").
		Count(&totalVolunteers)

	var totalCompleted int64
	c.db.Model(&models.Participation{}).
		Where("status = ?", models.ParticipationCompleted).
		Count(&totalCompleted)

	// Lifetime XP per pet is (level-1)*level*50 plus the current remainder.
	var totalXP int64
	c.db.Model(&models.Pet{}).
		Select("COALESCE(SUM((level-1)*level*50 + xp), 0)").
		Scan(&totalXP)

	var catRows []struct {
		Category string
		Cnt      int
	}
	c.db.Model(&models.Participation{}).
		Select("events.category AS category, COUNT(*) AS cnt").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.status = ?", models.ParticipationCompleted).
		Group("events.category").
		Scan(&catRows)
	breakdown := make(map[string]int, len(catRows))
	for _, r := range catRows {
		breakdown[r.Category] = r.Cnt
	}

	var recentRows []struct {
		Username    string
		EventTitle  string
		Category    string
		CompletedAt *time.Time
	}
	c.db.Model(&models.Participation{}).
		Select("users.username, events.title AS event_title, events.category, participations.completed_at").
		Joins("JOIN users ON users.id = participations.user_id").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.status = ?", models.ParticipationCompleted).
		Order("participations.completed_at DESC").
		Limit(config.Get().RecentCompletions).
		Scan(&recentRows)

	recent := make([]gin.H, 0, len(recentRows))
	for _, r := range recentRows {
		recent = append(recent, gin.H{
			"username":     r.Username,
			"event_title":  r.EventTitle,
			"category":     r.Category,
			"completed_at": r.CompletedAt,
		})
	}

	payload := gin.H{
		"total_volunteers":       totalVolunteers,
		"total_events_completed": totalCompleted,
		"total_xp_earned":        totalXP,
		"category_breakdown":     breakdown,
		"recent_completions":     recent,
	}
	utils.CacheSetJSON(impactCacheKey, payload, 5*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}
