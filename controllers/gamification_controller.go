package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/gamification"
	"github.com/spiritcity/spirit-api/models"
	"github.com/spiritcity/spirit-api/utils"
)

// GamificationController serves the leaderboard, achievements and profile
// statistics endpoints.
type GamificationController struct {
	db *gorm.DB
}

// NewGamificationController creates a new controller instance.
func NewGamificationController(db *gorm.DB) *GamificationController {
	return &GamificationController{db: db}
}

const leaderboardCacheKey = "cache:leaderboard:top"

// Leaderboard returns users ranked by pet level then remaining XP. The result
// is identical for everyone, so it is cached in Redis and invalidated on
// completion writes.
func (g *GamificationController) Leaderboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var rows []struct {
		Username       string
		Level          int
		XP             int
		PetName        string
		EvolutionStage int
	}
	err := g.db.Model(&models.Pet{}).
		Select("users.username, pets.level, pets.xp, pets.name AS pet_name, pets.evolution_stage").
		Joins("JOIN users ON users.id = pets.user_id").
		Order("pets.level DESC, pets.xp DESC").
		Limit(config.Get().LeaderboardSize).
		Scan(&rows).Error
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	entries := make([]gin.H, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, gin.H{
			"rank":                i + 1,
			"username":            r.Username,
			"level":               r.Level,
			"xp":                  r.XP,
			"pet_name":            r.PetName,
			"pet_evolution_stage": r.EvolutionStage,
		})
	}

	payload := gin.H{"leaderboard": entries}
	utils.CacheSetJSON(leaderboardCacheKey, payload, 5*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}

// Achievements returns the caller's earned and still-available achievements.
func (g *GamificationController) Achievements(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var all []models.Achievement
	if err := g.db.Find(&all).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to load achievements")
		return
	}

	var ids []string
	if err := g.db.Model(&models.UserAchievement{}).Where("user_id = ?", userID).Pluck("achievement_id", &ids).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to load achievements")
		return
	}
	earnedIDs := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		earnedIDs[id] = struct{}{}
	}

	earned := make([]gin.H, 0)
	available := make([]gin.H, 0)
	for i := range all {
		if _, ok := earnedIDs[all[i].ID]; ok {
			earned = append(earned, achievementPayload(&all[i]))
		} else {
			available = append(available, achievementPayload(&all[i]))
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"earned": earned, "available": available})
}

// ProfileStats returns the caller's aggregate progression counters.
func (g *GamificationController) ProfileStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var pet models.Pet
	petRef := &pet
	if err := g.db.Where("user_id = ?", userID).First(&pet).Error; err != nil {
		petRef = nil
	}

	var completed int64
	g.db.Model(&models.Participation{}).
		Where("user_id = ? AND status = ?", userID, models.ParticipationCompleted).
		Count(&completed)

	var rows []struct {
		Category string
		Cnt      int
	}
	g.db.Model(&models.Participation{}).
		Select("events.category AS category, COUNT(*) AS cnt").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.user_id = ? AND participations.status = ?", userID, models.ParticipationCompleted).
		Group("events.category").
		Scan(&rows)
	categoryCounts := make(map[string]int, len(rows))
	for _, r := range rows {
		categoryCounts[r.Category] = r.Cnt
	}

	level, streak := 1, 0
	if petRef != nil {
		level = pet.Level
		streak = pet.StreakDays
	}

	ctx.JSON(http.StatusOK, gin.H{
		"events_completed": completed,
		"total_xp":         gamification.TotalXP(petRef),
		"streak_days":      streak,
		"level":            level,
		"category_counts":  categoryCounts,
	})
}

var dayNamesRU = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// ProfileActivity returns a 7-day completion rollup plus this week's category
// breakdown.
func (g *GamificationController) ProfileActivity(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -6)

	var rows []struct {
		Day string
		Cnt int
		XP  int
	}
	err := g.db.Model(&models.Participation{}).
		Select("DATE_FORMAT(participations.completed_at, '%Y-%m-%d') AS day, COUNT(*) AS cnt, COALESCE(SUM(events.xp_reward),0) AS xp").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.user_id = ? AND participations.status = ? AND participations.completed_at >= ?",
			userID, models.ParticipationCompleted, weekStart).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to load activity")
		return
	}

	type dayInfo struct{ count, xp int }
	daily := make(map[string]dayInfo, len(rows))
	for _, r := range rows {
		daily[r.Day] = dayInfo{count: r.Cnt, xp: r.XP}
	}

	weekly := make([]gin.H, 0, 7)
	totalEvents, totalXP := 0, 0
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		info := daily[key]
		weekly = append(weekly, gin.H{
			"day":   dayNamesRU[(int(d.Weekday())+6)%7],
			"date":  key,
			"count": info.count,
			"xp":    info.xp,
		})
		totalEvents += info.count
		totalXP += info.xp
	}

	var catRows []struct {
		Category string
		Cnt      int
	}
	g.db.Model(&models.Participation{}).
		Select("events.category AS category, COUNT(*) AS cnt").
		Joins("JOIN events ON events.id = participations.event_id").
		Where("participations.user_id = ? AND participations.status = ? AND participations.completed_at >= ?",
			userID, models.ParticipationCompleted, weekStart).
		Group("events.category").
		Scan(&catRows)
	breakdown := make(map[string]int, len(catRows))
	for _, r := range catRows {
		breakdown[r.Category] = r.Cnt
	}

	ctx.JSON(http.StatusOK, gin.H{
		"weekly_activity":    weekly,
		"this_week_events":   totalEvents,
		"this_week_xp":       totalXP,
		"category_breakdown": breakdown,
	})
}
