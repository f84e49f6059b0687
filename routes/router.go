package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/controllers"
	"github.com/spiritcity/spirit-api/middleware"
	"github.com/spiritcity/spirit-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	eventController := controllers.NewEventController(db)
	petController := controllers.NewPetController(db)
	gamificationController := controllers.NewGamificationController(db)
	impactController := controllers.NewImpactController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	events := protected.Group("/events")
	events.GET("", eventController.ListEvents)
	events.GET("/popular", eventController.PopularEvent)
	events.GET("/:id", eventController.GetEvent)
	events.POST("", middleware.RateLimitMiddleware(), eventController.CreateEvent)
	events.POST("/:id/join", middleware.RateLimitMiddleware(), eventController.JoinEvent)
	events.POST("/:id/complete", middleware.RateLimitMiddleware(), eventController.CompleteEvent)
	events.GET("/:id/qr", eventController.GetEventQR)
	events.POST("/:id/verify-qr", middleware.RateLimitMiddleware(), eventController.VerifyQR)

	protected.GET("/leaderboard", gamificationController.Leaderboard)
	protected.GET("/achievements", gamificationController.Achievements)
	protected.GET("/profile/stats", gamificationController.ProfileStats)
	protected.GET("/profile/activity", gamificationController.ProfileActivity)
	protected.GET("/impact", impactController.GetImpact)
	protected.GET("/pet", petController.GetPet)
	protected.PUT("/pet", petController.UpdatePet)

	r.NoRoute(func(ctx *gin.Context) {
		utils.ErrorDetail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
