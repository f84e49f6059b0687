package main

import (
	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/models"
	"github.com/spiritcity/spirit-api/routes"
	"github.com/spiritcity/spirit-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Pet{},
		&models.Event{},
		&models.Participation{},
		&models.Achievement{},
		&models.UserAchievement{},
	)

	r := routes.SetupRouter(db)

	// Periodic pet mood decay sweep (best-effort)
	utils.StartBackgroundJobs(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
