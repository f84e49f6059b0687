package utils

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/models"
)

// StartBackgroundJobs launches the periodic maintenance scheduler. It is
// best-effort: pets are the only rows touched and every mood is also derived
// on read, so a missed run only delays the displayed decay.
func StartBackgroundJobs(db *gorm.DB) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		Sugar.Warnf("scheduler init failed: %v", err)
		return
	}

	// Hourly mood decay sweep so leaderboard and profile reads that bypass
	// the per-pet recompute still show fresh moods.
	_, err = sched.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			now := time.Now()
			sweeps := []struct {
				mood  string
				since time.Duration
				until time.Duration
			}{
				{models.MoodNeutral, 12 * time.Hour, 24 * time.Hour},
				{models.MoodSad, 24 * time.Hour, 48 * time.Hour},
			}
			for _, s := range sweeps {
				err := db.Model(&models.Pet{}).
					Where("last_fed_at <= ? AND last_fed_at > ? AND mood <> ?", now.Add(-s.since), now.Add(-s.until), s.mood).
					Update("mood", s.mood).Error
				if err != nil {
					Sugar.Warnf("mood sweep (%s) failed: %v", s.mood, err)
				}
			}
			err := db.Model(&models.Pet{}).
				Where("last_fed_at <= ? AND mood <> ?", now.Add(-48*time.Hour), models.MoodSleeping).
				Update("mood", models.MoodSleeping).Error
			if err != nil {
				Sugar.Warnf("mood sweep (sleeping) failed: %v", err)
			}
		}),
	)
	if err != nil {
		Sugar.Warnf("scheduler job registration failed: %v", err)
		return
	}

	sched.Start()
}
