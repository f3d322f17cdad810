package utils

import (
	"log"

	"foodmap/database"
	"foodmap/models"

	"github.com/robfig/cron/v3"
)

// InitializePlaceScheduler sets up the orphaned-place cleanup scheduler.
// Searches get-or-create Place rows eagerly; rows that never picked up a
// review or favorite are removed again so the table only holds places some
// user actually cares about.
func InitializePlaceScheduler() {
	log.Println("[PLACE-SCHEDULER] Initializing place cleanup scheduler...")

	c := cron.New()

	// Run daily at 04:30 to prune orphaned places
	c.AddFunc("30 4 * * *", func() {
		log.Println("[PLACE-SCHEDULER] Running daily orphaned place cleanup...")
		PruneOrphanedPlaces()
	})

	c.Start()
	log.Println("[PLACE-SCHEDULER] Place cleanup scheduler started - runs daily at 04:30")
}

// PruneOrphanedPlaces deletes Place rows with no reviews and no favorite
// links. Place rows are hard-deleted, so a later search can lazily
// re-create the row without tripping the unique place id index.
func PruneOrphanedPlaces() {
	db := database.Database.Db

	reviewedPlaceIDs := db.Model(&models.PlaceReview{}).Select("place_id")
	favoritedPlaceIDs := db.Table("user_favorite_places").Select("place_id")

	result := db.
		Where("id NOT IN (?)", reviewedPlaceIDs).
		Where("id NOT IN (?)", favoritedPlaceIDs).
		Delete(&models.Place{})
	if result.Error != nil {
		log.Printf("[PLACE-SCHEDULER] Error pruning orphaned places: %v", result.Error)
		return
	}

	log.Printf("[PLACE-SCHEDULER] Pruned %d orphaned place(s)", result.RowsAffected)
}
