package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Place is the local record for a provider place. A row is created lazily
// the first time a place is referenced; the unique index on GooglePlaceID
// is the only guard against concurrent creation. No soft delete: a pruned
// row must be re-creatable under the same provider id without tripping
// the unique index.
type Place struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"-"`
	UpdatedAt     time.Time      `json:"-"`
	GooglePlaceID string         `gorm:"size:100;uniqueIndex;not null" json:"google_place_id"`
	LastDetail    datatypes.JSON `gorm:"type:jsonb" json:"-"` // last provider detail payload seen during enrichment
}

// UserProfile holds per-user state beyond the auth record, chiefly the
// favorited places. The join table's composite key keeps a (user, place)
// pair unique.
type UserProfile struct {
	gorm.Model
	UserID         uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User    `json:"-"`
	FavoritePlaces []Place `gorm:"many2many:user_favorite_places" json:"favorite_places"`
}
