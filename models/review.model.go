package models

import (
	"math"

	"gorm.io/gorm"
)

// PlaceReview is a user's review of a place. Reviews are immutable once
// created; they go away only when the owning place or user is deleted.
type PlaceReview struct {
	gorm.Model
	PlaceID uint    `gorm:"not null" json:"-"`
	Place   Place   `gorm:"constraint:OnDelete:CASCADE" json:"place"`
	UserID  uint    `gorm:"not null" json:"-"`
	User    User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rating  float64 `gorm:"not null" json:"rating"`
	Text    string  `gorm:"size:300" json:"text"`
}

// IsValidRating reports whether r is between 1 and 5 with only half steps
// allowed (1.0, 1.5, ... 5.0).
func IsValidRating(r float64) bool {
	return r >= 1 && r <= 5 && math.Mod(r*2, 1) == 0
}
