package search

import (
	"encoding/json"
	"errors"
	"log"

	"foodmap/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyFavorited is returned when a user favorites the same place
	// a second time.
	ErrAlreadyFavorited = errors.New("place already favorited")
	// ErrNotFavorited is returned when removing a favorite the user never
	// added.
	ErrNotFavorited = errors.New("place not favorited")
)

// Store is the local place/review/favorite state the pipeline merges into
// provider results. The favorites endpoints share it.
type Store interface {
	// GetOrCreatePlace resolves the local row for a provider place id,
	// creating it when first referenced. Must be race-safe: concurrent
	// creation of the same id resolves to one row.
	GetOrCreatePlace(googlePlaceID string) (*models.Place, error)
	// CachePlaceDetail stores the provider detail payload for later inspection; best effort.
	CachePlaceDetail(place *models.Place, detail interface{})
	// ReviewsForPlace returns the locally stored reviews, newest first.
	ReviewsForPlace(placeID uint) ([]Review, error)
	// FavoritePlaceIDs returns the set of provider place ids the user has
	// favorited.
	FavoritePlaceIDs(userID uint) (map[string]bool, error)
	// AddFavorite links the place to the user's profile, creating the
	// place row if needed. A second add for the same pair returns
	// ErrAlreadyFavorited and leaves exactly one link row.
	AddFavorite(userID uint, googlePlaceID string) (*models.Place, error)
	// RemoveFavorite unlinks the place from the user's profile. A place
	// the user never favorited (or that does not exist) returns
	// ErrNotFavorited.
	RemoveFavorite(userID uint, googlePlaceID string) (*models.Place, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle in the pipeline's store contract.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// GetOrCreatePlace is a conflict-tolerant upsert: a concurrent insert of
// the same place id loses the race against the unique index and falls
// through to reading the winner's row.
func (s *gormStore) GetOrCreatePlace(googlePlaceID string) (*models.Place, error) {
	place := models.Place{GooglePlaceID: googlePlaceID}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "google_place_id"}},
		DoNothing: true,
	}).Create(&place).Error
	if err != nil {
		return nil, err
	}

	if place.ID == 0 {
		if err := s.db.Where("google_place_id = ?", googlePlaceID).First(&place).Error; err != nil {
			return nil, err
		}
	}
	return &place, nil
}

func (s *gormStore) CachePlaceDetail(place *models.Place, detail interface{}) {
	payload, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.db.Model(place).Update("last_detail", datatypes.JSON(payload)).Error; err != nil {
		log.Printf("Error caching detail for place %s: %v", place.GooglePlaceID, err)
	}
}

func (s *gormStore) ReviewsForPlace(placeID uint) ([]Review, error) {
	var stored []models.PlaceReview
	err := s.db.Where("place_id = ?", placeID).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Order("created_at DESC").
		Find(&stored).Error
	if err != nil {
		return nil, err
	}

	reviews := make([]Review, 0, len(stored))
	for _, review := range stored {
		reviews = append(reviews, Review{
			AuthorName: review.User.Name,
			Rating:     review.Rating,
			Text:       review.Text,
			Time:       review.CreatedAt.Unix(),
		})
	}
	return reviews, nil
}

func (s *gormStore) FavoritePlaceIDs(userID uint) (map[string]bool, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}

	var ids []string
	err = s.db.Table("places").
		Joins("JOIN user_favorite_places ufp ON ufp.place_id = places.id").
		Where("ufp.user_profile_id = ?", profile.ID).
		Pluck("places.google_place_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *gormStore) AddFavorite(userID uint, googlePlaceID string) (*models.Place, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}

	place, err := s.GetOrCreatePlace(googlePlaceID)
	if err != nil {
		return nil, err
	}

	favorited, err := s.isFavorited(profile.ID, place.ID)
	if err != nil {
		return nil, err
	}
	if favorited {
		return place, ErrAlreadyFavorited
	}

	if err := s.db.Model(profile).Association("FavoritePlaces").Append(place); err != nil {
		return nil, err
	}
	return place, nil
}

func (s *gormStore) RemoveFavorite(userID uint, googlePlaceID string) (*models.Place, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}

	var place models.Place
	if err := s.db.Where("google_place_id = ?", googlePlaceID).First(&place).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFavorited
		}
		return nil, err
	}

	favorited, err := s.isFavorited(profile.ID, place.ID)
	if err != nil {
		return nil, err
	}
	if !favorited {
		return &place, ErrNotFavorited
	}

	if err := s.db.Model(profile).Association("FavoritePlaces").Delete(&place); err != nil {
		return nil, err
	}
	return &place, nil
}

// profileFor resolves the profile row for a user, creating it for accounts
// predating the signup-time profile creation.
func (s *gormStore) profileFor(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *gormStore) isFavorited(profileID, placeID uint) (bool, error) {
	var count int64
	err := s.db.Table("user_favorite_places").
		Where("user_profile_id = ? AND place_id = ?", profileID, placeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
