package search

import (
	"testing"

	"foodmap/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one in-memory database per test

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Place{},
		&models.PlaceReview{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{Name: "Eva", Email: "eva@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func favoriteLinkCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Table("user_favorite_places").Count(&count).Error)
	return count
}

func TestAddFavoriteDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	store := NewStore(db)

	place, err := store.AddFavorite(user.ID, "place-a")
	require.NoError(t, err)
	assert.Equal(t, "place-a", place.GooglePlaceID)

	// A second add must leave exactly one link row behind.
	_, err = store.AddFavorite(user.ID, "place-a")
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.EqualValues(t, 1, favoriteLinkCount(t, db))

	favorites, err := store.FavoritePlaceIDs(user.ID)
	require.NoError(t, err)
	assert.True(t, favorites["place-a"])
}

func TestRemoveFavorite(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	store := NewStore(db)

	_, err := store.RemoveFavorite(user.ID, "place-a")
	assert.ErrorIs(t, err, ErrNotFavorited)

	_, err = store.AddFavorite(user.ID, "place-a")
	require.NoError(t, err)

	place, err := store.RemoveFavorite(user.ID, "place-a")
	require.NoError(t, err)
	assert.Equal(t, "place-a", place.GooglePlaceID)
	assert.EqualValues(t, 0, favoriteLinkCount(t, db))

	// Removing again reports not-favorited, not an error.
	_, err = store.RemoveFavorite(user.ID, "place-a")
	assert.ErrorIs(t, err, ErrNotFavorited)
}

func TestGetOrCreatePlaceIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	first, err := store.GetOrCreatePlace("place-a")
	require.NoError(t, err)
	second, err := store.GetOrCreatePlace("place-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Place{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreatePlaceAfterPrune(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	place, err := store.GetOrCreatePlace("place-a")
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Place{}, place.ID).Error)

	// A pruned row must be re-creatable under the same provider id.
	again, err := store.GetOrCreatePlace("place-a")
	require.NoError(t, err)
	assert.NotZero(t, again.ID)
	assert.Equal(t, "place-a", again.GooglePlaceID)
}
