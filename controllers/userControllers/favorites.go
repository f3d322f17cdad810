package userProfileController

import (
	"errors"
	"fmt"
	"log"

	"foodmap/database"
	"foodmap/middleware"
	"foodmap/models"
	"foodmap/services/search"
	userValidator "foodmap/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// getOrCreateProfile resolves the profile row for a user, creating it for
// accounts predating the signup-time profile creation.
func getOrCreateProfile(db *gorm.DB, userId uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := db.Where(models.UserProfile{UserID: userId}).FirstOrCreate(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetFavoritePlaces returns the caller's favorited place ids
func GetFavoritePlaces(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	profile, err := getOrCreateProfile(db, userId)
	if err != nil {
		log.Printf("Error loading profile for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch favorite places!", nil)
	}

	var favorites []models.Place
	if err := db.Model(profile).Association("FavoritePlaces").Find(&favorites); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch favorite places!", nil)
	}

	payload := make([]fiber.Map, 0, len(favorites))
	for _, place := range favorites {
		payload = append(payload, fiber.Map{"google_place_id": place.GooglePlaceID})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorite places fetched!", fiber.Map{
		"user_id":         userId,
		"favorite_places": payload,
	})
}

// AddFavoritePlace favorites a place for the caller. Favoriting the same
// place twice is rejected with a structured response, never a duplicate row.
func AddFavoritePlace(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedPlaceRef").(*userValidator.PlaceRefRequest)

	place, err := search.NewStore(database.Database.Db).AddFavorite(userId, reqData.GooglePlaceID)
	switch {
	case errors.Is(err, search.ErrAlreadyFavorited):
		msg := fmt.Sprintf("The place id '%s' has already been favorited by this user.", reqData.GooglePlaceID)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
	case err != nil:
		log.Printf("Error favoriting place %s for user %d: %v", reqData.GooglePlaceID, userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add favorite place!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorite place added!", fiber.Map{
		"user_id":        userId,
		"favorite_place": fiber.Map{"place_id": place.GooglePlaceID},
	})
}

// RemoveFavoritePlace unfavorites a place for the caller
func RemoveFavoritePlace(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedPlaceRef").(*userValidator.PlaceRefRequest)

	place, err := search.NewStore(database.Database.Db).RemoveFavorite(userId, reqData.GooglePlaceID)
	switch {
	case errors.Is(err, search.ErrNotFavorited):
		msg := fmt.Sprintf("The place id '%s' has not been favorited by this user.", reqData.GooglePlaceID)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
	case err != nil:
		log.Printf("Error unfavoriting place %s for user %d: %v", reqData.GooglePlaceID, userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove favorite place!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorite place removed!", fiber.Map{
		"user_id":                userId,
		"favorite_place_removed": fiber.Map{"place_id": place.GooglePlaceID},
	})
}
