package userProfileController

import (
	"log"

	"foodmap/database"
	"foodmap/middleware"
	"foodmap/models"
	"foodmap/services/search"
	userValidator "foodmap/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// GetReviews returns all reviews written by the caller
func GetReviews(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	var reviews []models.PlaceReview
	if err := db.Where("user_id = ?", userId).
		Preload("Place").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	payload := make([]fiber.Map, 0, len(reviews))
	for _, review := range reviews {
		payload = append(payload, fiber.Map{
			"google_place_id": review.Place.GooglePlaceID,
			"rating":          review.Rating,
			"text":            review.Text,
			"timestamp":       review.CreatedAt,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"user_id": userId,
		"reviews": payload,
	})
}

// AddReview stores a new review from the caller. Reviews are immutable;
// there is no update path.
func AddReview(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedReview").(*userValidator.AddReviewRequest)

	db := database.Database.Db

	place, err := search.NewStore(db).GetOrCreatePlace(reqData.GooglePlaceID)
	if err != nil {
		log.Printf("Error resolving place %s: %v", reqData.GooglePlaceID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve place!", nil)
	}

	review := models.PlaceReview{
		PlaceID: place.ID,
		UserID:  userId,
		Rating:  reqData.Rating,
		Text:    reqData.Text,
	}

	if err := db.Create(&review).Error; err != nil {
		log.Printf("Error saving review for place %s: %v", reqData.GooglePlaceID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", fiber.Map{
		"user_id": userId,
		"review": fiber.Map{
			"google_place_id": place.GooglePlaceID,
			"rating":          review.Rating,
			"text":            review.Text,
			"timestamp":       review.CreatedAt,
		},
	})
}
