package userProfileRoutes

import (
	userProfileController "foodmap/controllers/userControllers"
	"foodmap/middleware"
	userValidator "foodmap/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users/api")

	// The auth gate runs before validation so an unauthenticated call
	// always gets the forbidden response, whatever its body looks like.

	// Favorite place management
	userGroup.Get("/get_favorite_places", middleware.JWTMiddleware, userProfileController.GetFavoritePlaces)
	userGroup.Post("/add_favorite_place", middleware.JWTMiddleware, userValidator.PlaceRef(), userProfileController.AddFavoritePlace)
	userGroup.Put("/remove_favorite_place", middleware.JWTMiddleware, userValidator.PlaceRef(), userProfileController.RemoveFavoritePlace)

	// Review management
	userGroup.Get("/get_reviews", middleware.JWTMiddleware, userProfileController.GetReviews)
	userGroup.Post("/add_review", middleware.JWTMiddleware, userValidator.AddReview(), userProfileController.AddReview)
}
