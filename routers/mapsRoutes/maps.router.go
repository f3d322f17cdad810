package mapsRoutes

import (
	mapsController "foodmap/controllers/mapsControllers"
	"foodmap/middleware"
	mapsValidator "foodmap/validators/mapsValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupMapsRoutes(app *fiber.App) {
	mapsGroup := app.Group("/maps/api")

	mapsGroup.Get("/get_location", mapsController.GetLocation)
	// Auth gate before validation: unauthenticated calls get the forbidden
	// response, whatever the body looks like.
	mapsGroup.Post("/search_for_restaurants", middleware.JWTMiddleware, mapsValidator.Search(), mapsController.SearchForRestaurants)
}
