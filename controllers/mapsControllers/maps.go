package mapsController

import (
	"errors"
	"log"
	"time"

	"foodmap/database"
	"foodmap/middleware"
	"foodmap/services/cuisine"
	"foodmap/services/places"
	"foodmap/services/search"

	"github.com/gofiber/fiber/v2"
)

// SearchForRestaurants runs the search and enrichment pipeline for the
// caller. The response body is the bare result array the frontend iterates.
func SearchForRestaurants(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedSearch").(*search.Request)

	var classifier search.Classifier
	if cuisine.Model != nil {
		classifier = cuisine.Model
	}

	pipeline := search.New(places.Client, classifier, search.NewStore(database.Database.Db))

	results, err := pipeline.Search(c.UserContext(), userId, reqData)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidSearchMode):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown search mode!", nil)
		case errors.Is(err, places.ErrProviderRateLimited):
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "The places provider is rate limiting requests, try again shortly.", nil)
		default:
			log.Printf("Restaurant search failed: %v", err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "The places provider is currently unavailable.", nil)
		}
	}

	return c.Status(fiber.StatusOK).JSON(results)
}

// GetLocation estimates the caller's position and local hour.
func GetLocation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	point, err := places.Client.Geolocate(ctx)
	if err != nil {
		log.Printf("Geolocation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "The places provider is currently unavailable.", nil)
	}

	// Local hour falls back to server time when the timezone lookup fails.
	hour := time.Now().Hour()
	if tz, err := places.Client.TimezoneFor(ctx, point); err != nil {
		log.Printf("Timezone lookup failed: %v", err)
	} else if location, err := time.LoadLocation(tz); err == nil {
		hour = time.Now().In(location).Hour()
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"latitude":  point.Lat,
		"longitude": point.Lng,
		"hour":      hour,
	})
}
