package mapsValidator

import (
	"foodmap/middleware"
	"foodmap/services/search"

	"github.com/gofiber/fiber/v2"
)

// Search validates a restaurant search request. The search mode itself is
// checked by the pipeline's resolver so an unknown mode surfaces as the
// bad-request error the resolver owns.
func Search() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(search.Request)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Location.Lat == 0 && reqData.Location.Lng == 0 && reqData.LocationName == "" {
			errors["location"] = "A location or location name is required!"
		}
		if reqData.Rating < 0 || reqData.Rating > 5 {
			errors["rating"] = "Minimum rating must be between 0 and 5!"
		}
		if reqData.Radius > 50000 {
			errors["radius"] = "Radius must be at most 50000 meters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSearch", reqData)
		return c.Next()
	}
}
