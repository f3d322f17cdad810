package userValidator

import (
	"foodmap/middleware"
	"foodmap/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AddReviewRequest is the validated review submission payload.
type AddReviewRequest struct {
	GooglePlaceID string  `json:"google_place_id" validate:"required,max=100"`
	Rating        float64 `json:"rating" validate:"required"`
	Text          string  `json:"text" validate:"required,max=300"`
}

// PlaceRefRequest references a place by its provider id.
type PlaceRefRequest struct {
	GooglePlaceID string `json:"google_place_id" validate:"required,max=100"`
}

// AddReview validates a review submission
func AddReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "GooglePlaceID":
					errors["google_place_id"] = "Google place id is required!"
				case "Rating":
					errors["rating"] = "Rating is required!"
				case "Text":
					errors["text"] = "Review text is required and must be at most 300 characters!"
				}
			}
		}

		if reqData.Rating != 0 && !models.IsValidRating(reqData.Rating) {
			errors["rating"] = "Rating must be between 1 and 5 with only half steps allowed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// PlaceRef validates a favorite add/remove payload
func PlaceRef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PlaceRefRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"google_place_id": "Google place id is required!",
			})
		}

		c.Locals("validatedPlaceRef", reqData)
		return c.Next()
	}
}
