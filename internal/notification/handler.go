package notification

import (
	"strings"

	"agrilink-backend/internal/database"
	"agrilink-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SendRequest struct {
	Message string `json:"message"`
	// Either explicit numbers or a district (all farmers with a phone on file)
	To       []string `json:"to"`
	District string   `json:"district"`
}

type SendResponse struct {
	Requested int          `json:"requested"`
	Sent      int          `json:"sent"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Results   []SendResult `json:"results"`
}

// POST /api/v1/notifications/send (extension officer)
func SendHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SendRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Message is required")
		}
		if len(body.To) == 0 && body.District == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Provide recipient numbers or a district")
		}

		numbers := body.To
		if len(numbers) == 0 {
			var phones []string
			if err := database.DB.Model(&models.User{}).
				Where("role = ? AND district = ? AND phone <> ''", models.RoleFarmer, body.District).
				Pluck("phone", &phones).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve district farmers")
			}
			if len(phones) == 0 {
				return fiber.NewError(fiber.StatusNotFound, "No farmers with a phone number in that district")
			}
			numbers = phones
		}

		results := svc.SendBulk(c.Context(), numbers, body.Message)

		resp := SendResponse{Requested: len(results), Results: results}
		for _, r := range results {
			switch r.Status {
			case "sent":
				resp.Sent++
			case "failed":
				resp.Failed++
			case "skipped":
				resp.Skipped++
			}
		}

		return c.JSON(resp)
	}
}
