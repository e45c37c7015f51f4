package soil

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/soil?lat=30.901&lon=75.857
func GetSoilHandler(client *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat is required and must be a number")
		}
		lon, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lon is required and must be a number")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fiber.NewError(fiber.StatusBadRequest, "Coordinates out of range")
		}

		return c.JSON(client.ForLocation(c.Context(), lat, lon))
	}
}
