package weather

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/weather?lat=30.901&lon=75.857
func GetWeatherHandler(client *Client, cache *Cache) fiber.Handler {
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

		ctx := c.Context()

		if d := cache.Get(ctx, lat, lon); d != nil {
			return c.JSON(d)
		}

		d := client.Current(ctx, lat, lon)
		cache.Set(ctx, lat, lon, d)

		return c.JSON(d)
	}
}
