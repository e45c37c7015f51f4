package dashboard

import (
	"agrilink-backend/internal/database"
	"agrilink-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type CropSummary struct {
	Crop          string  `json:"crop"`
	ListedKg      float64 `json:"listed_kg"`
	AvgPricePerKg float64 `json:"avg_price_per_kg"`
}

type MarketSummaryResponse struct {
	District       string        `json:"district,omitempty"`
	StatusCounts   []StatusCount `json:"status_counts"`
	ListedByCrop   []CropSummary `json:"listed_by_crop"`
	DeliveredCount int64         `json:"delivered_count"`
	DeliveredValue float64       `json:"delivered_value"`
}

// GET /api/v1/dashboard/market-summary?district=Ludhiana
func MarketSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		district := c.Query("district")

		resp := MarketSummaryResponse{District: district}

		statusQuery := database.DB.Model(&models.Order{})
		if district != "" {
			statusQuery = statusQuery.Where("district = ?", district)
		}
		if err := statusQuery.
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&resp.StatusCounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute status counts")
		}

		cropQuery := database.DB.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusListed)
		if district != "" {
			cropQuery = cropQuery.Where("district = ?", district)
		}
		if err := cropQuery.
			Select("crop, SUM(quantity_kg) as listed_kg, AVG(price_per_kg) as avg_price_per_kg").
			Group("crop").
			Order("crop asc").
			Scan(&resp.ListedByCrop).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute crop summary")
		}

		type deliveredRow struct {
			Count int64
			Value float64
		}
		var delivered deliveredRow
		deliveredQuery := database.DB.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusDelivered)
		if district != "" {
			deliveredQuery = deliveredQuery.Where("district = ?", district)
		}
		if err := deliveredQuery.
			Select("COUNT(*) as count, COALESCE(SUM(total_price), 0) as value").
			Scan(&delivered).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute delivered totals")
		}
		resp.DeliveredCount = delivered.Count
		resp.DeliveredValue = delivered.Value

		if resp.StatusCounts == nil {
			resp.StatusCounts = []StatusCount{}
		}
		if resp.ListedByCrop == nil {
			resp.ListedByCrop = []CropSummary{}
		}

		return c.JSON(resp)
	}
}
