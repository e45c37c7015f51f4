package market

import (
	"fmt"
	"strings"
	"time"

	"agrilink-backend/internal/audit"
	"agrilink-backend/internal/auth"
	"agrilink-backend/internal/database"
	"agrilink-backend/internal/logger"
	"agrilink-backend/internal/models"
	"agrilink-backend/internal/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	FarmID     uint    `json:"farm_id"`
	Crop       string  `json:"crop"`
	QuantityKg float64 `json:"quantity_kg"`
	PricePerKg float64 `json:"price_per_kg"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderResponse struct {
	ID          uint               `json:"id"`
	Code        string             `json:"code"`
	FarmID      uint               `json:"farm_id"`
	FarmerID    uint               `json:"farmer_id"`
	BuyerID     *uint              `json:"buyer_id"`
	Crop        string             `json:"crop"`
	District    string             `json:"district"`
	QuantityKg  float64            `json:"quantity_kg"`
	PricePerKg  float64            `json:"price_per_kg"`
	TotalPrice  float64            `json:"total_price"`
	Status      models.OrderStatus `json:"status"`
	ListedAt    string             `json:"listed_at"`
	PurchasedAt *string            `json:"purchased_at"`
	DeliveredAt *string            `json:"delivered_at"`
}

func toResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		Code:       o.Code,
		FarmID:     o.FarmID,
		FarmerID:   o.FarmerID,
		BuyerID:    o.BuyerID,
		Crop:       o.Crop,
		District:   o.District,
		QuantityKg: o.QuantityKg,
		PricePerKg: o.PricePerKg,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		ListedAt:   o.ListedAt.Format("2006-01-02 15:04:05"),
	}
	if o.PurchasedAt != nil {
		s := o.PurchasedAt.Format("2006-01-02 15:04:05")
		resp.PurchasedAt = &s
	}
	if o.DeliveredAt != nil {
		s := o.DeliveredAt.Format("2006-01-02 15:04:05")
		resp.DeliveredAt = &s
	}
	return resp
}

// canTransition encodes the linear lifecycle. Anything not listed here is
// rejected with a conflict.
func canTransition(from, to models.OrderStatus) bool {
	switch from {
	case models.OrderStatusListed:
		return to == models.OrderStatusPurchased || to == models.OrderStatusCancelled
	case models.OrderStatusPurchased:
		return to == models.OrderStatusInTransit
	case models.OrderStatusInTransit:
		return to == models.OrderStatusDelivered
	default:
		return false
	}
}

// POST /api/v1/orders (farmer lists produce for sale)
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farmerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Crop = strings.ToLower(strings.TrimSpace(body.Crop))
		if body.Crop == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Crop is required")
		}
		if body.QuantityKg <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantity must be greater than 0")
		}
		if body.PricePerKg <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price must be greater than 0")
		}

		var farm models.Farm
		if err := database.DB.First(&farm, "id = ?", body.FarmID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farm not found")
		}
		if farm.FarmerID != farmerID {
			return fiber.NewError(fiber.StatusForbidden, "This farm belongs to another farmer")
		}

		order := models.Order{
			Code:       uuid.NewString(),
			FarmID:     farm.ID,
			FarmerID:   farmerID,
			Crop:       body.Crop,
			District:   farm.District,
			QuantityKg: body.QuantityKg,
			PricePerKg: body.PricePerKg,
			TotalPrice: body.QuantityKg * body.PricePerKg,
			Status:     models.OrderStatusListed,
			ListedAt:   time.Now(),
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create listing")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      farmerID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Listed %s: %.0f kg at %.2f/kg", order.Crop, order.QuantityKg, order.PricePerKg),
			After:       toResponse(&order),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&order))
	}
}

// GET /api/v1/orders?district=Ludhiana&crop=wheat&status=listed
// The open marketplace view. Defaults to listed produce only.
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{})

		if district := c.Query("district"); district != "" {
			dbq = dbq.Where("district = ?", district)
		}
		if crop := c.Query("crop"); crop != "" {
			dbq = dbq.Where("crop = ?", strings.ToLower(crop))
		}
		status := c.Query("status", string(models.OrderStatusListed))
		if status != "all" {
			dbq = dbq.Where("status = ?", status)
		}

		var orders []models.Order
		if err := dbq.Order("listed_at desc, id desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toResponse(&orders[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/v1/orders/mine
// A farmer sees their listings, a buyer their purchases.
func ListMyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Order{})
		if auth.CurrentRole(c) == models.RoleBuyer {
			dbq = dbq.Where("buyer_id = ?", userID)
		} else {
			dbq = dbq.Where("farmer_id = ?", userID)
		}

		var orders []models.Order
		if err := dbq.Order("listed_at desc, id desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toResponse(&orders[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/v1/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return c.JSON(toResponse(&order))
	}
}

// POST /api/v1/orders/:id/purchase (buyer only)
func PurchaseOrderHandler(notifier *notification.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buyerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		if !canTransition(order.Status, models.OrderStatusPurchased) {
			return fiber.NewError(fiber.StatusConflict, "Listing is no longer available")
		}

		before := toResponse(&order)
		now := time.Now()
		order.BuyerID = &buyerID
		order.Status = models.OrderStatusPurchased
		order.PurchasedAt = &now
		order.TotalPrice = order.QuantityKg * order.PricePerKg

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not complete purchase")
		}

		var buyer, farmer models.User
		database.DB.First(&buyer, order.BuyerID)
		database.DB.First(&farmer, order.FarmerID)
		notifier.NotifyOrderPurchased(&order, &farmer, &buyer)

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      buyerID,
			UserName:    buyer.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionPurchase,
			Description: fmt.Sprintf("Order %s purchased for %.2f", order.Code, order.TotalPrice),
			Before:      before,
			After:       toResponse(&order),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.JSON(toResponse(&order))
	}
}

// POST /api/v1/orders/:id/status
// Farmer moves purchased -> in_transit and may cancel while listed;
// the buyer confirms in_transit -> delivered.
func UpdateOrderStatusHandler(notifier *notification.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role := auth.CurrentRole(c)

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		switch body.Status {
		case models.OrderStatusInTransit, models.OrderStatusCancelled:
			if role != models.RoleFarmer || order.FarmerID != userID {
				return fiber.NewError(fiber.StatusForbidden, "Only the listing farmer can do this")
			}
		case models.OrderStatusDelivered:
			if role != models.RoleBuyer || order.BuyerID == nil || *order.BuyerID != userID {
				return fiber.NewError(fiber.StatusForbidden, "Only the purchasing buyer can confirm delivery")
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid target status")
		}

		if !canTransition(order.Status, body.Status) {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Cannot move order from %s to %s", order.Status, body.Status))
		}

		before := toResponse(&order)
		order.Status = body.Status
		if body.Status == models.OrderStatusDelivered {
			now := time.Now()
			order.DeliveredAt = &now
		}

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update order")
		}

		// Tell the other side of the trade.
		var recipient models.User
		if role == models.RoleFarmer {
			if order.BuyerID != nil {
				database.DB.First(&recipient, *order.BuyerID)
			}
		} else {
			database.DB.First(&recipient, order.FarmerID)
		}
		if recipient.ID != 0 {
			notifier.NotifyOrderStatus(&order, &recipient)
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionStatusChange,
			Description: fmt.Sprintf("Order %s: %s -> %s", order.Code, before.Status, order.Status),
			Before:      before,
			After:       toResponse(&order),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.JSON(toResponse(&order))
	}
}
