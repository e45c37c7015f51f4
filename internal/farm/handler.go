package farm

import (
	"strings"

	"agrilink-backend/internal/audit"
	"agrilink-backend/internal/auth"
	"agrilink-backend/internal/database"
	"agrilink-backend/internal/logger"
	"agrilink-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FarmResponse struct {
	ID        uint    `json:"id"`
	FarmerID  uint    `json:"farmer_id"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	SizeAcres float64 `json:"size_acres"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	SoilType  string  `json:"soil_type"`
	CreatedAt string  `json:"created_at"`
}

type CreateFarmRequest struct {
	Name      string  `json:"name"`
	District  string  `json:"district"`
	SizeAcres float64 `json:"size_acres"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	SoilType  string  `json:"soil_type"`
}

type UpdateFarmRequest struct {
	Name      *string  `json:"name"`
	District  *string  `json:"district"`
	SizeAcres *float64 `json:"size_acres"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	SoilType  *string  `json:"soil_type"`
}

func toResponse(f *models.Farm) FarmResponse {
	return FarmResponse{
		ID:        f.ID,
		FarmerID:  f.FarmerID,
		Name:      f.Name,
		District:  f.District,
		SizeAcres: f.SizeAcres,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		SoilType:  f.SoilType,
		CreatedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/v1/farms (farmer only)
func CreateFarmHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farmerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateFarmRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Farm name is required")
		}
		if body.SizeAcres <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Farm size must be greater than 0")
		}

		farm := models.Farm{
			FarmerID:  farmerID,
			Name:      body.Name,
			District:  strings.TrimSpace(body.District),
			SizeAcres: body.SizeAcres,
			Latitude:  body.Latitude,
			Longitude: body.Longitude,
			SoilType:  strings.TrimSpace(body.SoilType),
		}

		if err := database.DB.Create(&farm).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create farm")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      farmerID,
			EntityType:  "farm",
			EntityID:    farm.ID,
			Action:      models.AuditActionCreate,
			Description: "Farm registered: " + farm.Name,
			After:       toResponse(&farm),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&farm))
	}
}

// GET /api/v1/farms
// Farmers see their own farms; extension officers can browse by district.
func ListFarmsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role := auth.CurrentRole(c)

		dbq := database.DB.Model(&models.Farm{})
		if role == models.RoleExtensionOfficer {
			if district := c.Query("district"); district != "" {
				dbq = dbq.Where("district = ?", district)
			}
		} else {
			dbq = dbq.Where("farmer_id = ?", userID)
		}

		var farms []models.Farm
		if err := dbq.Order("id asc").Find(&farms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list farms")
		}

		resp := make([]FarmResponse, 0, len(farms))
		for i := range farms {
			resp = append(resp, toResponse(&farms[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/v1/farms/:id
func GetFarmHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role := auth.CurrentRole(c)

		var farm models.Farm
		if err := database.DB.First(&farm, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farm not found")
		}

		if role != models.RoleExtensionOfficer && farm.FarmerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "This farm belongs to another farmer")
		}

		return c.JSON(toResponse(&farm))
	}
}

// PUT /api/v1/farms/:id (owner only)
func UpdateFarmHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farmerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var farm models.Farm
		if err := database.DB.First(&farm, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farm not found")
		}
		if farm.FarmerID != farmerID {
			return fiber.NewError(fiber.StatusForbidden, "This farm belongs to another farmer")
		}

		var body UpdateFarmRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := toResponse(&farm)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Farm name cannot be empty")
			}
			farm.Name = name
		}
		if body.District != nil {
			farm.District = strings.TrimSpace(*body.District)
		}
		if body.SizeAcres != nil {
			if *body.SizeAcres <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Farm size must be greater than 0")
			}
			farm.SizeAcres = *body.SizeAcres
		}
		if body.Latitude != nil {
			farm.Latitude = *body.Latitude
		}
		if body.Longitude != nil {
			farm.Longitude = *body.Longitude
		}
		if body.SoilType != nil {
			farm.SoilType = strings.TrimSpace(*body.SoilType)
		}

		if err := database.DB.Save(&farm).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update farm")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      farmerID,
			EntityType:  "farm",
			EntityID:    farm.ID,
			Action:      models.AuditActionUpdate,
			Description: "Farm updated: " + farm.Name,
			Before:      before,
			After:       toResponse(&farm),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.JSON(toResponse(&farm))
	}
}

// DELETE /api/v1/farms/:id (owner only, refused while listings are open)
func DeleteFarmHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farmerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var farm models.Farm
		if err := database.DB.First(&farm, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farm not found")
		}
		if farm.FarmerID != farmerID {
			return fiber.NewError(fiber.StatusForbidden, "This farm belongs to another farmer")
		}

		var open int64
		database.DB.Model(&models.Order{}).
			Where("farm_id = ? AND status IN ?", farm.ID,
				[]models.OrderStatus{models.OrderStatusListed, models.OrderStatusPurchased, models.OrderStatusInTransit}).
			Count(&open)
		if open > 0 {
			return fiber.NewError(fiber.StatusConflict, "Farm has open listings or orders")
		}

		if err := database.DB.Delete(&farm).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete farm")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      farmerID,
			EntityType:  "farm",
			EntityID:    farm.ID,
			Action:      models.AuditActionDelete,
			Description: "Farm deleted: " + farm.Name,
			Before:      toResponse(&farm),
		}); logErr != nil {
			logger.L().Warnf("audit log failed: %v", logErr)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
