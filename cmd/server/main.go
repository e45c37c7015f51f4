package main

import (
	"strings"
	"time"

	"agrilink-backend/internal/audit"
	"agrilink-backend/internal/auth"
	"agrilink-backend/internal/config"
	"agrilink-backend/internal/dashboard"
	"agrilink-backend/internal/database"
	"agrilink-backend/internal/farm"
	"agrilink-backend/internal/logger"
	"agrilink-backend/internal/market"
	"agrilink-backend/internal/models"
	"agrilink-backend/internal/notification"
	"agrilink-backend/internal/predict"
	"agrilink-backend/internal/soil"
	"agrilink-backend/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg := config.Load()
	database.Init(cfg)

	yieldModel := predict.LoadModel(cfg.PredictModelPath)
	weatherClient := weather.NewClient(cfg)
	weatherCache := weather.NewCache(cfg)
	soilClient := soil.NewClient()
	notifier := notification.NewService(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L().Errorf("unexpected error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	app.Use(recover.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Service info / health
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":        "AgriLink Backend",
			"version":        predict.APIVersion,
			"status":         "active",
			"model_loaded":   yieldModel != nil,
			"authentication": "Bearer token required",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "healthy",
			"model_loaded": yieldModel != nil,
			"model_type":   yieldModel.Type,
			"timestamp":    time.Now().Format(time.RFC3339),
			"api_version":  predict.APIVersion,
		})
	})

	api := app.Group("/api/v1")

	// Public auth
	api.Post("/auth/register-farmer", auth.RegisterHandler(models.RoleFarmer))
	api.Post("/auth/register-buyer", auth.RegisterHandler(models.RoleBuyer))
	api.Post("/auth/register-officer", auth.RegisterHandler(models.RoleExtensionOfficer))
	api.Post("/auth/login-farmer", auth.LoginHandler(cfg, models.RoleFarmer))
	api.Post("/auth/login-buyer", auth.LoginHandler(cfg, models.RoleBuyer))
	api.Post("/auth/login-officer", auth.LoginHandler(cfg, models.RoleExtensionOfficer))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Farms
	protected.Post("/farms", auth.RequireRole(models.RoleFarmer), farm.CreateFarmHandler())
	protected.Get("/farms", farm.ListFarmsHandler())
	protected.Get("/farms/:id", farm.GetFarmHandler())
	protected.Put("/farms/:id", auth.RequireRole(models.RoleFarmer), farm.UpdateFarmHandler())
	protected.Delete("/farms/:id", auth.RequireRole(models.RoleFarmer), farm.DeleteFarmHandler())

	// Marketplace
	protected.Post("/orders", auth.RequireRole(models.RoleFarmer), market.CreateOrderHandler())
	protected.Get("/orders", market.ListOrdersHandler())
	protected.Get("/orders/mine", market.ListMyOrdersHandler())
	protected.Get("/orders/:id", market.GetOrderHandler())
	protected.Post("/orders/:id/purchase", auth.RequireRole(models.RoleBuyer), market.PurchaseOrderHandler(notifier))
	protected.Post("/orders/:id/status", market.UpdateOrderStatusHandler(notifier))

	// Yield prediction & advisory
	protected.Post("/predict", predict.PredictHandler(yieldModel))
	protected.Get("/crops", predict.ListCropsHandler())
	protected.Get("/districts", predict.ListDistrictsHandler())

	// Weather & soil
	protected.Get("/weather", weather.GetWeatherHandler(weatherClient, weatherCache))
	protected.Get("/soil", soil.GetSoilHandler(soilClient))

	// Extension officer tooling
	officerRoutes := protected.Group("")
	officerRoutes.Use(auth.RequireRole(models.RoleExtensionOfficer))
	officerRoutes.Get("/farmers", auth.ListFarmersHandler())
	officerRoutes.Post("/notifications/send", notification.SendHandler(notifier))
	officerRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Dashboard
	protected.Get("/dashboard/market-summary", dashboard.MarketSummaryHandler())

	logger.L().Infof("server listening on port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L().Fatalf("server stopped: %v", err)
	}
}
