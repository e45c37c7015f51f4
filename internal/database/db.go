package database

import (
	"agrilink-backend/internal/config"
	"agrilink-backend/internal/logger"
	"agrilink-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.L().Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logger.L().Fatalf("automigrate failed: %v", err)
	}

	logger.L().Info("database connected, migration complete")
}

// Migrate runs AutoMigrate for every persisted model. Split out so the test
// harness can run it against its own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Farm{},
		&models.Order{},
		&models.AuditLog{},
	)
}
