package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"agrilink-backend/internal/database"
	"agrilink-backend/internal/models"
)

var userSeq atomic.Uint64

// CreateUser inserts a user of the given role and district with a unique
// email. The password hash is a placeholder, login tests go through the
// register endpoint instead.
func CreateUser(t *testing.T, role models.UserRole, district string) *models.User {
	t.Helper()

	n := userSeq.Add(1)
	user := models.User{
		Name:         fmt.Sprintf("Test %s %d", role, n),
		Email:        fmt.Sprintf("%s%d@test.local", role, n),
		Phone:        fmt.Sprintf("+9198%08d", n),
		District:     district,
		PasswordHash: "$2a$10$not.a.real.hash.for.tests.only",
		Role:         role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("could not create test user: %v", err)
	}
	return &user
}

// CreateFarm inserts a farm owned by the given farmer.
func CreateFarm(t *testing.T, farmer *models.User, sizeAcres float64) *models.Farm {
	t.Helper()

	n := userSeq.Add(1)
	farm := models.Farm{
		FarmerID:  farmer.ID,
		Name:      fmt.Sprintf("Test Farm %d", n),
		District:  farmer.District,
		SizeAcres: sizeAcres,
		Latitude:  30.901,
		Longitude: 75.857,
		SoilType:  "alluvial",
	}
	if err := database.DB.Create(&farm).Error; err != nil {
		t.Fatalf("could not create test farm: %v", err)
	}
	return &farm
}
