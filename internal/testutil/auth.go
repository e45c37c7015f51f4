package testutil

import (
	"testing"

	"agrilink-backend/internal/auth"
	"agrilink-backend/internal/config"
	"agrilink-backend/internal/models"
)

// JWTSecret is the signing key handler tests run with.
const JWTSecret = "unit-test-secret-at-least-32-chars!!"

// Config returns the minimal config handler tests need.
func Config() *config.Config {
	return &config.Config{JWTSecret: JWTSecret}
}

// Token signs a JWT for the given user, for use as a Bearer token.
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(JWTSecret, user)
	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}
	return token
}
