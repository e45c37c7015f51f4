package notification_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrilink-backend/internal/auth"
	"agrilink-backend/internal/models"
	"agrilink-backend/internal/notification"
	"agrilink-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okSender struct{}

func (okSender) Send(_ context.Context, to, _ string) (string, error) {
	return "SM-" + to, nil
}

func newNotifyApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	svc := notification.NewServiceWithSender(okSender{})

	protected := app.Group("", auth.JWTMiddleware(testutil.Config()))
	protected.Post("/notifications/send",
		auth.RequireRole(models.RoleExtensionOfficer), notification.SendHandler(svc))

	return app
}

func send(t *testing.T, app *fiber.App, token string, body any) (*http.Response, []byte) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/notifications/send", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestSendToExplicitNumbers(t *testing.T) {
	testutil.SetupDB(t)
	app := newNotifyApp()

	officer := testutil.CreateUser(t, models.RoleExtensionOfficer, "Ludhiana")
	token := testutil.Token(t, officer)

	resp, raw := send(t, app, token, fiber.Map{
		"message": "Rain expected this week, delay irrigation",
		"to":      []string{"+919876543210", "+919876543211"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var body notification.SendResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 2, body.Requested)
	assert.Equal(t, 2, body.Sent)
	assert.Equal(t, 0, body.Failed)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "sent", body.Results[0].Status)
}

func TestSendToDistrict(t *testing.T) {
	testutil.SetupDB(t)
	app := newNotifyApp()

	officer := testutil.CreateUser(t, models.RoleExtensionOfficer, "Ludhiana")
	testutil.CreateUser(t, models.RoleFarmer, "Ludhiana")
	testutil.CreateUser(t, models.RoleFarmer, "Ludhiana")
	testutil.CreateUser(t, models.RoleFarmer, "Patiala")
	// buyers in the district are not advisory recipients
	testutil.CreateUser(t, models.RoleBuyer, "Ludhiana")

	resp, raw := send(t, app, testutil.Token(t, officer), fiber.Map{
		"message":  "Wheat sowing window opens next week",
		"district": "Ludhiana",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var body notification.SendResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 2, body.Requested)
	assert.Equal(t, 2, body.Sent)
}

func TestSendValidation(t *testing.T) {
	testutil.SetupDB(t)
	app := newNotifyApp()

	officer := testutil.CreateUser(t, models.RoleExtensionOfficer, "Ludhiana")
	farmer := testutil.CreateUser(t, models.RoleFarmer, "Ludhiana")
	token := testutil.Token(t, officer)

	resp, _ := send(t, app, token, fiber.Map{"to": []string{"+919876543210"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, token, fiber.Map{"message": "hello"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// district with no farmers on file
	resp, _ = send(t, app, token, fiber.Map{"message": "hello", "district": "Fazilka"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// farmers cannot push advisories
	resp, _ = send(t, app, testutil.Token(t, farmer), fiber.Map{
		"message": "hello", "district": "Ludhiana",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
