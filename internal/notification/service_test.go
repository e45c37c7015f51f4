package notification

import (
	"context"
	"errors"
	"testing"

	"agrilink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender fails or skips specific numbers, everything else sends.
type scriptedSender struct {
	fail map[string]bool
	skip map[string]bool
}

func (s scriptedSender) Send(_ context.Context, to, _ string) (string, error) {
	if s.fail[to] {
		return "", errors.New("carrier rejected")
	}
	if s.skip[to] {
		return "", ErrSkipped
	}
	return "SM-" + to, nil
}

func TestSendBulkMixedOutcomes(t *testing.T) {
	svc := NewServiceWithSender(scriptedSender{
		fail: map[string]bool{"+911111111111": true},
		skip: map[string]bool{"+912222222222": true},
	})

	numbers := []string{"+919876543210", "+911111111111", "+912222222222"}
	results := svc.SendBulk(context.Background(), numbers, "advisory")

	require.Len(t, results, 3)

	// results keep the input order even though sends run concurrently
	assert.Equal(t, "+919876543210", results[0].To)
	assert.Equal(t, "sent", results[0].Status)
	assert.Equal(t, "SM-+919876543210", results[0].SID)

	assert.Equal(t, "failed", results[1].Status)
	assert.Contains(t, results[1].Error, "carrier rejected")

	assert.Equal(t, "skipped", results[2].Status)
	assert.Empty(t, results[2].Error)
}

func TestSendBulkEmpty(t *testing.T) {
	svc := NewServiceWithSender(scriptedSender{})
	results := svc.SendBulk(context.Background(), nil, "advisory")
	assert.Empty(t, results)
}

func TestLogSenderSkips(t *testing.T) {
	_, err := LogSender{}.Send(context.Background(), "+919876543210", "hello")
	assert.ErrorIs(t, err, ErrSkipped)
}

func TestNotifyGuards(t *testing.T) {
	// a sender that fails the test if it is ever called
	svc := NewServiceWithSender(scriptedSender{fail: map[string]bool{"": true}})

	order := &models.Order{Crop: "wheat", Code: "abc"}
	buyer := &models.User{Name: "Buyer"}

	// nil or phoneless recipients are silently ignored
	svc.NotifyOrderPurchased(order, nil, buyer)
	svc.NotifyOrderPurchased(order, &models.User{Name: "No Phone"}, buyer)
	svc.NotifyOrderStatus(order, nil)
	svc.NotifyOrderStatus(order, &models.User{Name: "No Phone"})
}
