package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agrilink-backend/internal/config"
	"agrilink-backend/internal/logger"
	"agrilink-backend/internal/models"
)

// ErrSkipped marks a message that was not attempted because no SMS provider
// is configured.
var ErrSkipped = errors.New("sms delivery skipped")

type SendResult struct {
	To     string `json:"to"`
	Status string `json:"status"` // sent | failed | skipped
	SID    string `json:"sid,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Service struct {
	sender  SMSSender
	timeout time.Duration
}

func NewService(cfg *config.Config) *Service {
	var sender SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sender = NewTwilioSender(cfg)
	} else {
		sender = LogSender{}
	}
	return &Service{sender: sender, timeout: 30 * time.Second}
}

// NewServiceWithSender wires a custom sender, used by tests.
func NewServiceWithSender(sender SMSSender) *Service {
	return &Service{sender: sender, timeout: 30 * time.Second}
}

// SendBulk delivers the message to every recipient concurrently and reports
// per-recipient outcomes. One failed number does not stop the others.
func (s *Service) SendBulk(ctx context.Context, numbers []string, body string) []SendResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := make([]SendResult, len(numbers))

	var wg sync.WaitGroup
	for i, to := range numbers {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			sid, err := s.sender.Send(ctx, to, body)
			switch {
			case errors.Is(err, ErrSkipped):
				results[i] = SendResult{To: to, Status: "skipped"}
			case err != nil:
				results[i] = SendResult{To: to, Status: "failed", Error: err.Error()}
			default:
				results[i] = SendResult{To: to, Status: "sent", SID: sid}
			}
		}(i, to)
	}
	wg.Wait()

	return results
}

// NotifyOrderPurchased texts the farmer that a buyer took the listing.
// Best effort: callers never fail a request over a missed SMS.
func (s *Service) NotifyOrderPurchased(order *models.Order, farmer, buyer *models.User) {
	if farmer == nil || farmer.Phone == "" {
		return
	}
	body := fmt.Sprintf("AgriLink: your %s listing %s (%.0f kg) was purchased by %s for %.2f.",
		order.Crop, order.Code, order.QuantityKg, buyer.Name, order.TotalPrice)
	s.sendEvent(farmer.Phone, body)
}

// NotifyOrderStatus texts the counterparty about a lifecycle change.
func (s *Service) NotifyOrderStatus(order *models.Order, recipient *models.User) {
	if recipient == nil || recipient.Phone == "" {
		return
	}
	body := fmt.Sprintf("AgriLink: order %s (%s) is now %s.", order.Code, order.Crop, order.Status)
	s.sendEvent(recipient.Phone, body)
}

func (s *Service) sendEvent(to, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.sender.Send(ctx, to, body); err != nil && !errors.Is(err, ErrSkipped) {
		logger.L().Warnw("order sms failed", "to", to, "error", err)
	}
}
