package notification

import (
	"context"
	"fmt"

	"agrilink-backend/internal/config"
	"agrilink-backend/internal/logger"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers a single text message and returns the provider's
// message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg *config.Config) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioSender{client: client, from: cfg.TwilioFromNumber}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send to %s failed: %w", to, err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return sid, nil
}

// LogSender is used when Twilio credentials are absent: messages are logged
// and reported as skipped so the rest of the flow keeps working in dev.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, body string) (string, error) {
	logger.L().Infow("sms skipped (no twilio credentials)", "to", to, "body", body)
	return "", ErrSkipped
}
