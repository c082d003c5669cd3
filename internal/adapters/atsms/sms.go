package atsms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/africarailways/ussd-gateway/internal/domain"
)

const sendTimeout = 10 * time.Second

// Sender delivers confirmations through an Africa's Talking style SMS API.
// All sends are best effort: the caller decides what a failure means.
type Sender struct {
	log      *slog.Logger
	http     *resty.Client
	username string
	apiKey   string
	senderID string
}

func New(log *slog.Logger, baseURL, username, apiKey, senderID string) *Sender {
	return &Sender{
		log: log,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(sendTimeout).
			SetHeader("Accept", "application/json"),
		username: username,
		apiKey:   apiKey,
		senderID: senderID,
	}
}

func (s *Sender) Configured() bool {
	return s.apiKey != ""
}

func (s *Sender) SendInvestmentSuccess(ctx context.Context, phone string, amount int64, txRef string) error {
	msg := fmt.Sprintf(
		"ARAIL: Investment confirmed! %d SUI invested in $SENT. TX: %s. View: https://suiexplorer.com/txblock/%s",
		amount, domain.ShortRef(txRef), txRef)
	return s.send(ctx, phone, msg)
}

func (s *Sender) SendTicketConfirmation(ctx context.Context, phone, route, train, ticketID string) error {
	msg := fmt.Sprintf("ARAIL: Ticket %s confirmed. %s, %s. Show this SMS when boarding. Safe travels!",
		ticketID, route, train)
	return s.send(ctx, phone, msg)
}

func (s *Sender) SendVestingReminder(ctx context.Context, phone string, claimable int64) error {
	msg := fmt.Sprintf("ARAIL: You have %s $SENT tokens ready to claim. Dial the service code and select Check My Wallet.",
		domain.GroupDigits(claimable))
	return s.send(ctx, phone, msg)
}

type sendResponse struct {
	SMSMessageData struct {
		Recipients []struct {
			Status string `json:"status"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

func (s *Sender) send(ctx context.Context, phone, message string) error {
	if !s.Configured() {
		return domain.ErrSMSNotConfigured
	}

	var out sendResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("apiKey", s.apiKey).
		SetFormData(map[string]string{
			"username": s.username,
			"to":       phone,
			"message":  message,
			"from":     s.senderID,
		}).
		SetResult(&out).
		Post("/version1/messaging")
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms send: gateway returned %s", resp.Status())
	}
	if len(out.SMSMessageData.Recipients) == 0 || out.SMSMessageData.Recipients[0].Status != "Success" {
		return fmt.Errorf("sms send: delivery not accepted for %s", phone)
	}

	s.log.Info("sms sent", "phone", phone)
	return nil
}
