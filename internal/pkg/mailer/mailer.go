package mailer

import (
	"errors"
	"fmt"

	"senpai_store/internal/pkg/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail. Order confirmations go through here; the
// interface exists so the worker pool can be tested with a fake.
type Mailer interface {
	Send(toEmail, subject, htmlContent string) error
}

// SendGridMailer is the production implementation.
type SendGridMailer struct {
	client *sendgrid.Client
	cfg    config.MailConfig
}

// NewSendGridMailer builds the mailer from the injected mail config.
func NewSendGridMailer(cfg config.MailConfig) (*SendGridMailer, error) {
	if cfg.SendGridKey == "" {
		return nil, errors.New("sendgrid api key missing")
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGridKey),
		cfg:    cfg,
	}, nil
}

func (m *SendGridMailer) Send(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

// OrderConfirmationBody renders the confirmation mail for a placed order.
func OrderConfirmationBody(orderID string, total float64, paymentMethod string) string {
	return fmt.Sprintf(
		"<strong>Thank you for your order!</strong><br><br>"+
			"Your order (ID: %s) has been placed successfully.<br><br>"+
			"Total Amount: <strong>₹%.2f</strong><br>"+
			"Payment Method: <strong>%s</strong><br><br>"+
			"We will notify you when it ships.",
		orderID, total, paymentMethod,
	)
}
