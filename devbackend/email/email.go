// Package email sends the password-reset mail through SendGrid. Without an
// API key the mail is logged instead, which is enough for local use.
package email

import (
	"fmt"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Sender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSender builds a sender; apiKey may be empty for log-only mode.
func NewSender(apiKey, fromName, fromEmail string) *Sender {
	s := &Sender{
		fromName:  fromName,
		fromEmail: fromEmail,
	}
	if apiKey != "" {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

func (s *Sender) SendPasswordReset(recipient, resetURL string) error {
	if s.client == nil {
		log.Infof("SendGrid disabled; password reset for %s would link to %s", recipient, resetURL)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(recipient, recipient)
	subject := "Reset Your CleanCity Password"

	plainText := fmt.Sprintf(`Hello,

You have requested to reset your CleanCity password.

Click the link below to reset it:
%s

This link will expire in 1 hour.

If you did not request a password reset, please ignore this email.

The CleanCity Team`, resetURL)

	htmlContent := fmt.Sprintf(
		`<p>Hello,</p><p>You have requested to reset your CleanCity password.</p><p><a href="%s">Reset password</a></p><p>This link will expire in 1 hour. If you did not request a reset, please ignore this email.</p>`,
		resetURL)

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected reset email with status %d", resp.StatusCode)
	}
	return nil
}
