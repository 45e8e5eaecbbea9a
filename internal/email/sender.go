package email

import (
	"context"
	"fmt"

	"berhub_backend/platform/config"
)

// NoopSender drops every email. Used when SMTP is not configured, so
// development environments run without a mail server.
type NoopSender struct{}

func (NoopSender) SendQuoteReceivedEmail(ctx context.Context, toEmail, county, town string, amountCents int64, revised bool) error {
	return nil
}

func (NoopSender) SendQuoteAcceptedEmail(ctx context.Context, toEmail, county, town string, amountCents int64) error {
	return nil
}

func (NoopSender) SendQuoteRejectedEmail(ctx context.Context, toEmail, county, town string) error {
	return nil
}

func (NoopSender) SendQuoteExpiredEmail(ctx context.Context, toEmail, county, town string) error {
	return nil
}

func (NoopSender) SendVisitScheduledEmail(ctx context.Context, toEmail, visitDate string, rescheduled bool) error {
	return nil
}

func (NoopSender) SendAssessmentCompletedEmail(ctx context.Context, toEmail string) error {
	return nil
}

var _ Sender = NoopSender{}

// NewSender builds the configured Sender: SMTP when email is enabled, a noop
// otherwise.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetEmailFromAddress() == "" {
		return nil, fmt.Errorf("email enabled but from address missing")
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
