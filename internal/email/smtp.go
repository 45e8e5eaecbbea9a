package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendQuoteReceivedEmail(ctx context.Context, toEmail, county, town string, amountCents int64, revised bool) error {
	subject := subjectQuoteReceived
	heading := "You have a new quote"
	if revised {
		subject = subjectQuoteRevised
		heading = "A quote was updated"
	}

	content, err := renderEmailTemplate("quote_received.html", quoteReceivedEmailData{
		baseEmailData:   baseEmailData{Title: heading, Heading: heading},
		Location:        formatLocation(county, town),
		AmountFormatted: formatCurrencyEUR(amountCents),
		Revised:         revised,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendQuoteAcceptedEmail(ctx context.Context, toEmail, county, town string, amountCents int64) error {
	content, err := renderEmailTemplate("quote_accepted.html", quoteAcceptedEmailData{
		baseEmailData:   baseEmailData{Title: "Quote accepted", Heading: "Quote accepted"},
		Location:        formatLocation(county, town),
		AmountFormatted: formatCurrencyEUR(amountCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteAccepted, content)
}

func (s *SMTPSender) SendQuoteRejectedEmail(ctx context.Context, toEmail, county, town string) error {
	content, err := renderEmailTemplate("quote_closed.html", quoteClosedEmailData{
		baseEmailData: baseEmailData{Title: "Quote not selected", Heading: "Quote not selected"},
		Location:      formatLocation(county, town),
		Reason:        "The homeowner accepted another quote for this assessment.",
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteRejected, content)
}

func (s *SMTPSender) SendQuoteExpiredEmail(ctx context.Context, toEmail, county, town string) error {
	content, err := renderEmailTemplate("quote_closed.html", quoteClosedEmailData{
		baseEmailData: baseEmailData{Title: "Quote expired", Heading: "Quote expired"},
		Location:      formatLocation(county, town),
		Reason:        "Your quote lapsed without a decision from the homeowner. You can submit a fresh quote if the job is relisted.",
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteExpired, content)
}

func (s *SMTPSender) SendVisitScheduledEmail(ctx context.Context, toEmail, visitDate string, rescheduled bool) error {
	subject := subjectVisitScheduled
	heading := "Visit scheduled"
	if rescheduled {
		subject = subjectVisitRescheduled
		heading = "Visit rescheduled"
	}

	content, err := renderEmailTemplate("visit_scheduled.html", visitScheduledEmailData{
		baseEmailData: baseEmailData{Title: heading, Heading: heading},
		VisitDate:     visitDate,
		Rescheduled:   rescheduled,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendAssessmentCompletedEmail(ctx context.Context, toEmail string) error {
	content, err := renderEmailTemplate("assessment_completed.html", assessmentCompletedEmailData{
		baseEmailData: baseEmailData{Title: "Certificate ready", Heading: "Your BER certificate is ready"},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAssessmentCompleted, content)
}

// Compile-time check that SMTPSender implements Sender.
var _ Sender = (*SMTPSender)(nil)
