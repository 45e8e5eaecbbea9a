// Package email delivers lifecycle notification emails to homeowners and
// contractors.
package email

import "context"

// Sender delivers the marketplace's notification emails. The outbox
// dispatcher is the only caller; lifecycle transitions never block on email
// delivery.
type Sender interface {
	// SendQuoteReceivedEmail tells the homeowner a new or revised quote
	// arrived on their request.
	SendQuoteReceivedEmail(ctx context.Context, toEmail, county, town string, amountCents int64, revised bool) error

	// SendQuoteAcceptedEmail tells the winning contractor their quote was
	// accepted.
	SendQuoteAcceptedEmail(ctx context.Context, toEmail, county, town string, amountCents int64) error

	// SendQuoteRejectedEmail tells a losing contractor the homeowner went
	// with another quote.
	SendQuoteRejectedEmail(ctx context.Context, toEmail, county, town string) error

	// SendQuoteExpiredEmail tells a contractor their quote lapsed without a
	// homeowner decision.
	SendQuoteExpiredEmail(ctx context.Context, toEmail, county, town string) error

	// SendVisitScheduledEmail tells the homeowner the assessor booked or
	// changed a visit date.
	SendVisitScheduledEmail(ctx context.Context, toEmail, visitDate string, rescheduled bool) error

	// SendAssessmentCompletedEmail tells the homeowner their certificate is
	// ready.
	SendAssessmentCompletedEmail(ctx context.Context, toEmail string) error
}
