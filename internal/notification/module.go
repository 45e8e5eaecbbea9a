// Package notification turns lifecycle events into queued emails. The module
// subscribes to the event bus and inverts the dependency: the jobs module
// never knows about email providers or templates. Every notification goes
// through the outbox so delivery survives restarts and retries.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"berhub_backend/internal/email"
	"berhub_backend/internal/events"
	notificationoutbox "berhub_backend/internal/notification/outbox"
	"berhub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Delivery gives up on a record after this many attempts.
const maxDeliveryAttempts = 5

// Template names stored on outbox records.
const (
	templateQuoteReceived       = "quote_received"
	templateQuoteAccepted       = "quote_accepted"
	templateQuoteRejected       = "quote_rejected"
	templateQuoteExpired        = "quote_expired"
	templateVisitScheduled      = "visit_scheduled"
	templateAssessmentCompleted = "assessment_completed"
)

// ContractorContactReader resolves a contractor's notification email address.
type ContractorContactReader interface {
	GetContactEmail(ctx context.Context, contractorID uuid.UUID) (string, error)
}

// quoteEmailPayload is the stored payload for quote-related notifications.
type quoteEmailPayload struct {
	JobID       string `json:"jobId"`
	QuoteID     string `json:"quoteId,omitempty"`
	County      string `json:"county"`
	Town        string `json:"town"`
	AmountCents int64  `json:"amountCents,omitempty"`
	Revised     bool   `json:"revised,omitempty"`
}

// visitEmailPayload is the stored payload for scheduling notifications.
type visitEmailPayload struct {
	JobID       string `json:"jobId"`
	VisitDate   string `json:"visitDate"`
	Rescheduled bool   `json:"rescheduled,omitempty"`
}

// completedEmailPayload is the stored payload for completion notifications.
type completedEmailPayload struct {
	JobID string `json:"jobId"`
}

// Module handles all notification-related event subscriptions.
type Module struct {
	outbox   *notificationoutbox.Repository
	sender   email.Sender
	contacts ContractorContactReader
	log      *logger.Logger
}

// NewModule creates the notification module.
func NewModule(pool *pgxpool.Pool, sender email.Sender, contacts ContractorContactReader, log *logger.Logger) *Module {
	return &Module{
		outbox:   notificationoutbox.New(pool),
		sender:   sender,
		contacts: contacts,
		log:      log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "notification" }

// Outbox returns the outbox repository for the dispatcher.
func (m *Module) Outbox() *notificationoutbox.Repository { return m.outbox }

// RegisterHandlers subscribes the module to every lifecycle event it turns
// into an email.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteSubmitted{}.EventName(), m)
	bus.Subscribe(events.QuoteRevised{}.EventName(), m)
	bus.Subscribe(events.QuoteAccepted{}.EventName(), m)
	bus.Subscribe(events.QuoteRejected{}.EventName(), m)
	bus.Subscribe(events.QuoteExpired{}.EventName(), m)
	bus.Subscribe(events.JobScheduled{}.EventName(), m)
	bus.Subscribe(events.JobRescheduled{}.EventName(), m)
	bus.Subscribe(events.JobCompleted{}.EventName(), m)
}

// Handle queues the notification for the received event. Enqueueing only;
// delivery happens in the scheduler worker via Deliver.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteSubmitted:
		return m.enqueue(ctx, e.EventName(), templateQuoteReceived, e.HomeownerEmail, quoteEmailPayload{
			JobID:       e.JobID.String(),
			QuoteID:     e.QuoteID.String(),
			County:      e.County,
			Town:        e.Town,
			AmountCents: e.AmountCents,
		})

	case events.QuoteRevised:
		return m.enqueue(ctx, e.EventName(), templateQuoteReceived, e.HomeownerEmail, quoteEmailPayload{
			JobID:       e.JobID.String(),
			QuoteID:     e.QuoteID.String(),
			County:      e.County,
			Town:        e.Town,
			AmountCents: e.AmountCents,
			Revised:     true,
		})

	case events.QuoteAccepted:
		return m.enqueueForContractor(ctx, e.EventName(), templateQuoteAccepted, e.ContractorID, quoteEmailPayload{
			JobID:       e.JobID.String(),
			QuoteID:     e.QuoteID.String(),
			County:      e.County,
			Town:        e.Town,
			AmountCents: e.AmountCents,
		})

	case events.QuoteRejected:
		return m.enqueueForContractor(ctx, e.EventName(), templateQuoteRejected, e.ContractorID, quoteEmailPayload{
			JobID:   e.JobID.String(),
			QuoteID: e.QuoteID.String(),
			County:  e.County,
			Town:    e.Town,
		})

	case events.QuoteExpired:
		return m.enqueueForContractor(ctx, e.EventName(), templateQuoteExpired, e.ContractorID, quoteEmailPayload{
			JobID:   e.JobID.String(),
			QuoteID: e.QuoteID.String(),
			County:  e.County,
			Town:    e.Town,
		})

	case events.JobScheduled:
		return m.enqueue(ctx, e.EventName(), templateVisitScheduled, e.HomeownerEmail, visitEmailPayload{
			JobID:     e.JobID.String(),
			VisitDate: e.VisitDate.Format("Monday, 2 January 2006"),
		})

	case events.JobRescheduled:
		return m.enqueue(ctx, e.EventName(), templateVisitScheduled, e.HomeownerEmail, visitEmailPayload{
			JobID:       e.JobID.String(),
			VisitDate:   e.VisitDate.Format("Monday, 2 January 2006"),
			Rescheduled: true,
		})

	case events.JobCompleted:
		return m.enqueue(ctx, e.EventName(), templateAssessmentCompleted, e.HomeownerEmail, completedEmailPayload{
			JobID: e.JobID.String(),
		})
	}

	return nil
}

func (m *Module) enqueue(ctx context.Context, kind, template, recipient string, payload any) error {
	if recipient == "" {
		m.log.Warn("notification skipped: no recipient", "kind", kind)
		return nil
	}

	_, err := m.outbox.Insert(ctx, notificationoutbox.InsertParams{
		Kind:      kind,
		Template:  template,
		Recipient: recipient,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("queue notification %s: %w", kind, err)
	}
	return nil
}

func (m *Module) enqueueForContractor(ctx context.Context, kind, template string, contractorID uuid.UUID, payload any) error {
	recipient, err := m.contacts.GetContactEmail(ctx, contractorID)
	if err != nil {
		m.log.Warn("notification skipped: contractor contact lookup failed",
			"kind", kind, "contractor_id", contractorID, "error", err)
		return nil
	}
	return m.enqueue(ctx, kind, template, recipient, payload)
}

// Deliver renders and sends one claimed outbox record, then records the
// outcome: succeeded, returned to pending for retry, or failed once the
// attempt budget is spent.
func (m *Module) Deliver(ctx context.Context, rec notificationoutbox.Record) error {
	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	sendErr := m.send(ctx, rec)
	if sendErr == nil {
		return m.outbox.MarkSucceeded(ctx, rec.ID)
	}

	m.log.Warn("notification delivery failed",
		"outbox_id", rec.ID, "template", rec.Template, "attempts", rec.Attempts+1, "error", sendErr)

	if rec.Attempts+1 >= maxDeliveryAttempts {
		return m.outbox.MarkFailed(ctx, rec.ID, sendErr.Error())
	}
	msg := sendErr.Error()
	return m.outbox.MarkPending(ctx, rec.ID, &msg, notificationoutbox.RetryBackoff(rec.Attempts+1))
}

func (m *Module) send(ctx context.Context, rec notificationoutbox.Record) error {
	switch rec.Template {
	case templateQuoteReceived:
		var p quoteEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return m.sender.SendQuoteReceivedEmail(ctx, rec.Recipient, p.County, p.Town, p.AmountCents, p.Revised)

	case templateQuoteAccepted:
		var p quoteEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return m.sender.SendQuoteAcceptedEmail(ctx, rec.Recipient, p.County, p.Town, p.AmountCents)

	case templateQuoteRejected:
		var p quoteEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return m.sender.SendQuoteRejectedEmail(ctx, rec.Recipient, p.County, p.Town)

	case templateQuoteExpired:
		var p quoteEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return m.sender.SendQuoteExpiredEmail(ctx, rec.Recipient, p.County, p.Town)

	case templateVisitScheduled:
		var p visitEmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return m.sender.SendVisitScheduledEmail(ctx, rec.Recipient, p.VisitDate, p.Rescheduled)

	case templateAssessmentCompleted:
		return m.sender.SendAssessmentCompletedEmail(ctx, rec.Recipient)
	}

	return fmt.Errorf("unknown notification template %q", rec.Template)
}
