package events

import (
	"time"

	"github.com/google/uuid"
)

// Event names for lifecycle notifications.
const (
	EventQuoteSubmitted = "quote.submitted"
	EventQuoteRevised   = "quote.revised"
	EventQuoteAccepted  = "quote.accepted"
	EventQuoteRejected  = "quote.rejected"
	EventQuoteExpired   = "quote.expired"
	EventJobScheduled   = "job.scheduled"
	EventJobRescheduled = "job.rescheduled"
	EventJobCompleted   = "job.completed"
)

// QuoteSubmitted fires when a contractor places a new quote on a job.
type QuoteSubmitted struct {
	BaseEvent
	JobID          uuid.UUID
	QuoteID        uuid.UUID
	ContractorID   uuid.UUID
	HomeownerEmail string
	County         string
	Town           string
	AmountCents    int64
}

func (QuoteSubmitted) EventName() string { return EventQuoteSubmitted }

// QuoteRevised fires when a contractor updates price/notes on an active quote.
type QuoteRevised struct {
	BaseEvent
	JobID          uuid.UUID
	QuoteID        uuid.UUID
	ContractorID   uuid.UUID
	HomeownerEmail string
	County         string
	Town           string
	AmountCents    int64
}

func (QuoteRevised) EventName() string { return EventQuoteRevised }

// QuoteAccepted fires for the winning contractor when the homeowner accepts.
type QuoteAccepted struct {
	BaseEvent
	JobID        uuid.UUID
	QuoteID      uuid.UUID
	ContractorID uuid.UUID
	County       string
	Town         string
	AmountCents  int64
}

func (QuoteAccepted) EventName() string { return EventQuoteAccepted }

// QuoteRejected fires once per losing quote when a sibling is accepted.
type QuoteRejected struct {
	BaseEvent
	JobID        uuid.UUID
	QuoteID      uuid.UUID
	ContractorID uuid.UUID
	County       string
	Town         string
}

func (QuoteRejected) EventName() string { return EventQuoteRejected }

// QuoteExpired fires when the sweeper expires a stale pending quote.
// Relisted is true when the job returned to the open pool as a result.
type QuoteExpired struct {
	BaseEvent
	JobID        uuid.UUID
	QuoteID      uuid.UUID
	ContractorID uuid.UUID
	County       string
	Town         string
	Relisted     bool
}

func (QuoteExpired) EventName() string { return EventQuoteExpired }

// JobScheduled fires when the assigned contractor books a visit date.
type JobScheduled struct {
	BaseEvent
	JobID          uuid.UUID
	ContractorID   uuid.UUID
	HomeownerEmail string
	VisitDate      time.Time
}

func (JobScheduled) EventName() string { return EventJobScheduled }

// JobRescheduled fires when an existing visit date is changed.
type JobRescheduled struct {
	BaseEvent
	JobID          uuid.UUID
	ContractorID   uuid.UUID
	HomeownerEmail string
	VisitDate      time.Time
}

func (JobRescheduled) EventName() string { return EventJobRescheduled }

// JobCompleted fires when the certificate is submitted.
type JobCompleted struct {
	BaseEvent
	JobID          uuid.UUID
	ContractorID   uuid.UUID
	HomeownerEmail string
	CertificateRef string
}

func (JobCompleted) EventName() string { return EventJobCompleted }
