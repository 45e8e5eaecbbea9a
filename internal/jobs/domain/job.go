// Package domain holds the core entities and business rules of the
// assessment marketplace: the job/quote lifecycle, eligibility filtering,
// quote ranking, and the commercial classifier. Everything here is pure and
// storage-agnostic.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle status of an assessment job.
type JobStatus string

const (
	// JobStatusLive and JobStatusSubmitted are functionally equivalent entry
	// states: both mean "open for quotes". Submitted is kept as a distinct
	// stored value for feeds that distinguish fresh from confirmed requests.
	JobStatusLive      JobStatus = "live"
	JobStatusSubmitted JobStatus = "submitted"
	// JobStatusPendingQuote means at least one active quote exists.
	JobStatusPendingQuote JobStatus = "pending_quote"
	// JobStatusQuoteAccepted means the homeowner accepted a quote and the
	// job is assigned to that quote's contractor.
	JobStatusQuoteAccepted JobStatus = "quote_accepted"
	// JobStatusScheduled means the assigned contractor booked a visit date.
	JobStatusScheduled JobStatus = "scheduled"
	// JobStatusCompleted means the certificate has been submitted.
	JobStatusCompleted JobStatus = "completed"
)

// AcceptsQuotes reports whether the job is still open for bidding.
func (s JobStatus) AcceptsQuotes() bool {
	return s == JobStatusLive || s == JobStatusSubmitted || s == JobStatusPendingQuote
}

// Assigned reports whether the job has an assigned contractor.
func (s JobStatus) Assigned() bool {
	return s == JobStatusQuoteAccepted || s == JobStatusScheduled || s == JobStatusCompleted
}

// Valid reports whether the value is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusLive, JobStatusSubmitted, JobStatusPendingQuote,
		JobStatusQuoteAccepted, JobStatusScheduled, JobStatusCompleted:
		return true
	}
	return false
}

// AssignmentState is the coarse tagged view of a job's lifecycle. There is
// deliberately no cancelled/unfulfillable variant: a job nobody quotes stays
// Open indefinitely.
type AssignmentState string

const (
	AssignmentOpen      AssignmentState = "open"
	AssignmentAssigned  AssignmentState = "assigned"
	AssignmentCompleted AssignmentState = "completed"
)

// Assignment maps a job status onto its coarse assignment state.
func Assignment(s JobStatus) AssignmentState {
	switch {
	case s == JobStatusCompleted:
		return AssignmentCompleted
	case s.Assigned():
		return AssignmentAssigned
	default:
		return AssignmentOpen
	}
}

// QuoteStatus is the lifecycle status of a quote.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
	// QuoteStatusRejected covers homeowner rejection (accept of a sibling)
	// and sweeper expiry alike; the two are observationally identical.
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Active reports whether the quote still counts toward ranking and the
// one-active-quote-per-contractor invariant.
func (s QuoteStatus) Active() bool {
	return s == QuoteStatusPending || s == QuoteStatusAccepted
}

// JobType is the declared domestic/commercial classification of a job.
type JobType string

const (
	JobTypeDomestic   JobType = "domestic"
	JobTypeCommercial JobType = "commercial"
)

// Specialty is a contractor's declared line of work.
type Specialty string

const (
	SpecialtyDomestic   Specialty = "domestic"
	SpecialtyCommercial Specialty = "commercial"
	SpecialtyBoth       Specialty = "both"
)

// Valid reports whether the value is a known specialty.
func (s Specialty) Valid() bool {
	return s == SpecialtyDomestic || s == SpecialtyCommercial || s == SpecialtyBoth
}

// Job is a homeowner's request for a BER assessment.
type Job struct {
	ID                   uuid.UUID
	HomeownerName        string
	HomeownerEmail       string
	HomeownerPhone       string
	County               string
	Town                 string
	PropertyType         string
	PropertySizeSqm      *int
	Bedrooms             *int
	JobType              JobType
	PreferredDate        *time.Time
	PreferredTime        *string
	Status               JobStatus
	AssignedContractorID *uuid.UUID
	ScheduledDate        *time.Time
	CertificateRef       *string
	CompletedAt          *time.Time
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Quote is a contractor's priced bid on a job. AmountCents is the
// all-inclusive total in euro cents.
type Quote struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	ContractorID uuid.UUID
	AmountCents  int64
	Notes        string
	Status       QuoteStatus
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContractorPreference is the read-only profile slice the engine uses for
// eligibility. Owned and written by profile management.
type ContractorPreference struct {
	ContractorID    uuid.UUID
	ServiceCounties []string
	Specialty       Specialty
	ContactPhone    string
	UpdatedAt       time.Time
}

// Withdrawal is the audit record of a contractor declining an open job.
// It never changes the job's status; it only suppresses the job from that
// contractor's own eligible feed.
type Withdrawal struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	ContractorID uuid.UUID
	ReasonCode   string
	CreatedAt    time.Time
}
