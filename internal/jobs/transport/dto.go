// Package transport defines the request/response DTOs for the jobs module.
// Every mutation entry point takes an explicit, validated command struct.
package transport

import (
	"time"

	"berhub_backend/internal/jobs/domain"

	"github.com/google/uuid"
)

// CreateJobRequest is the homeowner's assessment request.
type CreateJobRequest struct {
	HomeownerName   string     `json:"homeownerName" validate:"required,max=200"`
	HomeownerEmail  string     `json:"homeownerEmail" validate:"required,email"`
	HomeownerPhone  string     `json:"homeownerPhone" validate:"omitempty,max=30"`
	County          string     `json:"county" validate:"required,county"`
	Town            string     `json:"town" validate:"max=200"`
	PropertyType    string     `json:"propertyType" validate:"max=200"`
	PropertySizeSqm *int       `json:"propertySizeSqm" validate:"omitempty,gt=0"`
	Bedrooms        *int       `json:"bedrooms" validate:"omitempty,gte=0,lte=50"`
	JobType         string     `json:"jobType" validate:"omitempty,oneof=domestic commercial"`
	PreferredDate   *time.Time `json:"preferredDate"`
	PreferredTime   *string    `json:"preferredTime" validate:"omitempty,max=100"`
}

// SubmitQuoteRequest creates or revises the contractor's quote on a job.
type SubmitQuoteRequest struct {
	AmountCents int64  `json:"amountCents" validate:"required,gt=0"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// WithdrawRequest records a contractor declining an open job.
type WithdrawRequest struct {
	ReasonCode string `json:"reasonCode" validate:"required,oneof=too_far too_busy unsuitable price_mismatch other"`
}

// AcceptQuoteRequest is the homeowner's acceptance of a specific quote.
type AcceptQuoteRequest struct {
	QuoteID uuid.UUID `json:"quoteId" validate:"required"`
}

// ScheduleRequest books or changes the inspection visit date.
type ScheduleRequest struct {
	VisitDate time.Time `json:"visitDate" validate:"required"`
}

// CompleteRequest submits the completion certificate reference.
type CompleteRequest struct {
	CertificateRef string `json:"certificateRef" validate:"required,max=500"`
}

// JobResponse is the API representation of a job.
type JobResponse struct {
	ID                   uuid.UUID  `json:"id"`
	County               string     `json:"county"`
	Town                 string     `json:"town"`
	PropertyType         string     `json:"propertyType"`
	PropertySizeSqm      *int       `json:"propertySizeSqm,omitempty"`
	Bedrooms             *int       `json:"bedrooms,omitempty"`
	JobType              string     `json:"jobType"`
	PreferredDate        *time.Time `json:"preferredDate,omitempty"`
	PreferredTime        *string    `json:"preferredTime,omitempty"`
	Status               string     `json:"status"`
	Assignment           string     `json:"assignment"`
	AssignedContractorID *uuid.UUID `json:"assignedContractorId,omitempty"`
	ScheduledDate        *time.Time `json:"scheduledDate,omitempty"`
	CertificateRef       *string    `json:"certificateRef,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// QuoteResponse is the API representation of a quote.
type QuoteResponse struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"jobId"`
	ContractorID uuid.UUID `json:"contractorId"`
	AmountCents  int64     `json:"amountCents"`
	Notes        string    `json:"notes"`
	Status       string    `json:"status"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// QuoteStandingResponse is one contractor's position in a job's ranking.
type QuoteStandingResponse struct {
	QuoteID       uuid.UUID `json:"quoteId"`
	ContractorID  uuid.UUID `json:"contractorId"`
	AmountCents   int64     `json:"amountCents"`
	Status        string    `json:"status"`
	IsCompetitive bool      `json:"isCompetitive"`
}

// RankingResponse is the ranking of a job's active quotes. LowestCents is
// null when the job has no active quotes; that is "no ranking available",
// never zero.
type RankingResponse struct {
	JobID       uuid.UUID               `json:"jobId"`
	LowestCents *int64                  `json:"lowestCents"`
	Quotes      []QuoteStandingResponse `json:"quotes"`
}

// SweepResponse reports one expiry sweep run.
type SweepResponse struct {
	ExpiredCount  int `json:"expiredCount"`
	RelistedCount int `json:"relistedCount"`
	FailedCount   int `json:"failedCount"`
}

// FromDomainJob maps a domain job onto its API representation. Homeowner
// contact details are deliberately not exposed to contractors here.
func FromDomainJob(job domain.Job) JobResponse {
	return JobResponse{
		ID:                   job.ID,
		County:               job.County,
		Town:                 job.Town,
		PropertyType:         job.PropertyType,
		PropertySizeSqm:      job.PropertySizeSqm,
		Bedrooms:             job.Bedrooms,
		JobType:              string(job.JobType),
		PreferredDate:        job.PreferredDate,
		PreferredTime:        job.PreferredTime,
		Status:               string(job.Status),
		Assignment:           string(domain.Assignment(job.Status)),
		AssignedContractorID: job.AssignedContractorID,
		ScheduledDate:        job.ScheduledDate,
		CertificateRef:       job.CertificateRef,
		CompletedAt:          job.CompletedAt,
		CreatedAt:            job.CreatedAt,
	}
}

// FromDomainJobs maps a slice of domain jobs.
func FromDomainJobs(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		out[i] = FromDomainJob(job)
	}
	return out
}

// FromDomainQuote maps a domain quote onto its API representation.
func FromDomainQuote(quote domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:           quote.ID,
		JobID:        quote.JobID,
		ContractorID: quote.ContractorID,
		AmountCents:  quote.AmountCents,
		Notes:        quote.Notes,
		Status:       string(quote.Status),
		Version:      quote.Version,
		CreatedAt:    quote.CreatedAt,
		UpdatedAt:    quote.UpdatedAt,
	}
}

// FromDomainRanking maps a domain ranking onto its API representation.
func FromDomainRanking(jobID uuid.UUID, ranking domain.Ranking) RankingResponse {
	resp := RankingResponse{JobID: jobID, Quotes: make([]QuoteStandingResponse, len(ranking.Standings))}
	if ranking.HasQuotes {
		lowest := ranking.LowestCents
		resp.LowestCents = &lowest
	}
	for i, s := range ranking.Standings {
		resp.Quotes[i] = QuoteStandingResponse{
			QuoteID:       s.QuoteID,
			ContractorID:  s.ContractorID,
			AmountCents:   s.AmountCents,
			Status:        string(s.Status),
			IsCompetitive: s.IsCompetitive,
		}
	}
	return resp
}
