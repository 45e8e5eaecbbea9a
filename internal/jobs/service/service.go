// Package service orchestrates the job/quote lifecycle: request intake, the
// eligible-jobs feed, quoting, acceptance, scheduling, completion, and the
// expiry sweep. Storage guards live in the repository; this layer validates
// input, applies the pure domain rules, and publishes events after commit.
package service

import (
	"context"
	"time"

	"berhub_backend/internal/events"
	"berhub_backend/internal/jobs/domain"
	"berhub_backend/internal/jobs/repository"
	"berhub_backend/internal/jobs/transport"
	"berhub_backend/platform/apperr"
	"berhub_backend/platform/logger"
	"berhub_backend/platform/phone"
	"berhub_backend/platform/validator"

	"github.com/google/uuid"
)

// PreferenceReader is the slice of the contractors module the lifecycle
// engine needs: read-only access to eligibility preferences.
type PreferenceReader interface {
	GetPreference(ctx context.Context, contractorID uuid.UUID) (domain.ContractorPreference, error)
}

// Service implements the lifecycle engine's use cases.
type Service struct {
	store    repository.Store
	prefs    PreferenceReader
	bus      events.Bus
	log      *logger.Logger
	validate *validator.Validator
	classify domain.Classifier
	now      func() time.Time
}

// New creates the lifecycle service.
func New(store repository.Store, prefs PreferenceReader, bus events.Bus, log *logger.Logger, validate *validator.Validator) *Service {
	return &Service{
		store:    store,
		prefs:    prefs,
		bus:      bus,
		log:      log,
		validate: validate,
		classify: domain.ClassifyByKeywords,
		now:      time.Now,
	}
}

// CreateJob registers a homeowner's assessment request. New jobs enter the
// pool as live and are immediately visible to eligible contractors.
func (s *Service) CreateJob(ctx context.Context, req transport.CreateJobRequest) (domain.Job, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Job{}, apperr.Validation(err.Error())
	}

	jobType := domain.JobType(req.JobType)
	if jobType == "" {
		jobType = domain.JobTypeDomestic
	}

	now := s.now()
	job := domain.Job{
		ID:              uuid.New(),
		HomeownerName:   req.HomeownerName,
		HomeownerEmail:  req.HomeownerEmail,
		HomeownerPhone:  phone.Normalize(req.HomeownerPhone),
		County:          req.County,
		Town:            req.Town,
		PropertyType:    req.PropertyType,
		PropertySizeSqm: req.PropertySizeSqm,
		Bedrooms:        req.Bedrooms,
		JobType:         jobType,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		Status:          domain.JobStatusLive,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateJob(ctx, &job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// GetJob fetches a single job.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return s.store.GetJob(ctx, id)
}

// ListEligibleJobs returns the open jobs this contractor may quote, filtered
// by county, specialty, prior quotes, and withdrawals. The filter is
// recomputed from current state on every call.
func (s *Service) ListEligibleJobs(ctx context.Context, contractorID uuid.UUID) ([]domain.Job, error) {
	prefs, err := s.prefs.GetPreference(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	open, err := s.store.ListOpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	quoted, err := s.store.ListActiveQuoteJobIDs(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.store.ListWithdrawnJobIDs(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	return domain.EligibleJobs(domain.EligibilityInput{
		Prefs:             prefs,
		OpenJobs:          open,
		ActiveQuoteJobIDs: toIDSet(quoted),
		WithdrawnJobIDs:   toIDSet(withdrawn),
		Classify:          s.classify,
	}), nil
}

// SubmitQuote places the contractor's quote on a job: a first submission
// creates a pending quote, a later one revises the existing active quote.
// Revising an accepted quote resets it to pending.
func (s *Service) SubmitQuote(ctx context.Context, jobID, contractorID uuid.UUID, req transport.SubmitQuoteRequest) (domain.Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Quote{}, apperr.Validation(err.Error())
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return domain.Quote{}, err
	}
	if !job.Status.AcceptsQuotes() {
		return domain.Quote{}, apperr.Conflict("job is no longer accepting quotes")
	}

	existing, found, err := s.store.GetActiveQuote(ctx, jobID, contractorID)
	if err != nil {
		return domain.Quote{}, err
	}

	if found {
		revised, err := s.store.ReviseQuote(ctx, existing.ID, existing.Version, req.AmountCents, req.Notes)
		if err != nil {
			return domain.Quote{}, err
		}
		s.bus.Publish(ctx, events.QuoteRevised{
			BaseEvent:      events.NewBaseEvent(),
			JobID:          jobID,
			QuoteID:        revised.ID,
			ContractorID:   contractorID,
			HomeownerEmail: job.HomeownerEmail,
			County:         job.County,
			Town:           job.Town,
			AmountCents:    revised.AmountCents,
		})
		return revised, nil
	}

	now := s.now()
	quote := domain.Quote{
		ID:           uuid.New(),
		JobID:        jobID,
		ContractorID: contractorID,
		AmountCents:  req.AmountCents,
		Notes:        req.Notes,
		Status:       domain.QuoteStatusPending,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateQuote(ctx, &quote); err != nil {
		return domain.Quote{}, err
	}

	s.bus.Publish(ctx, events.QuoteSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          jobID,
		QuoteID:        quote.ID,
		ContractorID:   contractorID,
		HomeownerEmail: job.HomeownerEmail,
		County:         job.County,
		Town:           job.Town,
		AmountCents:    quote.AmountCents,
	})
	return quote, nil
}

// Withdraw records the contractor declining an open job. The job itself is
// untouched; the record only suppresses the job from this contractor's feed.
// Withdrawing twice is a no-op on the stored reason's first-write semantics.
func (s *Service) Withdraw(ctx context.Context, jobID, contractorID uuid.UUID, req transport.WithdrawRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.Status.AcceptsQuotes() {
		return apperr.Conflict("job is no longer open for quoting")
	}

	return s.store.RecordWithdrawal(ctx, &domain.Withdrawal{
		ID:           uuid.New(),
		JobID:        jobID,
		ContractorID: contractorID,
		ReasonCode:   req.ReasonCode,
		CreatedAt:    s.now(),
	})
}

// AcceptQuote applies the homeowner's choice: the chosen quote wins, every
// other active quote on the job is rejected, and the job is assigned to the
// winning contractor, all atomically. Accepting the same quote again is a
// no-op and publishes nothing.
func (s *Service) AcceptQuote(ctx context.Context, jobID, quoteID uuid.UUID) (repository.AcceptResult, error) {
	res, err := s.store.AcceptQuote(ctx, jobID, quoteID)
	if err != nil {
		return repository.AcceptResult{}, err
	}
	if res.AlreadyAccepted {
		return res, nil
	}

	s.bus.Publish(ctx, events.QuoteAccepted{
		BaseEvent:    events.NewBaseEvent(),
		JobID:        jobID,
		QuoteID:      res.AcceptedQuote.ID,
		ContractorID: res.AcceptedQuote.ContractorID,
		County:       res.Job.County,
		Town:         res.Job.Town,
		AmountCents:  res.AcceptedQuote.AmountCents,
	})
	for _, rejected := range res.RejectedQuotes {
		s.bus.Publish(ctx, events.QuoteRejected{
			BaseEvent:    events.NewBaseEvent(),
			JobID:        jobID,
			QuoteID:      rejected.ID,
			ContractorID: rejected.ContractorID,
			County:       res.Job.County,
			Town:         res.Job.Town,
		})
	}
	return res, nil
}

// Schedule books or changes the visit date for a job assigned to this
// contractor. Re-submitting the identical date is a no-op and publishes
// nothing.
func (s *Service) Schedule(ctx context.Context, jobID, contractorID uuid.UUID, req transport.ScheduleRequest) (domain.Job, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Job{}, apperr.Validation(err.Error())
	}

	job, outcome, err := s.store.ScheduleJob(ctx, jobID, contractorID, req.VisitDate)
	if err != nil {
		return domain.Job{}, err
	}

	switch outcome {
	case repository.ScheduledFirst:
		s.bus.Publish(ctx, events.JobScheduled{
			BaseEvent:      events.NewBaseEvent(),
			JobID:          jobID,
			ContractorID:   contractorID,
			HomeownerEmail: job.HomeownerEmail,
			VisitDate:      req.VisitDate,
		})
	case repository.Rescheduled:
		s.bus.Publish(ctx, events.JobRescheduled{
			BaseEvent:      events.NewBaseEvent(),
			JobID:          jobID,
			ContractorID:   contractorID,
			HomeownerEmail: job.HomeownerEmail,
			VisitDate:      req.VisitDate,
		})
	}
	return job, nil
}

// Complete records the certificate for a scheduled job. Retrying with the
// identical certificate is a no-op and publishes nothing.
func (s *Service) Complete(ctx context.Context, jobID, contractorID uuid.UUID, req transport.CompleteRequest) (domain.Job, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Job{}, apperr.Validation(err.Error())
	}

	job, alreadyCompleted, err := s.store.CompleteJob(ctx, jobID, contractorID, req.CertificateRef)
	if err != nil {
		return domain.Job{}, err
	}
	if alreadyCompleted {
		return job, nil
	}

	s.bus.Publish(ctx, events.JobCompleted{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          jobID,
		ContractorID:   contractorID,
		HomeownerEmail: job.HomeownerEmail,
		CertificateRef: req.CertificateRef,
	})
	return job, nil
}

// RankQuotes computes the price ranking over a job's active quotes.
func (s *Service) RankQuotes(ctx context.Context, jobID uuid.UUID) (domain.Ranking, error) {
	if _, err := s.store.GetJob(ctx, jobID); err != nil {
		return domain.Ranking{}, err
	}
	quotes, err := s.store.ListQuotesForJob(ctx, jobID)
	if err != nil {
		return domain.Ranking{}, err
	}
	return domain.Rank(quotes), nil
}

// ListQuotesForJob returns every quote on a job, for the homeowner's view.
func (s *Service) ListQuotesForJob(ctx context.Context, jobID uuid.UUID) ([]domain.Quote, error) {
	if _, err := s.store.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.ListQuotesForJob(ctx, jobID)
}

func toIDSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
