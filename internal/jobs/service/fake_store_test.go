package service

import (
	"context"
	"sync"
	"time"

	"berhub_backend/internal/jobs/domain"
	"berhub_backend/internal/jobs/repository"
	"berhub_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory repository.Store implementation for service
// tests. It mirrors the Postgres repository's guard and idempotency
// semantics, minus the real locking.
type fakeStore struct {
	mu          sync.Mutex
	jobs        map[uuid.UUID]domain.Job
	quotes      map[uuid.UUID]domain.Quote
	withdrawals map[uuid.UUID][]domain.Withdrawal

	failExpire map[uuid.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:        make(map[uuid.UUID]domain.Job),
		quotes:      make(map[uuid.UUID]domain.Quote),
		withdrawals: make(map[uuid.UUID][]domain.Withdrawal),
		failExpire:  make(map[uuid.UUID]error),
	}
}

func (f *fakeStore) CreateJob(_ context.Context, job *domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return domain.Job{}, apperr.NotFound("job not found")
	}
	return job, nil
}

func (f *fakeStore) ListOpenJobs(_ context.Context) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var open []domain.Job
	for _, job := range f.jobs {
		if job.Status.AcceptsQuotes() {
			open = append(open, job)
		}
	}
	return open, nil
}

func (f *fakeStore) ScheduleJob(_ context.Context, jobID, contractorID uuid.UUID, date time.Time) (domain.Job, repository.ScheduleOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok {
		return domain.Job{}, repository.ScheduleUnchanged, apperr.NotFound("job not found")
	}
	if job.AssignedContractorID == nil || *job.AssignedContractorID != contractorID {
		return domain.Job{}, repository.ScheduleUnchanged, apperr.Forbidden("job is not assigned to this contractor")
	}
	if job.Status != domain.JobStatusQuoteAccepted && job.Status != domain.JobStatusScheduled {
		return domain.Job{}, repository.ScheduleUnchanged, apperr.Conflict("job cannot be scheduled in status " + string(job.Status))
	}
	if job.ScheduledDate != nil && job.ScheduledDate.Equal(date) {
		return job, repository.ScheduleUnchanged, nil
	}

	outcome := repository.ScheduledFirst
	if job.ScheduledDate != nil {
		outcome = repository.Rescheduled
	}
	job.Status = domain.JobStatusScheduled
	job.ScheduledDate = &date
	job.Version++
	f.jobs[jobID] = job
	return job, outcome, nil
}

func (f *fakeStore) CompleteJob(_ context.Context, jobID, contractorID uuid.UUID, certificateRef string) (domain.Job, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok {
		return domain.Job{}, false, apperr.NotFound("job not found")
	}
	if job.AssignedContractorID == nil || *job.AssignedContractorID != contractorID {
		return domain.Job{}, false, apperr.Forbidden("job is not assigned to this contractor")
	}
	if job.Status == domain.JobStatusCompleted {
		if job.CertificateRef != nil && *job.CertificateRef == certificateRef {
			return job, true, nil
		}
		return domain.Job{}, false, apperr.Conflict("job already completed with a different certificate")
	}
	if job.Status != domain.JobStatusScheduled {
		return domain.Job{}, false, apperr.Conflict("job cannot be completed in status " + string(job.Status))
	}

	now := time.Now()
	job.Status = domain.JobStatusCompleted
	job.CertificateRef = &certificateRef
	job.CompletedAt = &now
	job.Version++
	f.jobs[jobID] = job
	return job, false, nil
}

func (f *fakeStore) GetQuote(_ context.Context, id uuid.UUID) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quote, ok := f.quotes[id]
	if !ok {
		return domain.Quote{}, apperr.NotFound("quote not found")
	}
	return quote, nil
}

func (f *fakeStore) GetActiveQuote(_ context.Context, jobID, contractorID uuid.UUID) (domain.Quote, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, quote := range f.quotes {
		if quote.JobID == jobID && quote.ContractorID == contractorID && quote.Status != domain.QuoteStatusRejected {
			return quote, true, nil
		}
	}
	return domain.Quote{}, false, nil
}

func (f *fakeStore) ListQuotesForJob(_ context.Context, jobID uuid.UUID) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var quotes []domain.Quote
	for _, quote := range f.quotes {
		if quote.JobID == jobID {
			quotes = append(quotes, quote)
		}
	}
	return quotes, nil
}

func (f *fakeStore) ListActiveQuoteJobIDs(_ context.Context, contractorID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for _, quote := range f.quotes {
		if quote.ContractorID == contractorID && quote.Status != domain.QuoteStatusRejected {
			ids = append(ids, quote.JobID)
		}
	}
	return ids, nil
}

func (f *fakeStore) CreateQuote(_ context.Context, quote *domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[quote.JobID]
	if !ok {
		return apperr.NotFound("job not found")
	}
	if !job.Status.AcceptsQuotes() {
		return apperr.Conflict("job is no longer accepting quotes")
	}
	for _, existing := range f.quotes {
		if existing.JobID == quote.JobID && existing.ContractorID == quote.ContractorID && existing.Status != domain.QuoteStatusRejected {
			return apperr.Stale("an active quote already exists for this job")
		}
	}

	f.quotes[quote.ID] = *quote
	if job.Status != domain.JobStatusPendingQuote {
		job.Status = domain.JobStatusPendingQuote
		job.Version++
		f.jobs[job.ID] = job
	}
	return nil
}

func (f *fakeStore) ReviseQuote(_ context.Context, quoteID uuid.UUID, version int64, amountCents int64, notes string) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	quote, ok := f.quotes[quoteID]
	if !ok {
		return domain.Quote{}, apperr.NotFound("quote not found")
	}
	if quote.Version != version || quote.Status == domain.QuoteStatusRejected {
		return domain.Quote{}, apperr.Stale("quote was modified concurrently")
	}

	quote.AmountCents = amountCents
	quote.Notes = notes
	quote.Status = domain.QuoteStatusPending
	quote.Version++
	quote.UpdatedAt = time.Now()
	f.quotes[quoteID] = quote
	return quote, nil
}

func (f *fakeStore) AcceptQuote(_ context.Context, jobID, quoteID uuid.UUID) (repository.AcceptResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok {
		return repository.AcceptResult{}, apperr.NotFound("job not found")
	}
	quote, ok := f.quotes[quoteID]
	if !ok || quote.JobID != jobID {
		return repository.AcceptResult{}, apperr.NotFound("quote not found")
	}

	if quote.Status == domain.QuoteStatusAccepted &&
		job.AssignedContractorID != nil && *job.AssignedContractorID == quote.ContractorID {
		return repository.AcceptResult{Job: job, AcceptedQuote: quote, AlreadyAccepted: true}, nil
	}
	if quote.Status != domain.QuoteStatusPending {
		return repository.AcceptResult{}, apperr.Conflict("quote is no longer pending")
	}
	if job.Status != domain.JobStatusPendingQuote {
		return repository.AcceptResult{}, apperr.Conflict("job is not awaiting quote acceptance")
	}

	quote.Status = domain.QuoteStatusAccepted
	quote.Version++
	f.quotes[quoteID] = quote

	var rejected []domain.Quote
	for id, sibling := range f.quotes {
		if sibling.JobID == jobID && id != quoteID && sibling.Status == domain.QuoteStatusPending {
			sibling.Status = domain.QuoteStatusRejected
			sibling.Version++
			f.quotes[id] = sibling
			rejected = append(rejected, sibling)
		}
	}

	contractorID := quote.ContractorID
	job.Status = domain.JobStatusQuoteAccepted
	job.AssignedContractorID = &contractorID
	job.Version++
	f.jobs[jobID] = job

	return repository.AcceptResult{Job: job, AcceptedQuote: quote, RejectedQuotes: rejected}, nil
}

func (f *fakeStore) ListStalePendingQuotes(_ context.Context, cutoff time.Time, limit int) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []domain.Quote
	for _, quote := range f.quotes {
		if quote.Status == domain.QuoteStatusPending && !quote.CreatedAt.After(cutoff) {
			stale = append(stale, quote)
			if len(stale) == limit {
				break
			}
		}
	}
	return stale, nil
}

func (f *fakeStore) ExpireQuote(_ context.Context, quoteID uuid.UUID, cutoff time.Time) (repository.ExpireResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failExpire[quoteID]; ok {
		return repository.ExpireResult{}, err
	}

	quote, ok := f.quotes[quoteID]
	if !ok {
		return repository.ExpireResult{}, apperr.NotFound("quote not found")
	}
	if quote.Status != domain.QuoteStatusPending || quote.CreatedAt.After(cutoff) {
		return repository.ExpireResult{Quote: quote, Skipped: true}, nil
	}

	quote.Status = domain.QuoteStatusRejected
	quote.Version++
	f.quotes[quoteID] = quote

	job := f.jobs[quote.JobID]
	remaining := 0
	for _, other := range f.quotes {
		if other.JobID == quote.JobID && other.Status != domain.QuoteStatusRejected {
			remaining++
		}
	}

	relisted := false
	if remaining == 0 && job.Status == domain.JobStatusPendingQuote {
		job.Status = domain.JobStatusLive
		job.Version++
		f.jobs[job.ID] = job
		relisted = true
	}

	return repository.ExpireResult{Quote: quote, Job: job, Relisted: relisted}, nil
}

func (f *fakeStore) RecordWithdrawal(_ context.Context, w *domain.Withdrawal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.withdrawals[w.ContractorID] {
		if existing.JobID == w.JobID {
			return nil
		}
	}
	f.withdrawals[w.ContractorID] = append(f.withdrawals[w.ContractorID], *w)
	return nil
}

func (f *fakeStore) ListWithdrawnJobIDs(_ context.Context, contractorID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for _, w := range f.withdrawals[contractorID] {
		ids = append(ids, w.JobID)
	}
	return ids, nil
}

var _ repository.Store = (*fakeStore)(nil)
