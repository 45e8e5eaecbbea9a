package repository

import (
	"context"
	"time"

	"berhub_backend/internal/jobs/domain"

	"github.com/google/uuid"
)

// Store is the storage contract the jobs service depends on. *Repository is
// the Postgres implementation; tests substitute an in-memory fake.
type Store interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error)
	ListOpenJobs(ctx context.Context) ([]domain.Job, error)
	ScheduleJob(ctx context.Context, jobID, contractorID uuid.UUID, date time.Time) (domain.Job, ScheduleOutcome, error)
	CompleteJob(ctx context.Context, jobID, contractorID uuid.UUID, certificateRef string) (domain.Job, bool, error)

	GetQuote(ctx context.Context, id uuid.UUID) (domain.Quote, error)
	GetActiveQuote(ctx context.Context, jobID, contractorID uuid.UUID) (domain.Quote, bool, error)
	ListQuotesForJob(ctx context.Context, jobID uuid.UUID) ([]domain.Quote, error)
	ListActiveQuoteJobIDs(ctx context.Context, contractorID uuid.UUID) ([]uuid.UUID, error)
	CreateQuote(ctx context.Context, quote *domain.Quote) error
	ReviseQuote(ctx context.Context, quoteID uuid.UUID, version int64, amountCents int64, notes string) (domain.Quote, error)
	AcceptQuote(ctx context.Context, jobID, quoteID uuid.UUID) (AcceptResult, error)
	ListStalePendingQuotes(ctx context.Context, cutoff time.Time, limit int) ([]domain.Quote, error)
	ExpireQuote(ctx context.Context, quoteID uuid.UUID, cutoff time.Time) (ExpireResult, error)

	RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error
	ListWithdrawnJobIDs(ctx context.Context, contractorID uuid.UUID) ([]uuid.UUID, error)
}

// Compile-time check that the Postgres repository satisfies the contract.
var _ Store = (*Repository)(nil)
