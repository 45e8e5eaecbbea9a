package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"berhub_backend/internal/jobs/domain"
	"berhub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const quoteNotFoundMsg = "quote not found"

const quoteColumns = `
	id, job_id, contractor_id, amount_cents, notes, status, version, created_at, updated_at`

// AcceptResult is the outcome of an accept transaction.
type AcceptResult struct {
	Job            domain.Job
	AcceptedQuote  domain.Quote
	RejectedQuotes []domain.Quote
	// AlreadyAccepted is true when the accept was an idempotent retry and
	// nothing was written.
	AlreadyAccepted bool
}

// ExpireResult is the outcome of expiring one stale quote.
type ExpireResult struct {
	Quote domain.Quote
	Job   domain.Job
	// Relisted is true when the job lost its last active quote and was
	// reverted to live.
	Relisted bool
	// Skipped is true when the quote was no longer pending or not yet past
	// the threshold at transaction time; nothing was written.
	Skipped bool
}

// GetQuote fetches a single quote by ID.
func (r *Repository) GetQuote(ctx context.Context, id uuid.UUID) (domain.Quote, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+quoteColumns+` FROM quotes WHERE id = $1`, id)
	return scanQuote(row)
}

// GetActiveQuote returns the contractor's non-rejected quote on a job, if any.
// The partial unique index guarantees at most one exists.
func (r *Repository) GetActiveQuote(ctx context.Context, jobID, contractorID uuid.UUID) (domain.Quote, bool, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT`+quoteColumns+` FROM quotes
		 WHERE job_id = $1 AND contractor_id = $2 AND status <> 'rejected'`,
		jobID, contractorID)
	quote, err := scanQuote(row)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return domain.Quote{}, false, nil
		}
		return domain.Quote{}, false, err
	}
	return quote, true, nil
}

// ListQuotesForJob returns all quotes on a job, newest first.
func (r *Repository) ListQuotesForJob(ctx context.Context, jobID uuid.UUID) ([]domain.Quote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+quoteColumns+` FROM quotes WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	return collectQuotes(rows)
}

// ListActiveQuoteJobIDs returns the jobs on which the contractor currently
// holds a non-rejected quote.
func (r *Repository) ListActiveQuoteJobIDs(ctx context.Context, contractorID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id FROM quotes WHERE contractor_id = $1 AND status <> 'rejected'`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list active quote jobs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateQuote inserts a first quote from this contractor on an open job and
// moves the job to pending_quote, as one transaction. The job-status guard is
// re-checked under lock so a concurrent accept cannot interleave.
func (r *Repository) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create quote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := lockJob(ctx, tx, quote.JobID)
	if err != nil {
		return err
	}
	if !job.Status.AcceptsQuotes() {
		return apperr.Conflict("job is no longer accepting quotes")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO quotes (id, job_id, contractor_id, amount_cents, notes, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		quote.ID, quote.JobID, quote.ContractorID, quote.AmountCents,
		quote.Notes, quote.Status, quote.Version, quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The contractor already has an active quote; the caller should
			// have revised it. Surface as a stale view rather than a 500.
			return apperr.Stale("an active quote already exists for this job")
		}
		return fmt.Errorf("insert quote: %w", err)
	}

	if job.Status != domain.JobStatusPendingQuote {
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET status = 'pending_quote', version = version + 1, updated_at = now() WHERE id = $1`,
			quote.JobID,
		); err != nil {
			return fmt.Errorf("mark job pending_quote: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ReviseQuote updates price/notes on an existing active quote and resets it
// to pending. The version check makes the update conditional: a lost race
// surfaces as KindStale so the caller can refresh and retry.
func (r *Repository) ReviseQuote(ctx context.Context, quoteID uuid.UUID, version int64, amountCents int64, notes string) (domain.Quote, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE quotes
		 SET amount_cents = $3, notes = $4, status = 'pending', version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $2 AND status <> 'rejected'
		 RETURNING`+quoteColumns,
		quoteID, version, amountCents, notes)

	quote, err := scanQuote(row)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			// Distinguish "gone" from "changed under you".
			if _, getErr := r.GetQuote(ctx, quoteID); getErr == nil {
				return domain.Quote{}, apperr.Stale("quote was modified concurrently")
			}
			return domain.Quote{}, apperr.NotFound(quoteNotFoundMsg)
		}
		return domain.Quote{}, err
	}
	return quote, nil
}

// AcceptQuote applies the homeowner's acceptance as one atomic unit: the
// chosen quote becomes accepted, every other quote on the job becomes
// rejected, and the job is assigned to the winning contractor. Accepting an
// already-accepted quote again is an idempotent no-op.
func (r *Repository) AcceptQuote(ctx context.Context, jobID, quoteID uuid.UUID) (AcceptResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return AcceptResult{}, fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return AcceptResult{}, err
	}

	row := tx.QueryRow(ctx,
		`SELECT`+quoteColumns+` FROM quotes WHERE id = $1 AND job_id = $2 FOR UPDATE`,
		quoteID, jobID)
	quote, err := scanQuote(row)
	if err != nil {
		return AcceptResult{}, err
	}

	// Idempotent retry: this quote already won.
	if quote.Status == domain.QuoteStatusAccepted &&
		job.AssignedContractorID != nil && *job.AssignedContractorID == quote.ContractorID {
		return AcceptResult{Job: job, AcceptedQuote: quote, AlreadyAccepted: true}, nil
	}

	if quote.Status != domain.QuoteStatusPending {
		return AcceptResult{}, apperr.Conflict("quote is no longer pending")
	}
	if job.Status != domain.JobStatusPendingQuote {
		return AcceptResult{}, apperr.Conflict("job is not awaiting quote acceptance")
	}

	acceptedRow := tx.QueryRow(ctx,
		`UPDATE quotes SET status = 'accepted', version = version + 1, updated_at = now()
		 WHERE id = $1 RETURNING`+quoteColumns,
		quoteID)
	accepted, err := scanQuote(acceptedRow)
	if err != nil {
		return AcceptResult{}, err
	}

	rejectedRows, err := tx.Query(ctx,
		`UPDATE quotes SET status = 'rejected', version = version + 1, updated_at = now()
		 WHERE job_id = $1 AND id <> $2 AND status = 'pending'
		 RETURNING`+quoteColumns,
		jobID, quoteID)
	if err != nil {
		return AcceptResult{}, fmt.Errorf("reject sibling quotes: %w", err)
	}
	rejected, err := collectQuotes(rejectedRows)
	if err != nil {
		return AcceptResult{}, err
	}

	jobRow := tx.QueryRow(ctx,
		`UPDATE jobs
		 SET status = 'quote_accepted', assigned_contractor_id = $2, version = version + 1, updated_at = now()
		 WHERE id = $1 RETURNING`+jobColumns,
		jobID, accepted.ContractorID)
	updatedJob, err := scanJob(jobRow)
	if err != nil {
		return AcceptResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return AcceptResult{}, fmt.Errorf("commit accept tx: %w", err)
	}

	return AcceptResult{Job: updatedJob, AcceptedQuote: accepted, RejectedQuotes: rejected}, nil
}

// ListStalePendingQuotes returns pending quotes created at or before the
// cutoff, oldest first, capped at limit. The sweeper re-checks each quote
// under lock before expiring it.
func (r *Repository) ListStalePendingQuotes(ctx context.Context, cutoff time.Time, limit int) ([]domain.Quote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+quoteColumns+` FROM quotes
		 WHERE status = 'pending' AND created_at <= $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale quotes: %w", err)
	}
	defer rows.Close()
	return collectQuotes(rows)
}

// ExpireQuote expires one stale pending quote and relists the job when no
// active quote remains, as one transaction. A quote that was accepted or
// revised between listing and locking is skipped without side effects.
// Locks the job row before the quote row, in the same order as CreateQuote
// and AcceptQuote.
func (r *Repository) ExpireQuote(ctx context.Context, quoteID uuid.UUID, cutoff time.Time) (ExpireResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ExpireResult{}, fmt.Errorf("begin expire tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var jobID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT job_id FROM quotes WHERE id = $1`, quoteID).Scan(&jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExpireResult{}, apperr.NotFound(quoteNotFoundMsg)
		}
		return ExpireResult{}, fmt.Errorf("resolve quote job: %w", err)
	}

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return ExpireResult{}, err
	}

	row := tx.QueryRow(ctx, `SELECT`+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, quoteID)
	quote, err := scanQuote(row)
	if err != nil {
		return ExpireResult{}, err
	}

	// Re-check under lock: an accept or revision may have won the race.
	if quote.Status != domain.QuoteStatusPending || quote.CreatedAt.After(cutoff) {
		return ExpireResult{Quote: quote, Skipped: true}, nil
	}

	expiredRow := tx.QueryRow(ctx,
		`UPDATE quotes SET status = 'rejected', version = version + 1, updated_at = now()
		 WHERE id = $1 RETURNING`+quoteColumns,
		quoteID)
	expired, err := scanQuote(expiredRow)
	if err != nil {
		return ExpireResult{}, err
	}

	var remaining int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM quotes WHERE job_id = $1 AND status <> 'rejected'`,
		quote.JobID,
	).Scan(&remaining); err != nil {
		return ExpireResult{}, fmt.Errorf("count active quotes: %w", err)
	}

	relisted := false
	if remaining == 0 && job.Status == domain.JobStatusPendingQuote {
		jobRow := tx.QueryRow(ctx,
			`UPDATE jobs SET status = 'live', version = version + 1, updated_at = now()
			 WHERE id = $1 RETURNING`+jobColumns,
			quote.JobID)
		job, err = scanJob(jobRow)
		if err != nil {
			return ExpireResult{}, err
		}
		relisted = true
	}

	if err := tx.Commit(ctx); err != nil {
		return ExpireResult{}, fmt.Errorf("commit expire tx: %w", err)
	}

	return ExpireResult{Quote: expired, Job: job, Relisted: relisted}, nil
}

func collectQuotes(rows pgx.Rows) ([]domain.Quote, error) {
	defer rows.Close()
	var quotes []domain.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func scanQuote(row pgx.Row) (domain.Quote, error) {
	var quote domain.Quote
	var status string
	err := row.Scan(
		&quote.ID, &quote.JobID, &quote.ContractorID, &quote.AmountCents,
		&quote.Notes, &status, &quote.Version, &quote.CreatedAt, &quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quote{}, apperr.NotFound(quoteNotFoundMsg)
		}
		return domain.Quote{}, fmt.Errorf("scan quote: %w", err)
	}
	quote.Status = domain.QuoteStatus(status)
	return quote, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
