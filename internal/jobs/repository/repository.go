// Package repository provides database access for jobs, quotes, and
// withdrawals. All multi-row lifecycle effects run as single transactions so
// readers never observe a half-applied transition.
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
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobNotFoundMsg = "job not found"

const jobColumns = `
	id, homeowner_name, homeowner_email, homeowner_phone, county, town,
	property_type, property_size_sqm, bedrooms, job_type,
	preferred_date, preferred_time, status, assigned_contractor_id,
	scheduled_date, certificate_ref, completed_at, version, created_at, updated_at`

// Repository provides database operations for the lifecycle engine.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new lifecycle repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateJob inserts a new job in an open entry state.
func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			id, homeowner_name, homeowner_email, homeowner_phone, county, town,
			property_type, property_size_sqm, bedrooms, job_type,
			preferred_date, preferred_time, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.HomeownerName, job.HomeownerEmail, job.HomeownerPhone,
		job.County, job.Town, job.PropertyType, job.PropertySizeSqm, job.Bedrooms,
		job.JobType, job.PreferredDate, job.PreferredTime, job.Status,
		job.Version, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetJob fetches a single job by ID.
func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListOpenJobs returns every job still accepting quotes, oldest first.
func (r *Repository) ListOpenJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+jobColumns+` FROM jobs
		 WHERE status IN ('live', 'submitted', 'pending_quote')
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ScheduleOutcome describes what a ScheduleJob call actually did.
type ScheduleOutcome int

const (
	// ScheduleUnchanged means the identical date was already booked; the
	// retry was an idempotent no-op.
	ScheduleUnchanged ScheduleOutcome = iota
	// ScheduledFirst means a first visit date was booked.
	ScheduledFirst
	// Rescheduled means an existing, different visit date was replaced.
	Rescheduled
)

// ScheduleJob sets or changes the visit date for a job assigned to the given
// contractor. Re-applying an identical date is a no-op.
func (r *Repository) ScheduleJob(ctx context.Context, jobID, contractorID uuid.UUID, date time.Time) (domain.Job, ScheduleOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Job{}, ScheduleUnchanged, fmt.Errorf("begin schedule tx: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return domain.Job{}, ScheduleUnchanged, err
	}

	if job.AssignedContractorID == nil || *job.AssignedContractorID != contractorID {
		return domain.Job{}, ScheduleUnchanged, apperr.Forbidden("job is not assigned to this contractor")
	}
	if job.Status != domain.JobStatusQuoteAccepted && job.Status != domain.JobStatusScheduled {
		return domain.Job{}, ScheduleUnchanged, apperr.Conflict("job cannot be scheduled in status " + string(job.Status))
	}

	// Idempotent retry: same date, nothing to do.
	if job.ScheduledDate != nil && job.ScheduledDate.Equal(date) {
		return job, ScheduleUnchanged, nil
	}
	outcome := ScheduledFirst
	if job.ScheduledDate != nil {
		outcome = Rescheduled
	}

	row := tx.QueryRow(ctx,
		`UPDATE jobs
		 SET status = 'scheduled', scheduled_date = $2, version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING`+jobColumns,
		jobID, date)
	updated, err := scanJob(row)
	if err != nil {
		return domain.Job{}, ScheduleUnchanged, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Job{}, ScheduleUnchanged, fmt.Errorf("commit schedule tx: %w", err)
	}
	return updated, outcome, nil
}

// CompleteJob records the completion certificate for a scheduled job. The
// returned bool is true when the job was already completed with the same
// certificate and nothing was written.
func (r *Repository) CompleteJob(ctx context.Context, jobID, contractorID uuid.UUID, certificateRef string) (domain.Job, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Job{}, false, fmt.Errorf("begin complete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := lockJob(ctx, tx, jobID)
	if err != nil {
		return domain.Job{}, false, err
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

	row := tx.QueryRow(ctx,
		`UPDATE jobs
		 SET status = 'completed', certificate_ref = $2, completed_at = now(),
		     version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING`+jobColumns,
		jobID, certificateRef)
	updated, err := scanJob(row)
	if err != nil {
		return domain.Job{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Job{}, false, fmt.Errorf("commit complete tx: %w", err)
	}
	return updated, false, nil
}

func lockJob(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) (domain.Job, error) {
	row := tx.QueryRow(ctx, `SELECT`+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, jobID)
	return scanJob(row)
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var job domain.Job
	var status, jobType string
	err := row.Scan(
		&job.ID, &job.HomeownerName, &job.HomeownerEmail, &job.HomeownerPhone,
		&job.County, &job.Town, &job.PropertyType, &job.PropertySizeSqm,
		&job.Bedrooms, &jobType, &job.PreferredDate, &job.PreferredTime,
		&status, &job.AssignedContractorID, &job.ScheduledDate,
		&job.CertificateRef, &job.CompletedAt, &job.Version,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, apperr.NotFound(jobNotFoundMsg)
		}
		return domain.Job{}, fmt.Errorf("scan job: %w", err)
	}
	job.Status = domain.JobStatus(status)
	job.JobType = domain.JobType(jobType)
	return job, nil
}
