package repository

import (
	"context"
	"fmt"

	"berhub_backend/internal/jobs/domain"

	"github.com/google/uuid"
)

// RecordWithdrawal stores the audit fact that a contractor declined an open
// job. Repeating the same withdrawal just refreshes the reason code; the job
// itself is never touched.
func (r *Repository) RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO job_withdrawals (id, job_id, contractor_id, reason_code, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (job_id, contractor_id)
		 DO UPDATE SET reason_code = EXCLUDED.reason_code`,
		w.ID, w.JobID, w.ContractorID, w.ReasonCode, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record withdrawal: %w", err)
	}
	return nil
}

// ListWithdrawnJobIDs returns the jobs this contractor has declined.
func (r *Repository) ListWithdrawnJobIDs(ctx context.Context, contractorID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id FROM job_withdrawals WHERE contractor_id = $1`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
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
