package service

import (
	"context"
	"time"

	"berhub_backend/internal/events"
)

// SweepReport summarizes one expiry sweep run.
type SweepReport struct {
	Expired  int
	Relisted int
	Failed   int
}

// RunExpirySweep expires pending quotes older than the threshold and relists
// jobs whose last active quote went away. Each quote is expired in its own
// transaction so one failure never blocks the rest of the batch.
func (s *Service) RunExpirySweep(ctx context.Context, threshold time.Duration, batchSize int) (SweepReport, error) {
	cutoff := s.now().Add(-threshold)

	stale, err := s.store.ListStalePendingQuotes(ctx, cutoff, batchSize)
	if err != nil {
		return SweepReport{}, err
	}

	var report SweepReport
	for _, quote := range stale {
		res, err := s.store.ExpireQuote(ctx, quote.ID, cutoff)
		if err != nil {
			report.Failed++
			s.log.Error("expire quote failed", "quote_id", quote.ID, "job_id", quote.JobID, "error", err)
			continue
		}
		if res.Skipped {
			continue
		}

		report.Expired++
		if res.Relisted {
			report.Relisted++
		}
		s.bus.Publish(ctx, events.QuoteExpired{
			BaseEvent:    events.NewBaseEvent(),
			JobID:        quote.JobID,
			QuoteID:      quote.ID,
			ContractorID: quote.ContractorID,
			County:       res.Job.County,
			Town:         res.Job.Town,
			Relisted:     res.Relisted,
		})
	}

	s.log.SweepResult(report.Expired, report.Relisted, report.Failed)
	return report, nil
}
