package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"berhub_backend/internal/events"
	"berhub_backend/internal/jobs/domain"
	"berhub_backend/internal/jobs/transport"
	"berhub_backend/platform/apperr"
	"berhub_backend/platform/logger"
	"berhub_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBus captures published events synchronously so tests can assert
// exactly which notifications a lifecycle transition produced.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventName()
	}
	return out
}

type fakePrefs struct {
	prefs map[uuid.UUID]domain.ContractorPreference
}

func (f *fakePrefs) GetPreference(_ context.Context, contractorID uuid.UUID) (domain.ContractorPreference, error) {
	if p, ok := f.prefs[contractorID]; ok {
		return p, nil
	}
	return domain.ContractorPreference{}, apperr.NotFound("contractor preferences not found")
}

type fixture struct {
	svc   *Service
	store *fakeStore
	bus   *recordingBus
	prefs *fakePrefs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	bus := &recordingBus{}
	prefs := &fakePrefs{prefs: make(map[uuid.UUID]domain.ContractorPreference)}
	svc := New(store, prefs, bus, logger.New("development"), validator.New())
	return &fixture{svc: svc, store: store, bus: bus, prefs: prefs}
}

func (f *fixture) seedJob(t *testing.T, status domain.JobStatus) domain.Job {
	t.Helper()
	now := time.Now()
	job := domain.Job{
		ID:             uuid.New(),
		HomeownerName:  "Mary Byrne",
		HomeownerEmail: "mary@example.ie",
		County:         "Dublin",
		Town:           "Swords",
		PropertyType:   "Semi-detached house",
		JobType:        domain.JobTypeDomestic,
		Status:         status,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.store.CreateJob(context.Background(), &job))
	return job
}

func (f *fixture) seedQuote(t *testing.T, jobID, contractorID uuid.UUID, amountCents int64, createdAt time.Time) domain.Quote {
	t.Helper()
	quote := domain.Quote{
		ID:           uuid.New(),
		JobID:        jobID,
		ContractorID: contractorID,
		AmountCents:  amountCents,
		Status:       domain.QuoteStatusPending,
		Version:      1,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, f.store.CreateQuote(context.Background(), &quote))
	return quote
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, transport.CreateJobRequest{
		HomeownerName:  "Mary Byrne",
		HomeownerEmail: "mary@example.ie",
		HomeownerPhone: "086 123 4567",
		County:         "Dublin",
		Town:           "Swords",
		PropertyType:   "Semi-detached house",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusLive, job.Status)
	assert.Equal(t, domain.JobTypeDomestic, job.JobType)
	assert.Equal(t, "+353861234567", job.HomeownerPhone)
	assert.Equal(t, int64(1), job.Version)
}

func TestCreateJobRejectsUnknownCounty(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateJob(context.Background(), transport.CreateJobRequest{
		HomeownerName:  "Mary Byrne",
		HomeownerEmail: "mary@example.ie",
		County:         "Yorkshire",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListEligibleJobsFiltersByPreferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()

	dublinJob := f.seedJob(t, domain.JobStatusLive)
	corkJob := f.seedJob(t, domain.JobStatusLive)
	corkJob.County = "Cork"
	f.store.jobs[corkJob.ID] = corkJob

	f.prefs.prefs[contractorID] = domain.ContractorPreference{
		ContractorID:    contractorID,
		ServiceCounties: []string{"dublin"},
		Specialty:       domain.SpecialtyBoth,
	}

	eligible, err := f.svc.ListEligibleJobs(ctx, contractorID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, dublinJob.ID, eligible[0].ID)
}

func TestListEligibleJobsExcludesQuotedAndWithdrawn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()

	quotedJob := f.seedJob(t, domain.JobStatusLive)
	withdrawnJob := f.seedJob(t, domain.JobStatusLive)
	freshJob := f.seedJob(t, domain.JobStatusLive)

	f.prefs.prefs[contractorID] = domain.ContractorPreference{
		ContractorID: contractorID,
		Specialty:    domain.SpecialtyBoth,
	}
	f.seedQuote(t, quotedJob.ID, contractorID, 20000, time.Now())
	require.NoError(t, f.svc.Withdraw(ctx, withdrawnJob.ID, contractorID, transport.WithdrawRequest{ReasonCode: "too_far"}))

	eligible, err := f.svc.ListEligibleJobs(ctx, contractorID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, freshJob.ID, eligible[0].ID)
}

func TestSubmitQuoteCreatesThenRevises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractorID := uuid.New()
	job := f.seedJob(t, domain.JobStatusLive)

	quote, err := f.svc.SubmitQuote(ctx, job.ID, contractorID, transport.SubmitQuoteRequest{AmountCents: 25000})
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusPending, quote.Status)

	stored, err := f.store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPendingQuote, stored.Status)

	revised, err := f.svc.SubmitQuote(ctx, job.ID, contractorID, transport.SubmitQuoteRequest{AmountCents: 22000, Notes: "can do next week"})
	require.NoError(t, err)
	assert.Equal(t, quote.ID, revised.ID, "revision updates the existing quote in place")
	assert.Equal(t, int64(22000), revised.AmountCents)
	assert.Equal(t, int64(2), revised.Version)

	assert.Equal(t, []string{events.EventQuoteSubmitted, events.EventQuoteRevised}, f.bus.names())
}

func TestSubmitQuoteRejectsClosedJob(t *testing.T) {
	f := newFixture(t)
	job := f.seedJob(t, domain.JobStatusCompleted)

	_, err := f.svc.SubmitQuote(context.Background(), job.ID, uuid.New(), transport.SubmitQuoteRequest{AmountCents: 25000})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Empty(t, f.bus.names())
}

func TestSubmitQuoteRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	job := f.seedJob(t, domain.JobStatusLive)

	_, err := f.svc.SubmitQuote(context.Background(), job.ID, uuid.New(), transport.SubmitQuoteRequest{AmountCents: 0})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAcceptQuoteAssignsJobAndRejectsSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	winner := uuid.New()
	loser := uuid.New()

	winning := f.seedQuote(t, job.ID, winner, 15000, time.Now())
	losing := f.seedQuote(t, job.ID, loser, 17000, time.Now())

	res, err := f.svc.AcceptQuote(ctx, job.ID, winning.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusQuoteAccepted, res.Job.Status)
	require.NotNil(t, res.Job.AssignedContractorID)
	assert.Equal(t, winner, *res.Job.AssignedContractorID)
	assert.Equal(t, domain.QuoteStatusAccepted, res.AcceptedQuote.Status)
	require.Len(t, res.RejectedQuotes, 1)
	assert.Equal(t, losing.ID, res.RejectedQuotes[0].ID)

	assert.Equal(t, []string{events.EventQuoteAccepted, events.EventQuoteRejected}, f.bus.names())
}

func TestAcceptQuoteIdempotentRetryPublishesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	quote := f.seedQuote(t, job.ID, uuid.New(), 15000, time.Now())

	_, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)
	published := len(f.bus.names())

	res, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyAccepted)
	assert.Len(t, f.bus.names(), published, "retry must not re-notify")
}

func TestAcceptQuoteConflictsAfterDifferentWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	first := f.seedQuote(t, job.ID, uuid.New(), 15000, time.Now())
	second := f.seedQuote(t, job.ID, uuid.New(), 14000, time.Now())

	_, err := f.svc.AcceptQuote(ctx, job.ID, first.ID)
	require.NoError(t, err)

	_, err = f.svc.AcceptQuote(ctx, job.ID, second.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestScheduleAndRescheduleEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	contractorID := uuid.New()
	quote := f.seedQuote(t, job.ID, contractorID, 15000, time.Now())
	_, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)

	date := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	scheduled, err := f.svc.Schedule(ctx, job.ID, contractorID, transport.ScheduleRequest{VisitDate: date})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusScheduled, scheduled.Status)

	// Same date again: no-op, no event.
	_, err = f.svc.Schedule(ctx, job.ID, contractorID, transport.ScheduleRequest{VisitDate: date})
	require.NoError(t, err)

	// New date: rescheduled event.
	_, err = f.svc.Schedule(ctx, job.ID, contractorID, transport.ScheduleRequest{VisitDate: date.AddDate(0, 0, 2)})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{events.EventQuoteAccepted, events.EventJobScheduled, events.EventJobRescheduled},
		f.bus.names())
}

func TestScheduleForbiddenForOtherContractor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	quote := f.seedQuote(t, job.ID, uuid.New(), 15000, time.Now())
	_, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)

	_, err = f.svc.Schedule(ctx, job.ID, uuid.New(), transport.ScheduleRequest{VisitDate: time.Now().AddDate(0, 0, 7)})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestCompleteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	contractorID := uuid.New()
	quote := f.seedQuote(t, job.ID, contractorID, 15000, time.Now())

	_, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)
	_, err = f.svc.Schedule(ctx, job.ID, contractorID, transport.ScheduleRequest{VisitDate: time.Now().AddDate(0, 0, 7)})
	require.NoError(t, err)

	done, err := f.svc.Complete(ctx, job.ID, contractorID, transport.CompleteRequest{CertificateRef: "certs/BER-2026-0042.pdf"})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	require.NotNil(t, done.CertificateRef)
	assert.Equal(t, "certs/BER-2026-0042.pdf", *done.CertificateRef)

	// Identical retry: no-op, no duplicate event.
	published := len(f.bus.names())
	again, err := f.svc.Complete(ctx, job.ID, contractorID, transport.CompleteRequest{CertificateRef: "certs/BER-2026-0042.pdf"})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, again.Status)
	assert.Len(t, f.bus.names(), published)

	// A different certificate on a completed job is a conflict.
	_, err = f.svc.Complete(ctx, job.ID, contractorID, transport.CompleteRequest{CertificateRef: "certs/other.pdf"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCompleteRequiresScheduledStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	contractorID := uuid.New()
	quote := f.seedQuote(t, job.ID, contractorID, 15000, time.Now())
	_, err := f.svc.AcceptQuote(ctx, job.ID, quote.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, job.ID, contractorID, transport.CompleteRequest{CertificateRef: "certs/x.pdf"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRankQuotesIgnoresRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)

	cheap := f.seedQuote(t, job.ID, uuid.New(), 15000, time.Now())
	f.seedQuote(t, job.ID, uuid.New(), 17000, time.Now())

	_, err := f.svc.AcceptQuote(ctx, job.ID, cheap.ID)
	require.NoError(t, err)

	ranking, err := f.svc.RankQuotes(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, ranking.HasQuotes)
	assert.Equal(t, int64(15000), ranking.LowestCents)
	require.Len(t, ranking.Standings, 1, "rejected quote must not participate")
	assert.True(t, ranking.Standings[0].IsCompetitive)
}

func TestWithdrawLeavesJobUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.seedJob(t, domain.JobStatusLive)
	contractorID := uuid.New()

	require.NoError(t, f.svc.Withdraw(ctx, job.ID, contractorID, transport.WithdrawRequest{ReasonCode: "too_busy"}))

	stored, err := f.store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusLive, stored.Status)
	assert.Equal(t, job.Version, stored.Version)
}

func TestWithdrawRejectedOnceJobCloses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []domain.JobStatus{
		domain.JobStatusQuoteAccepted,
		domain.JobStatusScheduled,
		domain.JobStatusCompleted,
	} {
		job := f.seedJob(t, status)
		contractorID := uuid.New()

		err := f.svc.Withdraw(ctx, job.ID, contractorID, transport.WithdrawRequest{ReasonCode: "too_busy"})
		require.Error(t, err, "status %s", status)
		assert.True(t, apperr.Is(err, apperr.KindConflict), "status %s", status)

		withdrawn, err := f.store.ListWithdrawnJobIDs(ctx, contractorID)
		require.NoError(t, err)
		assert.Empty(t, withdrawn, "no withdrawal may be recorded for status %s", status)
	}
}
