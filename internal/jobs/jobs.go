// Package jobs provides the job/quote lifecycle module: request intake,
// the eligible-jobs feed, competitive quoting, acceptance, scheduling,
// completion, and the stale-quote expiry sweep.
package jobs

import (
	"berhub_backend/internal/adapters/storage"
	"berhub_backend/internal/events"
	apphttp "berhub_backend/internal/http"
	"berhub_backend/internal/jobs/handler"
	"berhub_backend/internal/jobs/repository"
	"berhub_backend/internal/jobs/service"
	"berhub_backend/platform/config"
	"berhub_backend/platform/httpkit"
	"berhub_backend/platform/logger"
	"berhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the jobs domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the jobs module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, prefs service.PreferenceReader, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, prefs, bus, log, val)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "jobs"
}

// Service returns the service layer for external use (the scheduler worker
// drives the expiry sweep through it).
func (m *Module) Service() *service.Service {
	return m.service
}

// SetCertificateStorage injects the certificate object store. Optional: the
// plain complete endpoint works without it.
func (m *Module) SetCertificateStorage(store storage.CertificateStore, bucket string) {
	m.handler.SetCertificateStorage(store, bucket)
}

// SetSweepConfig injects the sweep settings for the admin-triggered sweep.
func (m *Module) SetSweepConfig(cfg config.SweepConfig) {
	m.handler.SetSweepConfig(cfg)
}

// RegisterRoutes registers the module's routes. Contractor routes require an
// authenticated contractor; homeowner routes are public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	contractorJobs := ctx.Protected.Group("/jobs")
	contractorJobs.Use(httpkit.RequireRole(httpkit.RoleContractor))
	m.handler.RegisterRoutes(contractorJobs)

	publicJobs := ctx.V1.Group("/public/jobs")
	m.handler.RegisterPublicRoutes(publicJobs)

	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/jobs"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
