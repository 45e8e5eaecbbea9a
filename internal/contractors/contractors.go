// Package contractors provides contractor profile management: the service
// counties and specialty that drive the eligible-jobs feed.
package contractors

import (
	"berhub_backend/internal/contractors/handler"
	"berhub_backend/internal/contractors/repository"
	"berhub_backend/internal/contractors/service"
	apphttp "berhub_backend/internal/http"
	"berhub_backend/platform/httpkit"
	"berhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contractors domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the contractors module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "contractors"
}

// Service returns the service layer for external use (the jobs module reads
// preferences through an adapter over it).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	profile := ctx.Protected.Group("/contractors/me")
	profile.Use(httpkit.RequireRole(httpkit.RoleContractor))
	m.handler.RegisterRoutes(profile)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
