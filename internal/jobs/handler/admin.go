package handler

import (
	"net/http"

	"berhub_backend/internal/jobs/transport"
	"berhub_backend/platform/config"
	"berhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// SetSweepConfig injects the sweep settings used by the manual trigger.
func (h *Handler) SetSweepConfig(cfg config.SweepConfig) {
	h.sweepCfg = cfg
}

// RegisterAdminRoutes registers the operational routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/sweep", h.RunSweep)
}

// RunSweep triggers one expiry sweep run outside the scheduled cadence, for
// operators. The sweep is idempotent, so overlapping with a scheduled run is
// safe.
func (h *Handler) RunSweep(c *gin.Context) {
	if h.sweepCfg == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "sweep not configured", nil)
		return
	}

	report, err := h.svc.RunExpirySweep(c.Request.Context(), h.sweepCfg.GetQuoteExpiryThreshold(), h.sweepCfg.GetSweepBatchSize())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SweepResponse{
		ExpiredCount:  report.Expired,
		RelistedCount: report.Relisted,
		FailedCount:   report.Failed,
	})
}
