package handler

import (
	"net/http"

	"berhub_backend/internal/contractors/service"
	"berhub_backend/internal/contractors/transport"
	"berhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for contractor profiles.
type Handler struct {
	svc *service.Service
}

// New creates a new contractors handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the contractor profile routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.GetPreferences)
	rg.PUT("/preferences", h.UpsertPreferences)
}

// GetPreferences returns the calling contractor's eligibility profile.
func (h *Handler) GetPreferences(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	pref, err := h.svc.GetPreferences(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromPreference(pref))
}

// UpsertPreferences replaces the calling contractor's eligibility profile.
func (h *Handler) UpsertPreferences(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.UpsertPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	pref, err := h.svc.UpsertPreferences(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromPreference(pref))
}
