package handler

import (
	"net/http"

	"berhub_backend/internal/adapters/storage"
	"berhub_backend/internal/jobs/service"
	"berhub_backend/internal/jobs/transport"
	"berhub_backend/platform/config"
	"berhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for the job/quote lifecycle.
type Handler struct {
	svc        *service.Service
	certStore  storage.CertificateStore
	certBucket string
	sweepCfg   config.SweepConfig
}

// New creates a new jobs handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the authenticated contractor-facing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/eligible", h.ListEligible)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/quotes", h.SubmitQuote)
	rg.POST("/:id/withdraw", h.Withdraw)
	rg.POST("/:id/schedule", h.Schedule)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/certificate", h.UploadCertificate)
}

// RegisterPublicRoutes registers the homeowner-facing routes. Homeowners act
// through signed links sent by email rather than accounts, so these sit
// outside the contractor auth group.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/quotes", h.ListQuotes)
	rg.GET("/:id/ranking", h.Ranking)
	rg.GET("/:id/certificate", h.DownloadCertificate)
	rg.POST("/:id/accept", h.AcceptQuote)
}

// Create registers a homeowner's assessment request.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromDomainJob(job))
}

// GetByID returns a single job.
func (h *Handler) GetByID(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomainJob(job))
}

// ListEligible returns the open jobs the calling contractor may quote.
func (h *Handler) ListEligible(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	jobs, err := h.svc.ListEligibleJobs(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomainJobs(jobs))
}

// SubmitQuote creates or revises the calling contractor's quote on a job.
func (h *Handler) SubmitQuote(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	quote, err := h.svc.SubmitQuote(c.Request.Context(), jobID, id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromDomainQuote(quote))
}

// Withdraw records the calling contractor declining a job.
func (h *Handler) Withdraw(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transport.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), jobID, id.UserID(), req); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQuotes returns every quote on a job, for the homeowner's comparison view.
func (h *Handler) ListQuotes(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	quotes, err := h.svc.ListQuotesForJob(c.Request.Context(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = transport.FromDomainQuote(q)
	}
	httpkit.OK(c, out)
}

// Ranking returns the price ranking over a job's active quotes.
func (h *Handler) Ranking(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ranking, err := h.svc.RankQuotes(c.Request.Context(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomainRanking(jobID, ranking))
}

// AcceptQuote applies the homeowner's choice of quote.
func (h *Handler) AcceptQuote(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transport.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	res, err := h.svc.AcceptQuote(c.Request.Context(), jobID, req.QuoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"job":           transport.FromDomainJob(res.Job),
		"acceptedQuote": transport.FromDomainQuote(res.AcceptedQuote),
	})
}

// Schedule books or changes the visit date for an assigned job.
func (h *Handler) Schedule(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transport.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	job, err := h.svc.Schedule(c.Request.Context(), jobID, id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomainJob(job))
}

// Complete records the completion certificate for a scheduled job.
func (h *Handler) Complete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transport.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	job, err := h.svc.Complete(c.Request.Context(), jobID, id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomainJob(job))
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
