// Routes:
//   - GET  /api/v1/usage             -> UsageHandler.Get
//   - POST /api/v1/usage/increment   -> UsageHandler.Increment
//   - PUT  /api/v1/usage/limits      -> UsageHandler.UpsertLimits
//   - POST /api/v1/admin/reconcile   -> UsageHandler.Reconcile

package handler

import (
	"log/slog"
	"net/http"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/worker"
)

// UsageHandler exposes the quota store: reading counters, committing
// usage, writing limits, and the admin reconcile sweep.
type UsageHandler struct {
	quotas  service.QuotaService
	queries *repository.Queries
	logger  *slog.Logger
}

// NewUsageHandler creates a new UsageHandler. queries is used to enqueue
// background reconcile jobs.
func NewUsageHandler(quotas service.QuotaService, queries *repository.Queries, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		quotas:  quotas,
		queries: queries,
		logger:  logger,
	}
}

// RegisterRoutes registers usage routes on the provided mux.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/usage", h.Get)
	mux.HandleFunc("POST /api/v1/usage/increment", h.Increment)
	mux.HandleFunc("PUT /api/v1/usage/limits", h.UpsertLimits)
	mux.HandleFunc("POST /api/v1/admin/reconcile", h.Reconcile)
}

type quotaResponse struct {
	OrganizationID   string `json:"organization_id"`
	Period           string `json:"period"`
	MessagesUsed     int64  `json:"messages_used"`
	MessagesLimit    int64  `json:"messages_limit"`
	OverrideMessages *int64 `json:"override_messages,omitempty"`
	FilesUsed        int64  `json:"files_used"`
	FilesLimit       int64  `json:"files_limit"`
	OverrideFiles    *int64 `json:"override_files,omitempty"`
	LastUpdated      string `json:"last_updated"`
}

func toQuotaResponse(q *domain.UsageQuota) quotaResponse {
	resp := quotaResponse{
		OrganizationID: q.OrganizationID,
		Period:         q.Period,
		MessagesUsed:   q.MessagesUsed,
		MessagesLimit:  q.MessagesLimit,
		FilesUsed:      q.FilesUsed,
		FilesLimit:     q.FilesLimit,
		LastUpdated:    q.LastUpdated.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if v, ok := q.OverrideMessages.Value(); ok {
		resp.OverrideMessages = &v
	}
	if v, ok := q.OverrideFiles.Value(); ok {
		resp.OverrideFiles = &v
	}
	return resp
}

// Get handles GET /api/v1/usage?organization_id=...&period=...
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	period := r.URL.Query().Get("period")

	quota, err := h.quotas.Get(r.Context(), orgID, period)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuotaResponse(quota))
}

type incrementRequest struct {
	OrganizationID string `json:"organization_id"`
	Period         string `json:"period"`
	Kind           string `json:"kind"`
	Amount         int64  `json:"amount"`
}

// Increment handles POST /api/v1/usage/increment.
// The amount defaults to 1 when omitted. A bounded row with no headroom
// yields a 402 with code EQUOTA and the counter unchanged.
func (h *UsageHandler) Increment(w http.ResponseWriter, r *http.Request) {
	var req incrementRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if req.Amount == 0 {
		req.Amount = 1
	}

	quota, err := h.quotas.IncrementUsage(r.Context(), req.OrganizationID, req.Period, domain.QuotaKind(req.Kind), req.Amount)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuotaResponse(quota))
}

type upsertLimitsRequest struct {
	OrganizationID   string `json:"organization_id"`
	Period           string `json:"period"`
	MessagesLimit    int64  `json:"messages_limit"`
	FilesLimit       int64  `json:"files_limit"`
	OverrideMessages *int64 `json:"override_messages"`
	OverrideFiles    *int64 `json:"override_files"`
}

// UpsertLimits handles PUT /api/v1/usage/limits.
// Usage counters are never reset by this operation.
func (h *UsageHandler) UpsertLimits(w http.ResponseWriter, r *http.Request) {
	var req upsertLimitsRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	limits := domain.TierLimits{
		MessagesPerMonth: req.MessagesLimit,
		FilesPerMonth:    req.FilesLimit,
	}
	var overrides domain.QuotaOverrides
	if req.OverrideMessages != nil {
		overrides.Messages = domain.OverrideLimit(*req.OverrideMessages)
	}
	if req.OverrideFiles != nil {
		overrides.Files = domain.OverrideLimit(*req.OverrideFiles)
	}

	quota, err := h.quotas.UpsertLimits(r.Context(), req.OrganizationID, req.Period, limits, overrides)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuotaResponse(quota))
}

type reconcileRequest struct {
	Period string `json:"period"`
}

// Reconcile handles POST /api/v1/admin/reconcile.
// The sweep runs in the background worker; the response acknowledges the
// enqueued job.
func (h *UsageHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Reject a malformed period now rather than letting the job fail.
	if err := domain.ValidatePeriod(req.Period); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	job, err := worker.EnqueueReconcilePeriod(r.Context(), h.queries, req.Period, worker.WithPriority(worker.PriorityHigh))
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "enqueued",
		"job_id": job.ID.String(),
		"period": req.Period,
	})
}
