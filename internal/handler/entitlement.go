// Package handler contains the JSON API handlers for the entitlement engine.
//
// Routes:
//   - POST /api/v1/entitlements/check -> EntitlementHandler.Check
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
)

// EntitlementHandler answers pre-flight authorization questions. A check
// never consumes quota; callers commit usage separately once the gated
// action succeeds.
type EntitlementHandler struct {
	entitlements service.EntitlementService
	logger       *slog.Logger
}

// NewEntitlementHandler creates a new EntitlementHandler.
func NewEntitlementHandler(entitlements service.EntitlementService, logger *slog.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		entitlements: entitlements,
		logger:       logger,
	}
}

// RegisterRoutes registers entitlement routes on the provided mux.
func (h *EntitlementHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/entitlements/check", h.Check)
}

type checkRequest struct {
	OrganizationID string `json:"organization_id"`
	Period         string `json:"period"`
	Tier           string `json:"tier"`
	Action         string `json:"action"`
	FileSizeMB     int64  `json:"file_size_mb,omitempty"`
}

type checkResponse struct {
	Authorized bool   `json:"authorized"`
	Remaining  int64  `json:"remaining"`
	Reason     string `json:"reason,omitempty"`
}

// Check handles POST /api/v1/entitlements/check.
// A denial is a successful response (200 with authorized=false), not an
// error; errors are reserved for malformed input and storage failures.
func (h *EntitlementHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	decision, err := h.entitlements.Check(r.Context(), service.CheckParams{
		OrganizationID: req.OrganizationID,
		Period:         req.Period,
		Tier:           domain.Tier(req.Tier),
		Action:         domain.Action(req.Action),
		FileSizeMB:     req.FileSizeMB,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Authorized: decision.Authorized,
		Remaining:  decision.Remaining,
		Reason:     string(decision.Reason),
	})
}
