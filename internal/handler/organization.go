// Routes:
//   - POST /api/v1/organizations      -> OrganizationHandler.Create
//   - GET  /api/v1/organizations/{id} -> OrganizationHandler.Get

package handler

import (
	"log/slog"
	"net/http"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
)

// OrganizationHandler manages the organizations the engine meters.
type OrganizationHandler struct {
	orgs   service.OrganizationService
	logger *slog.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgs service.OrganizationService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgs:   orgs,
		logger: logger,
	}
}

// RegisterRoutes registers organization routes on the provided mux.
func (h *OrganizationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/organizations", h.Create)
	mux.HandleFunc("GET /api/v1/organizations/{id}", h.Get)
}

type createOrganizationRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

type organizationResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Tier           string `json:"tier,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

func toOrganizationResponse(org *domain.Organization) organizationResponse {
	return organizationResponse{
		ID:             org.ID,
		Name:           org.Name,
		Tier:           string(org.Tier),
		SubscriptionID: org.StripeSubscriptionID,
	}
}

// Create handles POST /api/v1/organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	org, err := h.orgs.Create(r.Context(), req.ID, req.Name, domain.Tier(req.Tier))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrganizationResponse(org))
}

// Get handles GET /api/v1/organizations/{id}.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}
