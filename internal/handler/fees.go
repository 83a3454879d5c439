// Routes:
//   - POST /api/v1/fees/calculate -> FeesHandler.Calculate

package handler

import (
	"log/slog"
	"net/http"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
)

// FeesHandler computes sliding-scale fee tiers from household income
// against the federal poverty guidelines.
type FeesHandler struct {
	guideline domain.PovertyGuideline
	logger    *slog.Logger
}

// NewFeesHandler creates a new FeesHandler using the given guideline.
func NewFeesHandler(guideline domain.PovertyGuideline, logger *slog.Logger) *FeesHandler {
	return &FeesHandler{
		guideline: guideline,
		logger:    logger,
	}
}

// RegisterRoutes registers fee calculation routes on the provided mux.
func (h *FeesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/fees/calculate", h.Calculate)
}

type calculateFeeRequest struct {
	AnnualIncome  float64 `json:"annual_income"`
	HouseholdSize int     `json:"household_size"`
}

type calculateFeeResponse struct {
	PovertyPercentage int    `json:"poverty_percentage"`
	FeeTier           string `json:"fee_tier"`
}

// Calculate handles POST /api/v1/fees/calculate.
func (h *FeesHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	assessment, err := h.guideline.Assess(req.AnnualIncome, req.HouseholdSize)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, calculateFeeResponse{
		PovertyPercentage: assessment.Percentage,
		FeeTier:           string(assessment.Tier),
	})
}
