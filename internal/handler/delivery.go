// Routes:
//   - POST /api/v1/notifications/results -> DeliveryHandler.RecordResult

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
)

// DeliveryHandler records notification delivery outcomes reported by
// provider callbacks and internal senders.
type DeliveryHandler struct {
	deliveries service.DeliveryService
	logger     *slog.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveries service.DeliveryService, logger *slog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries: deliveries,
		logger:     logger,
	}
}

// RegisterRoutes registers delivery recording routes on the provided mux.
func (h *DeliveryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/notifications/results", h.RecordResult)
}

type recordResultRequest struct {
	NotificationID   string          `json:"notification_id"`
	UserID           string          `json:"user_id"`
	Channel          string          `json:"channel"`
	Provider         string          `json:"provider"`
	Status           string          `json:"status"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	ExternalUserID   string          `json:"external_user_id,omitempty"`
	ProviderResponse json.RawMessage `json:"provider_response,omitempty"`
}

type recordResultResponse struct {
	ID             string `json:"id"`
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Channel        string `json:"channel"`
	Provider       string `json:"provider"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"error_message,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// RecordResult handles POST /api/v1/notifications/results.
// Every attempt appends a new record; retries are separate rows keyed by
// fresh time-ordered ids.
func (h *DeliveryHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.deliveries.RecordResult(r.Context(), domain.RecordDeliveryParams{
		NotificationID:   req.NotificationID,
		UserID:           req.UserID,
		Channel:          domain.DeliveryChannel(req.Channel),
		Provider:         req.Provider,
		Status:           domain.DeliveryStatus(req.Status),
		ErrorMessage:     req.ErrorMessage,
		ExternalUserID:   req.ExternalUserID,
		ProviderResponse: req.ProviderResponse,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordResultResponse{
		ID:             result.ID.String(),
		NotificationID: result.NotificationID,
		UserID:         result.UserID,
		Channel:        string(result.Channel),
		Provider:       result.Provider,
		Status:         string(result.Status),
		ErrorMessage:   result.ErrorMessage,
		CreatedAt:      result.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
