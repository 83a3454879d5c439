// Package service contains the business logic layer.
//
// This file implements the notification delivery recorder, an
// append-only audit trail of delivery attempts.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/metrics"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sqlc-dev/pqtype"
)

// =============================================================================
// Interface Definition
// =============================================================================

// DeliveryService records notification delivery attempts.
// Records are immutable once written; there is no update or delete, and
// retrieval/reporting belongs to external collaborators.
type DeliveryService interface {
	// RecordResult persists one delivery attempt with a fresh
	// time-ordered identifier and a server-side timestamp. Returns a
	// domain.EINTERNAL error when the write fails; the caller decides
	// whether to retry.
	RecordResult(ctx context.Context, params domain.RecordDeliveryParams) (*domain.DeliveryResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

type deliveryService struct {
	queries repository.Querier
	logger  *slog.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(queries repository.Querier, logger *slog.Logger) DeliveryService {
	return &deliveryService{
		queries: queries,
		logger:  logger,
	}
}

// RecordResult validates and persists one delivery attempt.
func (s *deliveryService) RecordResult(ctx context.Context, params domain.RecordDeliveryParams) (*domain.DeliveryResult, error) {
	const op = "delivery.record_result"

	if err := s.validate(op, params); err != nil {
		return nil, err
	}

	// UUIDv7 is time-ordered, so ids are strictly increasing across
	// calls as well as unique.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate delivery id")
	}

	row, err := s.queries.InsertDeliveryResult(ctx, repository.InsertDeliveryResultParams{
		ID:               id,
		NotificationID:   params.NotificationID,
		UserID:           params.UserID,
		Channel:          string(params.Channel),
		Provider:         params.Provider,
		Status:           string(params.Status),
		ErrorMessage:     domain.ToNullString(params.ErrorMessage),
		ExternalUserID:   domain.ToNullString(params.ExternalUserID),
		ProviderResponse: toNullRawMessage(params.ProviderResponse),
	})
	if err != nil {
		// A duplicate id would mean the generator misbehaved; surface
		// it as a conflict rather than a generic storage failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.Conflict(op, "delivery result id already exists")
		}
		return nil, domain.Internal(err, op, "failed to record delivery result")
	}

	metrics.DeliveryRecorded(string(params.Channel), string(params.Status))

	return &domain.DeliveryResult{
		ID:               row.ID,
		NotificationID:   row.NotificationID,
		UserID:           row.UserID,
		Channel:          domain.DeliveryChannel(row.Channel),
		Provider:         row.Provider,
		Status:           domain.DeliveryStatus(row.Status),
		ErrorMessage:     domain.NullStringValue(row.ErrorMessage),
		ExternalUserID:   domain.NullStringValue(row.ExternalUserID),
		ProviderResponse: row.ProviderResponse.RawMessage,
		CreatedAt:        row.CreatedAt,
	}, nil
}

func (s *deliveryService) validate(op string, params domain.RecordDeliveryParams) error {
	if params.NotificationID == "" {
		return domain.Invalid(op, "notification id must not be empty")
	}
	if params.UserID == "" {
		return domain.Invalid(op, "user id must not be empty")
	}
	if _, err := domain.ParseDeliveryChannel(string(params.Channel)); err != nil {
		return err
	}
	if _, err := domain.ParseDeliveryStatus(string(params.Status)); err != nil {
		return err
	}
	if params.Provider == "" {
		return domain.Invalid(op, "provider must not be empty")
	}
	if params.Status == domain.DeliveryStatusFailure && params.ErrorMessage == "" {
		return domain.Invalid(op, "failure records must carry an error message")
	}
	return nil
}

func toNullRawMessage(raw []byte) pqtype.NullRawMessage {
	if len(raw) == 0 {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}
