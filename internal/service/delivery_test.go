package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDeliveryParams() domain.RecordDeliveryParams {
	return domain.RecordDeliveryParams{
		NotificationID: "notif-1",
		UserID:         "user-1",
		Channel:        domain.DeliveryChannelEmail,
		Provider:       "resend",
		Status:         domain.DeliveryStatusSuccess,
	}
}

func TestRecordResultPersistsRecord(t *testing.T) {
	queries := newFakeQuerier()
	svc := NewDeliveryService(queries, testLogger())

	got, err := svc.RecordResult(context.Background(), validDeliveryParams())
	require.NoError(t, err)

	assert.NotEqual(t, [16]byte{}, [16]byte(got.ID), "id must be generated")
	assert.False(t, got.CreatedAt.IsZero(), "timestamp must be server-side")
	assert.Equal(t, "notif-1", got.NotificationID)
	assert.Len(t, queries.deliveries, 1)
}

// Identifiers must be unique and strictly increasing across calls so
// the audit trail orders attempts without relying on timestamps.
func TestRecordResultIdsStrictlyIncreasing(t *testing.T) {
	queries := newFakeQuerier()
	svc := NewDeliveryService(queries, testLogger())

	const n = 200
	prev := ""
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		got, err := svc.RecordResult(context.Background(), validDeliveryParams())
		require.NoError(t, err)

		id := got.ID.String()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if prev != "" {
			assert.Greater(t, id, prev, "ids must be time-ordered")
		}
		prev = id
	}

	assert.Len(t, queries.deliveries, n, "every attempt appends a new record")
}

func TestRecordResultFailureRequiresErrorMessage(t *testing.T) {
	svc := NewDeliveryService(newFakeQuerier(), testLogger())

	params := validDeliveryParams()
	params.Status = domain.DeliveryStatusFailure

	_, err := svc.RecordResult(context.Background(), params)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	params.ErrorMessage = "mailbox full"
	got, err := svc.RecordResult(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "mailbox full", got.ErrorMessage)
}

func TestRecordResultValidation(t *testing.T) {
	svc := NewDeliveryService(newFakeQuerier(), testLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.RecordDeliveryParams)
	}{
		{name: "empty notification id", mutate: func(p *domain.RecordDeliveryParams) { p.NotificationID = "" }},
		{name: "empty user id", mutate: func(p *domain.RecordDeliveryParams) { p.UserID = "" }},
		{name: "unknown channel", mutate: func(p *domain.RecordDeliveryParams) { p.Channel = "sms" }},
		{name: "unknown status", mutate: func(p *domain.RecordDeliveryParams) { p.Status = "queued" }},
		{name: "empty provider", mutate: func(p *domain.RecordDeliveryParams) { p.Provider = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validDeliveryParams()
			tt.mutate(&params)

			_, err := svc.RecordResult(ctx, params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestRecordResultStorageFailure(t *testing.T) {
	queries := newFakeQuerier()
	queries.insertDeliveryErr = errors.New("connection reset")
	svc := NewDeliveryService(queries, testLogger())

	_, err := svc.RecordResult(context.Background(), validDeliveryParams())
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err), "storage failures surface for caller-controlled retry")
}
