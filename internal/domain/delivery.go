// Package domain contains core business types and interfaces.
//
// This file defines the append-only notification delivery audit record.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DeliveryChannel is the transport a notification was sent over.
type DeliveryChannel string

const (
	DeliveryChannelEmail DeliveryChannel = "email"
	DeliveryChannelPush  DeliveryChannel = "push"
)

// ParseDeliveryChannel validates a caller-supplied channel name.
func ParseDeliveryChannel(s string) (DeliveryChannel, error) {
	switch DeliveryChannel(s) {
	case DeliveryChannelEmail, DeliveryChannelPush:
		return DeliveryChannel(s), nil
	}
	return "", Invalid("delivery.parse_channel", "channel must be \"email\" or \"push\"")
}

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailure DeliveryStatus = "failure"
)

// ParseDeliveryStatus validates a caller-supplied status.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case DeliveryStatusSuccess, DeliveryStatusFailure:
		return DeliveryStatus(s), nil
	}
	return "", Invalid("delivery.parse_status", "status must be \"success\" or \"failure\"")
}

// DeliveryResult is one row of the delivery audit trail. Rows are
// immutable once written; there is no update or delete operation.
type DeliveryResult struct {
	ID               uuid.UUID
	NotificationID   string
	UserID           string
	Channel          DeliveryChannel
	Provider         string
	Status           DeliveryStatus
	ErrorMessage     string // empty on success
	ExternalUserID   string // provider-side recipient id, when known
	ProviderResponse json.RawMessage
	CreatedAt        time.Time
}

// RecordDeliveryParams are the caller-supplied fields of a delivery
// attempt; the id and timestamp are generated server-side.
type RecordDeliveryParams struct {
	NotificationID   string
	UserID           string
	Channel          DeliveryChannel
	Provider         string
	Status           DeliveryStatus
	ErrorMessage     string
	ExternalUserID   string
	ProviderResponse json.RawMessage
}
