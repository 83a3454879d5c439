// Package domain contains core business types and interfaces.
//
// This file defines the organization (law practice) and its subscription
// assignment. Organizations with no tier fall back to the public limits.
package domain

import (
	"database/sql"
	"time"
)

// Organization is a tenant of the platform. The tier field is mutated
// only through billing events; everything else about the organization
// (members, matters, settings) lives outside this engine.
type Organization struct {
	ID                   string
	Name                 string
	Tier                 Tier // empty means no tier assigned (public limits)
	StripeCustomerID     string
	StripeSubscriptionID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasTier reports whether the organization has a tier assignment.
func (o *Organization) HasTier() bool {
	return o.Tier != ""
}

// NullStringValue safely extracts a string from sql.NullString.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ToNullString converts a string to sql.NullString.
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
