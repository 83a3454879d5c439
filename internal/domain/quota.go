// Package domain contains core business types and interfaces.
//
// This file defines the per-organization, per-period usage quota row and
// the override mechanics that sit on top of tier defaults.
package domain

import (
	"database/sql"
	"time"
)

// QuotaKind identifies which usage counter an operation targets.
type QuotaKind string

const (
	QuotaKindMessages QuotaKind = "messages"
	QuotaKindFiles    QuotaKind = "files"
)

// ParseQuotaKind validates a caller-supplied counter name.
func ParseQuotaKind(s string) (QuotaKind, error) {
	switch QuotaKind(s) {
	case QuotaKindMessages, QuotaKindFiles:
		return QuotaKind(s), nil
	}
	return "", Invalid("quota.parse_kind", "kind must be \"messages\" or \"files\"")
}

// LimitOverride is an explicit default-or-override value for one limit.
// The zero value means "use the tier default". Modeling the override as
// a two-state value rather than a bare pointer keeps the precedence rule
// visible at every call site.
type LimitOverride struct {
	value int64
	set   bool
}

// NoOverride returns the default state (tier limit applies).
func NoOverride() LimitOverride {
	return LimitOverride{}
}

// OverrideLimit returns an override carrying the given limit.
func OverrideLimit(v int64) LimitOverride {
	return LimitOverride{value: v, set: true}
}

// Value returns the override value and whether one is set.
func (o LimitOverride) Value() (int64, bool) {
	return o.value, o.set
}

// Resolve applies the precedence rule: override if present, else the
// tier default.
func (o LimitOverride) Resolve(tierDefault int64) int64 {
	if o.set {
		return o.value
	}
	return tierDefault
}

// ToNullInt64 converts an override to its database representation.
func (o LimitOverride) ToNullInt64() sql.NullInt64 {
	if !o.set {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: o.value, Valid: true}
}

// OverrideFromNullInt64 converts a stored nullable limit to an override.
func OverrideFromNullInt64(n sql.NullInt64) LimitOverride {
	if !n.Valid {
		return NoOverride()
	}
	return OverrideLimit(n.Int64)
}

// QuotaOverrides bundles the per-organization overrides for one row.
type QuotaOverrides struct {
	Messages LimitOverride
	Files    LimitOverride
}

// UsageQuota is one accounting row: the counters and limits for a
// single organization in a single calendar-month period.
//
// Counters only move upward within a period; a new period starts from a
// fresh row rather than resetting this one.
type UsageQuota struct {
	OrganizationID   string
	Period           string // calendar-month key, e.g. "2025-05"
	MessagesUsed     int64
	MessagesLimit    int64
	OverrideMessages LimitOverride
	FilesUsed        int64
	FilesLimit       int64
	OverrideFiles    LimitOverride
	LastUpdated      time.Time
}

// EffectiveLimit returns the enforced limit for a counter: the override
// when present, otherwise the stored tier default.
func (q *UsageQuota) EffectiveLimit(kind QuotaKind) int64 {
	switch kind {
	case QuotaKindFiles:
		return q.OverrideFiles.Resolve(q.FilesLimit)
	default:
		return q.OverrideMessages.Resolve(q.MessagesLimit)
	}
}

// Used returns the current counter value for a kind.
func (q *UsageQuota) Used(kind QuotaKind) int64 {
	if kind == QuotaKindFiles {
		return q.FilesUsed
	}
	return q.MessagesUsed
}

// Remaining returns how much budget is left for a kind.
// Returns Unlimited when the effective limit is the unlimited sentinel,
// and never returns a negative count.
func (q *UsageQuota) Remaining(kind QuotaKind) int64 {
	limit := q.EffectiveLimit(kind)
	if limit == Unlimited {
		return Unlimited
	}
	remaining := limit - q.Used(kind)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ValidatePeriod checks that a period key is a well-formed
// calendar-month key such as "2025-05".
func ValidatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return Invalid("quota.validate_period", "period must be a calendar-month key like \"2025-05\"")
	}
	return nil
}

// CurrentPeriod returns the calendar-month key for the given time in UTC.
func CurrentPeriod(now time.Time) string {
	return now.UTC().Format("2006-01")
}
