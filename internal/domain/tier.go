// Package domain contains core business types and interfaces.
//
// This file defines subscription tiers and the catalog of resource
// limits attached to each tier.
package domain

// Tier identifies a named subscription plan.
type Tier string

const (
	TierFree       Tier = "free"
	TierPlus       Tier = "plus"
	TierBusiness   Tier = "business"
	TierEnterprise Tier = "enterprise"
)

// Unlimited is the sentinel limit value meaning no cap is enforced.
const Unlimited int64 = -1

// TierLimits defines the monthly resource limits for a subscription tier.
// A value of Unlimited (-1) on a count limit disables enforcement entirely.
type TierLimits struct {
	MessagesPerMonth int64
	FilesPerMonth    int64
	MaxFileSizeMB    int64
	APIAccess        bool
	TeamMembers      int64
}

// Catalog is a read-only mapping of tiers to their limits plus the
// fallback limit set for organizations with no tier assignment.
// It is injected into services rather than read from package state so
// tests can substitute alternate tables.
type Catalog struct {
	limits map[Tier]TierLimits
	public TierLimits
}

// NewCatalog builds a catalog from an explicit tier table and public
// fallback. The map is copied; callers cannot mutate the catalog after
// construction.
func NewCatalog(limits map[Tier]TierLimits, public TierLimits) Catalog {
	m := make(map[Tier]TierLimits, len(limits))
	for tier, l := range limits {
		m[tier] = l
	}
	return Catalog{limits: m, public: public}
}

// DefaultCatalog returns the production tier table.
// Limits are reviewed when plans change; Reconcile propagates changes
// to rows created under an older table.
func DefaultCatalog() Catalog {
	return NewCatalog(map[Tier]TierLimits{
		TierFree: {
			MessagesPerMonth: 100,
			FilesPerMonth:    10,
			MaxFileSizeMB:    5,
			TeamMembers:      1,
		},
		TierPlus: {
			MessagesPerMonth: 1000,
			FilesPerMonth:    100,
			MaxFileSizeMB:    25,
			TeamMembers:      5,
		},
		TierBusiness: {
			MessagesPerMonth: 10000,
			FilesPerMonth:    1000,
			MaxFileSizeMB:    100,
			APIAccess:        true,
			TeamMembers:      25,
		},
		TierEnterprise: {
			MessagesPerMonth: Unlimited,
			FilesPerMonth:    Unlimited,
			MaxFileSizeMB:    500,
			APIAccess:        true,
			TeamMembers:      Unlimited,
		},
	}, TierLimits{
		// Unauthenticated organizations get nothing; this blocks
		// anonymous abuse before any counter is consulted.
		MessagesPerMonth: 0,
		FilesPerMonth:    0,
		MaxFileSizeMB:    0,
		APIAccess:        false,
		TeamMembers:      0,
	})
}

// LimitsFor returns the limits for a known tier.
// Returns an EUNKNOWNTIER error for any other name; that indicates a
// configuration mismatch and should be treated as fatal by callers.
func (c Catalog) LimitsFor(tier Tier) (TierLimits, error) {
	if l, ok := c.limits[tier]; ok {
		return l, nil
	}
	return TierLimits{}, UnknownTier("catalog.limits_for", string(tier))
}

// PublicLimits returns the limit set applied to organizations with no
// tier assignment.
func (c Catalog) PublicLimits() TierLimits {
	return c.public
}

// Tiers returns the known tier names in a stable order.
func (c Catalog) Tiers() []Tier {
	ordered := []Tier{TierFree, TierPlus, TierBusiness, TierEnterprise}
	tiers := make([]Tier, 0, len(c.limits))
	for _, t := range ordered {
		if _, ok := c.limits[t]; ok {
			tiers = append(tiers, t)
		}
	}
	for t := range c.limits {
		known := false
		for _, o := range ordered {
			if t == o {
				known = true
				break
			}
		}
		if !known {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// ParseTier validates a caller-supplied tier name. An empty string is
// allowed and means "no tier" (public limits apply).
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case "", TierFree, TierPlus, TierBusiness, TierEnterprise:
		return Tier(s), nil
	}
	return "", UnknownTier("tier.parse", s)
}
