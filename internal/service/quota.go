// Package service contains the business logic layer.
//
// This file implements the usage quota store: per-organization,
// per-period counters with atomic, limit-bounded increments.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/metrics"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// QuotaService defines operations on usage quota rows.
type QuotaService interface {
	// Get returns the quota row for an organization and period.
	// Returns domain.ENOTFOUND if no usage has been recorded yet.
	Get(ctx context.Context, organizationID, period string) (*domain.UsageQuota, error)

	// UpsertLimits creates the row if absent with the given limits and
	// overrides, or updates the limits of an existing row. Usage
	// counters are never reset by this operation.
	UpsertLimits(ctx context.Context, organizationID, period string, limits domain.TierLimits, overrides domain.QuotaOverrides) (*domain.UsageQuota, error)

	// IncrementUsage atomically adds amount to a counter, bounded by
	// the effective limit. The bound is enforced inside a single
	// conditional UPDATE so concurrent increments cannot both pass a
	// stale check. Returns domain.EQUOTA when the row has no headroom.
	// The row is created lazily on an organization's first usage event.
	IncrementUsage(ctx context.Context, organizationID, period string, kind domain.QuotaKind, amount int64) (*domain.UsageQuota, error)

	// Reconcile rewrites the stored limits of every row in a period
	// from the current tier catalog, leaving usage counters untouched.
	// Used when a tier's catalog limits change mid-period.
	Reconcile(ctx context.Context, period string) error
}

// =============================================================================
// Implementation
// =============================================================================

type quotaService struct {
	queries repository.Querier
	catalog domain.Catalog
	logger  *slog.Logger
}

// NewQuotaService creates a new QuotaService backed by the given
// queries and tier catalog.
func NewQuotaService(queries repository.Querier, catalog domain.Catalog, logger *slog.Logger) QuotaService {
	return &quotaService{
		queries: queries,
		catalog: catalog,
		logger:  logger,
	}
}

// Get returns the quota row for an organization and period.
func (s *quotaService) Get(ctx context.Context, organizationID, period string) (*domain.UsageQuota, error) {
	const op = "quota.get"

	if err := validateQuotaKey(op, organizationID, period); err != nil {
		return nil, err
	}

	row, err := s.queries.GetUsageQuota(ctx, repository.GetUsageQuotaParams{
		OrganizationID: organizationID,
		Period:         period,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "usage quota", organizationID+"/"+period)
		}
		return nil, domain.Internal(err, op, "failed to load usage quota")
	}

	return rowToQuota(row), nil
}

// UpsertLimits creates or updates the limit fields of a quota row.
func (s *quotaService) UpsertLimits(ctx context.Context, organizationID, period string, limits domain.TierLimits, overrides domain.QuotaOverrides) (*domain.UsageQuota, error) {
	const op = "quota.upsert_limits"

	if err := validateQuotaKey(op, organizationID, period); err != nil {
		return nil, err
	}

	row, err := s.queries.UpsertUsageQuotaLimits(ctx, repository.UpsertUsageQuotaLimitsParams{
		OrganizationID:   organizationID,
		Period:           period,
		MessagesLimit:    limits.MessagesPerMonth,
		OverrideMessages: overrides.Messages.ToNullInt64(),
		FilesLimit:       limits.FilesPerMonth,
		OverrideFiles:    overrides.Files.ToNullInt64(),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to upsert quota limits")
	}

	return rowToQuota(row), nil
}

// IncrementUsage atomically consumes quota for one action.
func (s *quotaService) IncrementUsage(ctx context.Context, organizationID, period string, kind domain.QuotaKind, amount int64) (*domain.UsageQuota, error) {
	const op = "quota.increment"

	if err := validateQuotaKey(op, organizationID, period); err != nil {
		return nil, err
	}
	if _, err := domain.ParseQuotaKind(string(kind)); err != nil {
		return nil, err
	}
	if amount < 1 {
		return nil, domain.Invalid(op, "amount must be at least 1")
	}

	// Lazily create the row with the organization's current tier
	// defaults so first usage and steady state share one code path.
	if err := s.ensureRow(ctx, organizationID, period); err != nil {
		return nil, err
	}

	row, err := s.increment(ctx, organizationID, period, kind, amount)
	if err == nil {
		metrics.UsageIncremented(string(kind), "ok")
		return rowToQuota(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		metrics.UsageIncremented(string(kind), "error")
		return nil, domain.Internal(err, op, "failed to increment usage")
	}

	// The conditional write matched no row: the row exists (ensured
	// above), so the bound rejected the increment.
	current, getErr := s.queries.GetUsageQuota(ctx, repository.GetUsageQuotaParams{
		OrganizationID: organizationID,
		Period:         period,
	})
	if getErr != nil {
		metrics.UsageIncremented(string(kind), "error")
		return nil, domain.Internal(getErr, op, "failed to load quota after denied increment")
	}

	quota := rowToQuota(current)
	used := quota.Used(kind)
	limit := quota.EffectiveLimit(kind)

	s.logger.Info("Usage quota exceeded",
		"organization_id", organizationID,
		"period", period,
		"kind", kind,
		"used", used,
		"limit", limit,
	)
	metrics.UsageIncremented(string(kind), "denied")

	return nil, domain.QuotaExceeded(op, kind, used, limit)
}

// Reconcile rewrites stored limits from the current catalog.
func (s *quotaService) Reconcile(ctx context.Context, period string) error {
	const op = "quota.reconcile"

	if err := domain.ValidatePeriod(period); err != nil {
		return err
	}

	var total int64
	for _, tier := range s.catalog.Tiers() {
		limits, err := s.catalog.LimitsFor(tier)
		if err != nil {
			return err
		}

		n, err := s.queries.ReconcileQuotaLimitsByTier(ctx, repository.ReconcileQuotaLimitsByTierParams{
			Period:        period,
			MessagesLimit: limits.MessagesPerMonth,
			FilesLimit:    limits.FilesPerMonth,
			Tier:          string(tier),
		})
		if err != nil {
			return domain.Internal(err, op, "failed to reconcile tier "+string(tier))
		}
		total += n
	}

	public := s.catalog.PublicLimits()
	n, err := s.queries.ReconcileQuotaLimitsForUntiered(ctx, repository.ReconcileQuotaLimitsForUntieredParams{
		Period:        period,
		MessagesLimit: public.MessagesPerMonth,
		FilesLimit:    public.FilesPerMonth,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to reconcile untiered organizations")
	}
	total += n

	s.logger.Info("Quota limits reconciled", "period", period, "rows", total)
	metrics.QuotaRowsReconciled(total)

	return nil
}

// ensureRow creates the quota row with current catalog defaults if it
// does not exist yet. Existing rows, including their overrides, are
// left untouched.
func (s *quotaService) ensureRow(ctx context.Context, organizationID, period string) error {
	const op = "quota.ensure_row"

	limits, err := s.limitsForOrganization(ctx, organizationID)
	if err != nil {
		return err
	}

	err = s.queries.CreateUsageQuotaIfAbsent(ctx, repository.CreateUsageQuotaIfAbsentParams{
		OrganizationID:   organizationID,
		Period:           period,
		MessagesLimit:    limits.MessagesPerMonth,
		OverrideMessages: sql.NullInt64{},
		FilesLimit:       limits.FilesPerMonth,
		OverrideFiles:    sql.NullInt64{},
	})
	if err != nil {
		return domain.Internal(err, op, "failed to create usage quota row")
	}
	return nil
}

// limitsForOrganization resolves catalog limits from the organization's
// stored tier, falling back to public limits for unknown organizations
// or organizations with no tier assignment.
func (s *quotaService) limitsForOrganization(ctx context.Context, organizationID string) (domain.TierLimits, error) {
	org, err := s.queries.GetOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.catalog.PublicLimits(), nil
		}
		return domain.TierLimits{}, domain.Internal(err, "quota.limits_for_org", "failed to load organization")
	}

	if !org.Tier.Valid || org.Tier.String == "" {
		return s.catalog.PublicLimits(), nil
	}
	return s.catalog.LimitsFor(domain.Tier(org.Tier.String))
}

func (s *quotaService) increment(ctx context.Context, organizationID, period string, kind domain.QuotaKind, amount int64) (repository.UsageQuota, error) {
	if kind == domain.QuotaKindFiles {
		return s.queries.IncrementFilesUsed(ctx, repository.IncrementFilesUsedParams{
			OrganizationID: organizationID,
			Period:         period,
			Amount:         amount,
		})
	}
	return s.queries.IncrementMessagesUsed(ctx, repository.IncrementMessagesUsedParams{
		OrganizationID: organizationID,
		Period:         period,
		Amount:         amount,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func validateQuotaKey(op, organizationID, period string) error {
	if organizationID == "" {
		return domain.Invalid(op, "organization id must not be empty")
	}
	return domain.ValidatePeriod(period)
}

func rowToQuota(row repository.UsageQuota) *domain.UsageQuota {
	return &domain.UsageQuota{
		OrganizationID:   row.OrganizationID,
		Period:           row.Period,
		MessagesUsed:     row.MessagesUsed,
		MessagesLimit:    row.MessagesLimit,
		OverrideMessages: domain.OverrideFromNullInt64(row.OverrideMessages),
		FilesUsed:        row.FilesUsed,
		FilesLimit:       row.FilesLimit,
		OverrideFiles:    domain.OverrideFromNullInt64(row.OverrideFiles),
		LastUpdated:      row.LastUpdated,
	}
}
