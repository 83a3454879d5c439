// Package service contains the business logic layer.
//
// This file implements the entitlement resolver: it answers whether an
// action is within quota without consuming any of it. Callers that get
// an authorized decision commit by calling QuotaService.IncrementUsage
// after the guarded action succeeds, so an aborted action never
// corrupts the counters.
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

// CheckParams describes one entitlement check.
type CheckParams struct {
	OrganizationID string
	Period         string
	Tier           domain.Tier // empty means no tier: public limits apply
	Action         domain.Action
	FileSizeMB     int64 // only meaningful for upload_file
}

// EntitlementService resolves authorization decisions against tier
// limits, stored overrides, and current usage.
type EntitlementService interface {
	// Check returns an authorization decision for the requested action.
	// It never mutates counters. Returns domain.EINVALID for
	// out-of-domain input and domain.EUNKNOWNTIER for a tier name the
	// catalog does not know.
	Check(ctx context.Context, params CheckParams) (domain.Decision, error)
}

// =============================================================================
// Implementation
// =============================================================================

type entitlementService struct {
	queries repository.Querier
	catalog domain.Catalog
	logger  *slog.Logger
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(queries repository.Querier, catalog domain.Catalog, logger *slog.Logger) EntitlementService {
	return &entitlementService{
		queries: queries,
		catalog: catalog,
		logger:  logger,
	}
}

// Check resolves effective limits and decides the requested action.
func (s *entitlementService) Check(ctx context.Context, params CheckParams) (domain.Decision, error) {
	const op = "entitlement.check"

	if err := s.validate(op, params); err != nil {
		return domain.Decision{}, err
	}

	limits, err := s.limitsForTier(params.Tier)
	if err != nil {
		return domain.Decision{}, err
	}

	// Oversized files are rejected before any count-based quota so the
	// caller gets the reduce-file-size remediation, not an upgrade
	// prompt, even with plenty of headroom.
	if params.Action == domain.ActionUploadFile &&
		limits.MaxFileSizeMB != domain.Unlimited &&
		params.FileSizeMB > limits.MaxFileSizeMB {
		s.logDenial(params, domain.DenialFileTooLarge)
		return domain.Deny(domain.DenialFileTooLarge), nil
	}

	kind := params.Action.Kind()
	used, override, err := s.currentUsage(ctx, params.OrganizationID, params.Period, kind)
	if err != nil {
		return domain.Decision{}, err
	}

	tierDefault := limits.MessagesPerMonth
	if kind == domain.QuotaKindFiles {
		tierDefault = limits.FilesPerMonth
	}
	limit := override.Resolve(tierDefault)

	if limit == domain.Unlimited {
		metrics.EntitlementChecked(string(params.Action), "authorized")
		return domain.Authorize(domain.Unlimited), nil
	}

	if used+1 > limit {
		s.logDenial(params, domain.DenialQuotaExceeded)
		return domain.Deny(domain.DenialQuotaExceeded), nil
	}

	metrics.EntitlementChecked(string(params.Action), "authorized")
	return domain.Authorize(limit - used - 1), nil
}

func (s *entitlementService) validate(op string, params CheckParams) error {
	if params.OrganizationID == "" {
		return domain.Invalid(op, "organization id must not be empty")
	}
	if err := domain.ValidatePeriod(params.Period); err != nil {
		return err
	}
	if _, err := domain.ParseAction(string(params.Action)); err != nil {
		return err
	}
	if params.Action == domain.ActionUploadFile && params.FileSizeMB < 0 {
		return domain.Invalid(op, "file size must not be negative")
	}
	return nil
}

// limitsForTier resolves the catalog entry for a tier, using the public
// limit set when no tier is supplied.
func (s *entitlementService) limitsForTier(tier domain.Tier) (domain.TierLimits, error) {
	if tier == "" {
		return s.catalog.PublicLimits(), nil
	}
	return s.catalog.LimitsFor(tier)
}

// currentUsage reads the stored counter and override for a kind. A
// missing row means the organization has not used anything this period.
func (s *entitlementService) currentUsage(ctx context.Context, organizationID, period string, kind domain.QuotaKind) (int64, domain.LimitOverride, error) {
	row, err := s.queries.GetUsageQuota(ctx, repository.GetUsageQuotaParams{
		OrganizationID: organizationID,
		Period:         period,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NoOverride(), nil
		}
		return 0, domain.NoOverride(), domain.Internal(err, "entitlement.current_usage", "failed to load usage quota")
	}

	quota := rowToQuota(row)
	return quota.Used(kind), quotaOverride(quota, kind), nil
}

func quotaOverride(q *domain.UsageQuota, kind domain.QuotaKind) domain.LimitOverride {
	if kind == domain.QuotaKindFiles {
		return q.OverrideFiles
	}
	return q.OverrideMessages
}

func (s *entitlementService) logDenial(params CheckParams, reason domain.DenialReason) {
	s.logger.Info("Entitlement denied",
		"organization_id", params.OrganizationID,
		"period", params.Period,
		"tier", params.Tier,
		"action", params.Action,
		"reason", reason,
	)
	metrics.EntitlementChecked(string(params.Action), string(reason))
}
