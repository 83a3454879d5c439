// Package service contains the business logic layer.
//
// This file implements organization lookup and the tier changes driven
// by billing events.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// OrganizationService manages organizations and their tier assignment.
type OrganizationService interface {
	// Create registers a new organization, optionally with a tier.
	Create(ctx context.Context, id, name string, tier domain.Tier) (*domain.Organization, error)

	// Get returns an organization by id.
	Get(ctx context.Context, id string) (*domain.Organization, error)

	// GetByStripeCustomer returns the organization linked to a Stripe
	// customer id.
	GetByStripeCustomer(ctx context.Context, customerID string) (*domain.Organization, error)

	// LinkStripeCustomer stores the Stripe customer id for an
	// organization after checkout.
	LinkStripeCustomer(ctx context.Context, id, customerID string) error

	// UpdateSubscription applies a billing event: it sets the
	// organization's tier and subscription id. An empty tier clears
	// the assignment (subscription ended), dropping the organization
	// to public limits.
	UpdateSubscription(ctx context.Context, id string, tier domain.Tier, subscriptionID string) error
}

// =============================================================================
// Implementation
// =============================================================================

type organizationService struct {
	queries repository.Querier
	logger  *slog.Logger
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(queries repository.Querier, logger *slog.Logger) OrganizationService {
	return &organizationService{
		queries: queries,
		logger:  logger,
	}
}

// Create registers a new organization.
func (s *organizationService) Create(ctx context.Context, id, name string, tier domain.Tier) (*domain.Organization, error) {
	const op = "organization.create"

	if id == "" {
		return nil, domain.Invalid(op, "organization id must not be empty")
	}
	if name == "" {
		return nil, domain.Invalid(op, "organization name must not be empty")
	}
	if tier != "" {
		if _, err := domain.ParseTier(string(tier)); err != nil {
			return nil, err
		}
	}

	row, err := s.queries.CreateOrganization(ctx, repository.CreateOrganizationParams{
		ID:   id,
		Name: name,
		Tier: domain.ToNullString(string(tier)),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create organization")
	}

	return rowToOrganization(row), nil
}

// Get returns an organization by id.
func (s *organizationService) Get(ctx context.Context, id string) (*domain.Organization, error) {
	const op = "organization.get"

	if id == "" {
		return nil, domain.Invalid(op, "organization id must not be empty")
	}

	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "organization", id)
		}
		return nil, domain.Internal(err, op, "failed to load organization")
	}

	return rowToOrganization(row), nil
}

// GetByStripeCustomer returns the organization for a Stripe customer.
func (s *organizationService) GetByStripeCustomer(ctx context.Context, customerID string) (*domain.Organization, error) {
	const op = "organization.get_by_stripe_customer"

	if customerID == "" {
		return nil, domain.Invalid(op, "stripe customer id must not be empty")
	}

	row, err := s.queries.GetOrganizationByStripeCustomerID(ctx, domain.ToNullString(customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "organization", customerID)
		}
		return nil, domain.Internal(err, op, "failed to load organization")
	}

	return rowToOrganization(row), nil
}

// LinkStripeCustomer stores the Stripe customer id.
func (s *organizationService) LinkStripeCustomer(ctx context.Context, id, customerID string) error {
	const op = "organization.link_stripe_customer"

	if id == "" {
		return domain.Invalid(op, "organization id must not be empty")
	}
	if customerID == "" {
		return domain.Invalid(op, "stripe customer id must not be empty")
	}

	err := s.queries.SetOrganizationStripeCustomer(ctx, repository.SetOrganizationStripeCustomerParams{
		ID:               id,
		StripeCustomerID: domain.ToNullString(customerID),
	})
	if err != nil {
		return domain.Internal(err, op, "failed to link stripe customer")
	}
	return nil
}

// UpdateSubscription applies a tier change from billing.
func (s *organizationService) UpdateSubscription(ctx context.Context, id string, tier domain.Tier, subscriptionID string) error {
	const op = "organization.update_subscription"

	if id == "" {
		return domain.Invalid(op, "organization id must not be empty")
	}
	if tier != "" {
		if _, err := domain.ParseTier(string(tier)); err != nil {
			return err
		}
	}

	err := s.queries.UpdateOrganizationSubscription(ctx, repository.UpdateOrganizationSubscriptionParams{
		ID:                   id,
		Tier:                 domain.ToNullString(string(tier)),
		StripeSubscriptionID: domain.ToNullString(subscriptionID),
	})
	if err != nil {
		return domain.Internal(err, op, "failed to update subscription")
	}

	s.logger.Info("Organization subscription updated",
		"organization_id", id,
		"tier", tier,
	)
	return nil
}

func rowToOrganization(row repository.Organization) *domain.Organization {
	return &domain.Organization{
		ID:                   row.ID,
		Name:                 row.Name,
		Tier:                 domain.Tier(domain.NullStringValue(row.Tier)),
		StripeCustomerID:     domain.NullStringValue(row.StripeCustomerID),
		StripeSubscriptionID: domain.NullStringValue(row.StripeSubscriptionID),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}
