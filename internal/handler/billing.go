// This file implements billing/subscription management handlers backed by Stripe.
//
// Routes handled:
//   - POST /api/v1/billing/checkout     -> CreateCheckout
//   - POST /api/v1/billing/portal       -> OpenPortal
//   - POST /api/v1/billing/cancel       -> CancelSubscription
//   - POST /api/v1/billing/reactivate   -> ReactivateSubscription
//   - GET  /api/v1/billing/subscription -> GetSubscription

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/billing"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
)

// BillingHandler handles billing and subscription management HTTP requests.
type BillingHandler struct {
	billing billing.Service
	orgs    service.OrganizationService
	baseURL string
	logger  *slog.Logger
}

// NewBillingHandler creates a new BillingHandler.
// billingService may be nil when Stripe is not configured (development mode).
func NewBillingHandler(billingService billing.Service, orgs service.OrganizationService, baseURL string, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billing: billingService,
		orgs:    orgs,
		baseURL: baseURL,
		logger:  logger,
	}
}

// RegisterRoutes registers billing routes on the provided mux.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/billing/checkout", h.CreateCheckout)
	mux.HandleFunc("POST /api/v1/billing/portal", h.OpenPortal)
	mux.HandleFunc("POST /api/v1/billing/cancel", h.CancelSubscription)
	mux.HandleFunc("POST /api/v1/billing/reactivate", h.ReactivateSubscription)
	mux.HandleFunc("GET /api/v1/billing/subscription", h.GetSubscription)
}

// notConfigured reports whether Stripe is unavailable and writes the
// error when it is.
func (h *BillingHandler) notConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.billing != nil {
		return false
	}
	h.logger.Warn("billing request received but Stripe is not configured", "path", r.URL.Path)
	err := &domain.Error{Code: domain.EINVALID, Message: "Billing is not configured"}
	ErrorResponse(w, r, h.logger, err)
	return true
}

type checkoutRequest struct {
	OrganizationID string `json:"organization_id"`
	PriceID        string `json:"price_id"`
	BillingEmail   string `json:"billing_email"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout creates a Stripe Checkout session for an organization
// and returns the URL to redirect the buyer to. The organization id
// travels as the session's client reference so the completion webhook
// can link the resulting customer.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.PriceID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("BillingHandler.CreateCheckout", "price_id is required"))
		return
	}

	org, err := h.orgs.Get(r.Context(), req.OrganizationID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Ensure the organization has a Stripe customer
	customerID := org.StripeCustomerID
	if customerID == "" {
		customerID, err = h.billing.CreateCustomer(req.BillingEmail, org.Name)
		if err != nil {
			h.logger.Error("failed to create stripe customer", "error", err, "organization_id", org.ID)
			InternalErrorResponse(w, r, h.logger, err)
			return
		}
		if err := h.orgs.LinkStripeCustomer(r.Context(), org.ID, customerID); err != nil {
			h.logger.Error("failed to save stripe customer ID", "error", err, "organization_id", org.ID)
		}
	}

	successURL := fmt.Sprintf("%s/billing/success?session_id={CHECKOUT_SESSION_ID}", h.baseURL)
	cancelURL := fmt.Sprintf("%s/billing", h.baseURL)

	checkoutURL, err := h.billing.CreateCheckoutSession(org.ID, customerID, req.PriceID, successURL, cancelURL)
	if err != nil {
		h.logger.Error("failed to create checkout session", "error", err, "organization_id", org.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{URL: checkoutURL})
}

type portalRequest struct {
	OrganizationID string `json:"organization_id"`
}

// OpenPortal creates a Stripe Customer Portal session for an organization.
func (h *BillingHandler) OpenPortal(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}

	var req portalRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	org, err := h.orgs.Get(r.Context(), req.OrganizationID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if org.StripeCustomerID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("BillingHandler.OpenPortal", "organization has no billing account"))
		return
	}

	returnURL := fmt.Sprintf("%s/billing", h.baseURL)
	portalURL, err := h.billing.CreatePortalSession(org.StripeCustomerID, returnURL)
	if err != nil {
		h.logger.Error("failed to create portal session", "error", err, "organization_id", org.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{URL: portalURL})
}

// CancelSubscription sets the subscription to cancel at period end.
// The tier change lands later via the subscription.deleted webhook.
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}

	var req portalRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	org, err := h.orgs.Get(r.Context(), req.OrganizationID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if org.StripeSubscriptionID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("BillingHandler.CancelSubscription", "no active subscription to cancel"))
		return
	}

	if err := h.billing.CancelSubscription(org.StripeSubscriptionID); err != nil {
		h.logger.Error("failed to cancel subscription", "error", err, "organization_id", org.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancel_scheduled"})
}

// ReactivateSubscription removes the cancel-at-period-end flag.
func (h *BillingHandler) ReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}

	var req portalRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	org, err := h.orgs.Get(r.Context(), req.OrganizationID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if org.StripeSubscriptionID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("BillingHandler.ReactivateSubscription", "no subscription to reactivate"))
		return
	}

	if err := h.billing.ReactivateSubscription(org.StripeSubscriptionID); err != nil {
		h.logger.Error("failed to reactivate subscription", "error", err, "organization_id", org.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reactivated"})
}

type subscriptionResponse struct {
	Tier        string `json:"tier,omitempty"`
	Status      string `json:"status,omitempty"`
	PeriodEnd   string `json:"period_end,omitempty"`
	CancelAtEnd bool   `json:"cancel_at_end"`
}

// GetSubscription handles GET /api/v1/billing/subscription?organization_id=...
// It reports the organization's tier plus live subscription details from
// Stripe when available.
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgs.Get(r.Context(), r.URL.Query().Get("organization_id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := subscriptionResponse{Tier: string(org.Tier)}

	if h.billing != nil && org.StripeSubscriptionID != "" {
		sub, err := h.billing.GetSubscription(org.StripeSubscriptionID)
		if err != nil {
			h.logger.Warn("failed to fetch stripe subscription", "error", err, "subscription_id", org.StripeSubscriptionID)
		} else {
			resp.Status = string(sub.Status)
			resp.PeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC().Format("2006-01-02")
			resp.CancelAtEnd = sub.CancelAtPeriodEnd
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
