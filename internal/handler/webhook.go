// This file implements the Stripe webhook handler for processing billing events.
//
// Route:
//   - POST /webhooks/stripe -> HandleStripeWebhook
//
// This route is PUBLIC (no auth middleware) because Stripe calls it directly.
// Authentication is via the Stripe webhook signature verification.

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/billing"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/worker"
	"github.com/stripe/stripe-go/v79"
)

// WebhookHandler handles incoming webhook events from Stripe. Subscription
// changes update the organization's tier and enqueue a reconcile job so
// stored quota limits for the current period catch up.
type WebhookHandler struct {
	billing billing.Service
	orgs    service.OrganizationService
	queries *repository.Queries
	logger  *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
// billingService may be nil when Stripe is not configured.
func NewWebhookHandler(billingService billing.Service, orgs service.OrganizationService, queries *repository.Queries, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing: billingService,
		orgs:    orgs,
		queries: queries,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes on the provided mux.
// These routes are PUBLIC — no auth middleware.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook processes incoming Stripe webhook events.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.billing == nil {
		h.logger.Warn("stripe webhook received but billing is not configured")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Read body (limit to 64KB)
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Verify signature
	signature := r.Header.Get("Stripe-Signature")
	event, err := h.billing.VerifyWebhookSignature(body, signature)
	if err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.logger.Info("stripe webhook received", "type", event.Type, "id", event.ID)

	// Route to event-specific handler
	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(event)
	case "customer.subscription.created":
		h.processSubscriptionEvent(event, "created")
	case "customer.subscription.updated":
		h.processSubscriptionEvent(event, "updated")
	case "customer.subscription.deleted":
		h.handleSubscriptionDeleted(event)
	case "invoice.payment_failed":
		h.handlePaymentFailed(event)
	default:
		h.logger.Debug("unhandled webhook event type", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutCompleted(event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.logger.Error("failed to parse checkout session", "error", err)
		return
	}

	if session.Customer == nil || session.ClientReferenceID == "" {
		h.logger.Warn("checkout session missing customer or client reference", "session_id", session.ID)
		return
	}

	// The checkout session carries the organization id as the client
	// reference; link the Stripe customer so later subscription events
	// can resolve the organization.
	orgID := session.ClientReferenceID
	if err := h.orgs.LinkStripeCustomer(webhookCtx(), orgID, session.Customer.ID); err != nil {
		h.logger.Error("failed to link stripe customer", "error", err,
			"organization_id", orgID, "customer_id", session.Customer.ID)
		return
	}

	h.logger.Info("stripe customer linked", "organization_id", orgID, "customer_id", session.Customer.ID)
}

func (h *WebhookHandler) processSubscriptionEvent(event stripe.Event, action string) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("failed to parse subscription event", "error", err, "action", action)
		return
	}

	if sub.Customer == nil {
		h.logger.Warn("subscription event missing customer", "subscription_id", sub.ID, "action", action)
		return
	}

	org, err := h.orgs.GetByStripeCustomer(webhookCtx(), sub.Customer.ID)
	if err != nil {
		h.logger.Warn("organization not found for subscription event",
			"customer_id", sub.Customer.ID, "subscription_id", sub.ID, "action", action)
		return
	}

	// Determine tier from price
	var tier domain.Tier
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		tier = h.billing.TierForPriceID(sub.Items.Data[0].Price.ID)
	}

	// A canceled or unpaid subscription drops the organization back to
	// the free tier.
	if sub.Status != stripe.SubscriptionStatusActive && sub.Status != stripe.SubscriptionStatusTrialing {
		tier = domain.TierFree
	}

	if err := h.orgs.UpdateSubscription(webhookCtx(), org.ID, tier, sub.ID); err != nil {
		h.logger.Error("failed to update subscription", "error", err, "organization_id", org.ID, "action", action)
		return
	}

	h.enqueueReconcile(org.ID)

	h.logger.Info("subscription event processed",
		"organization_id", org.ID, "action", action, "status", sub.Status, "tier", tier)
}

func (h *WebhookHandler) handleSubscriptionDeleted(event stripe.Event) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("failed to parse subscription deleted event", "error", err)
		return
	}

	if sub.Customer == nil {
		h.logger.Warn("subscription deleted event missing customer", "subscription_id", sub.ID)
		return
	}

	org, err := h.orgs.GetByStripeCustomer(webhookCtx(), sub.Customer.ID)
	if err != nil {
		h.logger.Warn("organization not found for subscription deletion", "customer_id", sub.Customer.ID)
		return
	}

	if err := h.orgs.UpdateSubscription(webhookCtx(), org.ID, domain.TierFree, ""); err != nil {
		h.logger.Error("failed to clear subscription", "error", err, "organization_id", org.ID)
		return
	}

	h.enqueueReconcile(org.ID)

	h.logger.Info("subscription deleted", "organization_id", org.ID, "subscription_id", sub.ID)
}

func (h *WebhookHandler) handlePaymentFailed(event stripe.Event) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		h.logger.Error("failed to parse invoice payment failed event", "error", err)
		return
	}

	if invoice.Customer == nil {
		return
	}

	org, err := h.orgs.GetByStripeCustomer(webhookCtx(), invoice.Customer.ID)
	if err != nil {
		h.logger.Debug("organization not found for payment failed", "customer_id", invoice.Customer.ID)
		return
	}

	// Tier changes wait for the subscription.updated/deleted event that
	// Stripe sends once dunning gives up; here we only surface the signal.
	h.logger.Warn("payment failed", "organization_id", org.ID, "customer_id", invoice.Customer.ID)
}

// enqueueReconcile schedules a limits sweep for the current period so the
// quota store reflects the organization's new tier.
func (h *WebhookHandler) enqueueReconcile(orgID string) {
	period := domain.CurrentPeriod(time.Now())
	job, err := worker.EnqueueReconcilePeriod(webhookCtx(), h.queries, period, worker.WithPriority(worker.PriorityHigh))
	if err != nil {
		h.logger.Error("failed to enqueue reconcile job", "error", err,
			"organization_id", orgID, "period", period)
		return
	}

	h.logger.Info("reconcile job enqueued", "job_id", job.ID, "period", period, "organization_id", orgID)
}

// webhookCtx returns a background context for webhook processing.
// Webhooks are async events and don't have a request context from a user session.
func webhookCtx() context.Context {
	return context.Background()
}
