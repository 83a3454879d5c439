package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/worker"
)

// ReconcilePeriodHandler processes jobs that push the current tier catalog
// onto every usage row for a billing period. Subscription changes enqueue
// one of these so stored limits catch up with the organization's new tier.
type ReconcilePeriodHandler struct {
	quotas service.QuotaService
	logger *slog.Logger
}

// NewReconcilePeriodHandler creates a new handler for quota reconciliation jobs.
func NewReconcilePeriodHandler(quotas service.QuotaService, logger *slog.Logger) *ReconcilePeriodHandler {
	return &ReconcilePeriodHandler{
		quotas: quotas,
		logger: logger,
	}
}

// Type returns the job type identifier.
func (h *ReconcilePeriodHandler) Type() string {
	return worker.JobTypeReconcilePeriod
}

// Handle executes the reconciliation job. Usage counters are never touched;
// only limit columns are rewritten.
func (h *ReconcilePeriodHandler) Handle(ctx context.Context, payload []byte) error {
	// Unmarshal the payload
	var p worker.ReconcilePeriodPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	h.logger.Info("Reconciling quota limits", "period", p.Period)

	if err := h.quotas.Reconcile(ctx, p.Period); err != nil {
		if domain.ErrorCode(err) == domain.EINVALID {
			// A malformed period will never succeed on retry
			return worker.NewPermanentError(fmt.Errorf("reconcile period: %w", err))
		}
		// Database errors are retryable
		return fmt.Errorf("reconcile period: %w", err)
	}

	h.logger.Info("Quota reconciliation completed", "period", p.Period)
	return nil
}
