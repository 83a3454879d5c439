package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeReconcilePeriod = "reconcile_period"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// ReconcilePeriodPayload is the payload for quota reconciliation jobs.
// Period is a month key in "YYYY-MM" form.
type ReconcilePeriodPayload struct {
	Period string `json:"period"`
}

// EnqueueOption is a functional option for customizing job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = time.Now().Add(delay)
	}
}

// EnqueueJob is a generic helper for enqueuing jobs with custom options.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload interface{},
	opts ...EnqueueOption,
) (repository.Job, error) {
	// Marshal the payload to JSON
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	// Default parameters
	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	// Apply options
	for _, opt := range opts {
		opt(&params)
	}

	// Enqueue the job
	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// EnqueueReconcilePeriod enqueues a job to push current tier limits onto
// every usage row for the given period. This is typically called after a
// subscription change lands via the billing webhook.
func EnqueueReconcilePeriod(
	ctx context.Context,
	queries *repository.Queries,
	period string,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := ReconcilePeriodPayload{
		Period: period,
	}

	return EnqueueJob(ctx, queries, JobTypeReconcilePeriod, payload, opts...)
}
