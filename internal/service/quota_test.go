package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQuotaGetNotFound(t *testing.T) {
	svc := NewQuotaService(newFakeQuerier(), domain.DefaultCatalog(), testLogger())

	_, err := svc.Get(context.Background(), "org-1", "2025-05")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestQuotaGetInvalidInput(t *testing.T) {
	svc := NewQuotaService(newFakeQuerier(), domain.DefaultCatalog(), testLogger())

	_, err := svc.Get(context.Background(), "", "2025-05")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.Get(context.Background(), "org-1", "May 2025")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestQuotaUpsertLimitsDoesNotResetCounters(t *testing.T) {
	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-1", "free")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	_, err := svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 3)
	require.NoError(t, err)

	quota, err := svc.UpsertLimits(ctx, "org-1", "2025-05",
		domain.TierLimits{MessagesPerMonth: 500, FilesPerMonth: 50},
		domain.QuotaOverrides{Messages: domain.OverrideLimit(10)},
	)
	require.NoError(t, err)

	assert.Equal(t, int64(3), quota.MessagesUsed, "usage must survive a limits upsert")
	assert.Equal(t, int64(500), quota.MessagesLimit)
	assert.Equal(t, int64(10), quota.EffectiveLimit(domain.QuotaKindMessages))
}

func TestQuotaIncrementCreatesRowLazily(t *testing.T) {
	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-1", "plus")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	quota, err := svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindFiles, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), quota.FilesUsed)
	assert.Equal(t, int64(100), quota.FilesLimit, "row must be seeded with plus tier defaults")
	assert.Equal(t, int64(1000), quota.MessagesLimit)
}

func TestQuotaIncrementUnknownOrganizationGetsPublicLimits(t *testing.T) {
	// Public limits are all zero, so an organization the engine has
	// never seen cannot consume anything.
	svc := NewQuotaService(newFakeQuerier(), domain.DefaultCatalog(), testLogger())

	_, err := svc.IncrementUsage(context.Background(), "ghost-org", "2025-05", domain.QuotaKindMessages, 1)
	require.Error(t, err)
	assert.Equal(t, domain.EQUOTA, domain.ErrorCode(err))
}

func TestQuotaIncrementDeniedAtEffectiveLimit(t *testing.T) {
	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-1", "plus")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	// Override shrinks the plus default of 1000 down to 2.
	_, err := svc.UpsertLimits(ctx, "org-1", "2025-05",
		domain.TierLimits{MessagesPerMonth: 1000, FilesPerMonth: 100},
		domain.QuotaOverrides{Messages: domain.OverrideLimit(2)},
	)
	require.NoError(t, err)

	_, err = svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 1)
	require.NoError(t, err)
	_, err = svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 1)
	require.NoError(t, err)

	_, err = svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 1)
	require.Error(t, err)
	assert.Equal(t, domain.EQUOTA, domain.ErrorCode(err))

	row, ok := queries.quota("org-1", "2025-05")
	require.True(t, ok)
	assert.Equal(t, int64(2), row.MessagesUsed, "denied increment must not move the counter")
}

func TestQuotaIncrementUnlimited(t *testing.T) {
	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-1", "enterprise")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	for i := 0; i < 50; i++ {
		_, err := svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 1000)
		require.NoError(t, err)
	}

	row, _ := queries.quota("org-1", "2025-05")
	assert.Equal(t, int64(50000), row.MessagesUsed)
}

func TestQuotaIncrementInvalidInput(t *testing.T) {
	svc := NewQuotaService(newFakeQuerier(), domain.DefaultCatalog(), testLogger())
	ctx := context.Background()

	_, err := svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKind("tokens"), 1)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 0)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, -5)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

// Launching N concurrent increments against a limit of L must produce
// exactly L successes; the stored counter must never exceed L.
func TestQuotaIncrementConcurrentNeverOvershoots(t *testing.T) {
	const (
		workers = 100
		limit   = 10
	)

	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-1", "free")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	_, err := svc.UpsertLimits(ctx, "org-1", "2025-05",
		domain.TierLimits{MessagesPerMonth: limit, FilesPerMonth: 10},
		domain.QuotaOverrides{},
	)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementUsage(ctx, "org-1", "2025-05", domain.QuotaKindMessages, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, denied int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case domain.ErrorCode(err) == domain.EQUOTA:
			denied++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, limit, succeeded)
	assert.Equal(t, workers-limit, denied)

	row, ok := queries.quota("org-1", "2025-05")
	require.True(t, ok)
	assert.Equal(t, int64(limit), row.MessagesUsed)
}

func TestQuotaReconcileSweepsEveryTierAndUntiered(t *testing.T) {
	ctx := context.Background()
	queries := newFakeQuerier()
	queries.putOrg("org-free", "free")
	queries.putOrg("org-biz", "business")
	queries.putOrg("org-none", "")
	svc := NewQuotaService(queries, domain.DefaultCatalog(), testLogger())

	// Seed rows with stale limits from an older catalog.
	for _, org := range []string{"org-free", "org-biz", "org-none"} {
		_, err := svc.UpsertLimits(ctx, org, "2025-05",
			domain.TierLimits{MessagesPerMonth: 7, FilesPerMonth: 7},
			domain.QuotaOverrides{},
		)
		require.NoError(t, err)
	}
	_, err := svc.IncrementUsage(ctx, "org-free", "2025-05", domain.QuotaKindMessages, 5)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, "2025-05"))

	assert.ElementsMatch(t, []string{"free", "plus", "business", "enterprise"}, queries.reconciledTiers)
	assert.True(t, queries.untieredSwept)

	free, _ := queries.quota("org-free", "2025-05")
	assert.Equal(t, int64(100), free.MessagesLimit, "free tier limits recomputed")
	assert.Equal(t, int64(5), free.MessagesUsed, "reconcile must not touch usage")

	biz, _ := queries.quota("org-biz", "2025-05")
	assert.Equal(t, int64(10000), biz.MessagesLimit)

	none, _ := queries.quota("org-none", "2025-05")
	assert.Equal(t, int64(0), none.MessagesLimit, "tierless organizations drop to public limits")
}

func TestQuotaReconcileInvalidPeriod(t *testing.T) {
	svc := NewQuotaService(newFakeQuerier(), domain.DefaultCatalog(), testLogger())

	err := svc.Reconcile(context.Background(), "2025")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
