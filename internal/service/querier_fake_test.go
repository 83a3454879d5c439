package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
)

// fakeQuerier is an in-memory Querier for service tests. Its increment
// methods honor the same contract as the real conditional UPDATE: the
// bound check and the write happen under one lock, and a write whose
// bound fails reports sql.ErrNoRows.
type fakeQuerier struct {
	repository.Querier // panics on methods a test does not stub

	mu         sync.Mutex
	orgs       map[string]repository.Organization
	quotas     map[string]repository.UsageQuota
	deliveries []repository.DeliveryResult

	insertDeliveryErr error
	reconciledTiers   []string
	untieredSwept     bool
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		orgs:   make(map[string]repository.Organization),
		quotas: make(map[string]repository.UsageQuota),
	}
}

func quotaKey(orgID, period string) string {
	return orgID + "/" + period
}

func (f *fakeQuerier) putOrg(id, tier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org := repository.Organization{ID: id, Name: id}
	if tier != "" {
		org.Tier = sql.NullString{String: tier, Valid: true}
	}
	f.orgs[id] = org
}

func (f *fakeQuerier) GetOrganization(_ context.Context, id string) (repository.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[id]
	if !ok {
		return repository.Organization{}, sql.ErrNoRows
	}
	return org, nil
}

func (f *fakeQuerier) GetUsageQuota(_ context.Context, arg repository.GetUsageQuotaParams) (repository.UsageQuota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.quotas[quotaKey(arg.OrganizationID, arg.Period)]
	if !ok {
		return repository.UsageQuota{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakeQuerier) CreateUsageQuotaIfAbsent(_ context.Context, arg repository.CreateUsageQuotaIfAbsentParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := quotaKey(arg.OrganizationID, arg.Period)
	if _, ok := f.quotas[key]; ok {
		return nil
	}
	f.quotas[key] = repository.UsageQuota{
		OrganizationID:   arg.OrganizationID,
		Period:           arg.Period,
		MessagesLimit:    arg.MessagesLimit,
		OverrideMessages: arg.OverrideMessages,
		FilesLimit:       arg.FilesLimit,
		OverrideFiles:    arg.OverrideFiles,
		LastUpdated:      time.Now().UTC(),
	}
	return nil
}

func (f *fakeQuerier) UpsertUsageQuotaLimits(_ context.Context, arg repository.UpsertUsageQuotaLimitsParams) (repository.UsageQuota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := quotaKey(arg.OrganizationID, arg.Period)
	row, ok := f.quotas[key]
	if !ok {
		row = repository.UsageQuota{OrganizationID: arg.OrganizationID, Period: arg.Period}
	}
	row.MessagesLimit = arg.MessagesLimit
	row.OverrideMessages = arg.OverrideMessages
	row.FilesLimit = arg.FilesLimit
	row.OverrideFiles = arg.OverrideFiles
	row.LastUpdated = time.Now().UTC()
	f.quotas[key] = row
	return row, nil
}

func effectiveLimit(override sql.NullInt64, limit int64) int64 {
	if override.Valid {
		return override.Int64
	}
	return limit
}

func (f *fakeQuerier) IncrementMessagesUsed(_ context.Context, arg repository.IncrementMessagesUsedParams) (repository.UsageQuota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := quotaKey(arg.OrganizationID, arg.Period)
	row, ok := f.quotas[key]
	if !ok {
		return repository.UsageQuota{}, sql.ErrNoRows
	}
	limit := effectiveLimit(row.OverrideMessages, row.MessagesLimit)
	if limit != -1 && row.MessagesUsed+arg.Amount > limit {
		return repository.UsageQuota{}, sql.ErrNoRows
	}
	row.MessagesUsed += arg.Amount
	row.LastUpdated = time.Now().UTC()
	f.quotas[key] = row
	return row, nil
}

func (f *fakeQuerier) IncrementFilesUsed(_ context.Context, arg repository.IncrementFilesUsedParams) (repository.UsageQuota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := quotaKey(arg.OrganizationID, arg.Period)
	row, ok := f.quotas[key]
	if !ok {
		return repository.UsageQuota{}, sql.ErrNoRows
	}
	limit := effectiveLimit(row.OverrideFiles, row.FilesLimit)
	if limit != -1 && row.FilesUsed+arg.Amount > limit {
		return repository.UsageQuota{}, sql.ErrNoRows
	}
	row.FilesUsed += arg.Amount
	row.LastUpdated = time.Now().UTC()
	f.quotas[key] = row
	return row, nil
}

func (f *fakeQuerier) ReconcileQuotaLimitsByTier(_ context.Context, arg repository.ReconcileQuotaLimitsByTierParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciledTiers = append(f.reconciledTiers, arg.Tier)

	var n int64
	for key, row := range f.quotas {
		if row.Period != arg.Period {
			continue
		}
		org, ok := f.orgs[row.OrganizationID]
		if !ok || !org.Tier.Valid || org.Tier.String != arg.Tier {
			continue
		}
		row.MessagesLimit = arg.MessagesLimit
		row.FilesLimit = arg.FilesLimit
		row.LastUpdated = time.Now().UTC()
		f.quotas[key] = row
		n++
	}
	return n, nil
}

func (f *fakeQuerier) ReconcileQuotaLimitsForUntiered(_ context.Context, arg repository.ReconcileQuotaLimitsForUntieredParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.untieredSwept = true

	var n int64
	for key, row := range f.quotas {
		if row.Period != arg.Period {
			continue
		}
		if org, ok := f.orgs[row.OrganizationID]; ok && org.Tier.Valid {
			continue
		}
		row.MessagesLimit = arg.MessagesLimit
		row.FilesLimit = arg.FilesLimit
		row.LastUpdated = time.Now().UTC()
		f.quotas[key] = row
		n++
	}
	return n, nil
}

func (f *fakeQuerier) InsertDeliveryResult(_ context.Context, arg repository.InsertDeliveryResultParams) (repository.DeliveryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertDeliveryErr != nil {
		return repository.DeliveryResult{}, f.insertDeliveryErr
	}
	row := repository.DeliveryResult{
		ID:               arg.ID,
		NotificationID:   arg.NotificationID,
		UserID:           arg.UserID,
		Channel:          arg.Channel,
		Provider:         arg.Provider,
		Status:           arg.Status,
		ErrorMessage:     arg.ErrorMessage,
		ExternalUserID:   arg.ExternalUserID,
		ProviderResponse: arg.ProviderResponse,
		CreatedAt:        time.Now().UTC(),
	}
	f.deliveries = append(f.deliveries, row)
	return row, nil
}

func (f *fakeQuerier) quota(orgID, period string) (repository.UsageQuota, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.quotas[quotaKey(orgID, period)]
	return row, ok
}
