package repository

import (
	"time"
)

// page applies skip/limit to an already ordered slice; limit <= 0 means no limit.
func page[T any](all []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip > len(all) {
		skip = len(all)
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end]
}

func nowUTC() time.Time { return time.Now().UTC() }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NewMemoryStore returns a Store backed entirely by in-process maps. Used when
// the database is disabled or unreachable, and by tests.
func NewMemoryStore() *Store {
	leads := NewMemoryLeadsRepo()
	return &Store{
		Leads:          leads,
		Campaigns:      NewMemoryCampaignsRepo(),
		Pages:          NewMemoryPagesRepo(),
		Onboarding:     NewMemoryOnboardingRepo(),
		Settings:       NewMemoryPlatformSettingsRepo(),
		TenantConfig:   NewMemoryTenantConfigRepo(),
		TenantActivity: NewMemoryTenantActivityRepo(),
		Audit:          NewMemoryAuditLogRepo(),
	}
}
