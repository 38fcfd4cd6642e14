package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// Repositories in this package are the "store layer": they enforce the
// collection schemas (required fields, enums, uniqueness, defaults,
// timestamps) and report absent ids as domain.ErrNotFound and schema
// violations as domain.ErrValidation.

// LeadsRepository leads + lead notes. Notes are not deleted with their lead.
type LeadsRepository interface {
	// ListLeads newest-first; limit <= 0 returns every matching lead.
	ListLeads(ctx context.Context, filter domain.LeadFilter, skip, limit int) ([]*domain.Lead, error)
	CountLeads(ctx context.Context, filter domain.LeadFilter) (int64, error)
	GetLead(ctx context.Context, id string) (*domain.Lead, error)
	CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	// UpdateLead sets every non-nil patch field. An empty patch returns the current lead.
	UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error)
	DeleteLead(ctx context.Context, id string) error

	CountLeadsBySource(ctx context.Context) ([]domain.SourceCount, error)
	// CountLeadsByDate groups by UTC day; from/to are inclusive and optional.
	CountLeadsByDate(ctx context.Context, from, to *time.Time) ([]domain.DateCount, error)

	// CreateLeadNote does not check that the lead exists.
	CreateLeadNote(ctx context.Context, note *domain.LeadNote) (*domain.LeadNote, error)
	// ListLeadNotes newest-first.
	ListLeadNotes(ctx context.Context, leadID string) ([]*domain.LeadNote, error)
}

type CampaignsRepository interface {
	ListCampaigns(ctx context.Context, filter domain.CampaignFilter, skip, limit int) ([]*domain.Campaign, error)
	CountCampaigns(ctx context.Context, filter domain.CampaignFilter) (int64, error)
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error)
	// TransitionCampaign applies a send/schedule/cancel action atomically.
	TransitionCampaign(ctx context.Context, id string, t domain.CampaignTransition) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	// CountCampaignsByStatus sorted by status.
	CountCampaignsByStatus(ctx context.Context) ([]domain.StatusCount, error)
}

// PagesRepository key/value marketing content.
type PagesRepository interface {
	// GetPage returns domain.ErrNotFound when key was never written.
	GetPage(ctx context.Context, key string) (*domain.MarketingPage, error)
	// UpsertPage replaces the content at key, creating the document if needed.
	UpsertPage(ctx context.Context, key string, content json.RawMessage) (*domain.MarketingPage, error)
}

// OnboardingRepository the single "default" onboarding document.
type OnboardingRepository interface {
	// GetOrCreateOnboarding is an atomic find-or-insert of domain.NewDefaultOnboarding.
	GetOrCreateOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error)
	// UpdateOnboarding expects the document to exist (see GetOrCreateOnboarding).
	// Step indexes outside the stored steps list are ignored.
	UpdateOnboarding(ctx context.Context, u domain.OnboardingUpdate) (*domain.MarketingOnboarding, error)
	// CompleteOnboarding upserts completed=true without looking at steps.
	CompleteOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error)
}

// PlatformSettingsRepository the singleton settings document.
type PlatformSettingsRepository interface {
	GetOrCreatePlatformSettings(ctx context.Context) (*domain.PlatformSettings, error)
	// PatchPlatformSettings applies set-only dotted-path writes, upserting the document.
	PatchPlatformSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.PlatformSettings, error)
}

// TenantConfigRepository per-tenant configuration blocks, one document per tenant.
type TenantConfigRepository interface {
	GetSchoolSettings(ctx context.Context, schoolID string) (*domain.SchoolSettings, error)
	UpsertSchoolSettings(ctx context.Context, s *domain.SchoolSettings) (*domain.SchoolSettings, error)
	GetFeatureConfig(ctx context.Context, tenantID string) (*domain.FeatureConfig, error)
	// UpsertFeatureConfig merges the given flags into the stored ones.
	UpsertFeatureConfig(ctx context.Context, f *domain.FeatureConfig) (*domain.FeatureConfig, error)
	GetMaintenanceMode(ctx context.Context, tenantID string) (*domain.MaintenanceMode, error)
	UpsertMaintenanceMode(ctx context.Context, m *domain.MaintenanceMode) (*domain.MaintenanceMode, error)
}

// TenantActivityRepository append-only tenant records.
type TenantActivityRepository interface {
	CreateTenantNote(ctx context.Context, n *domain.TenantNote) (*domain.TenantNote, error)
	ListTenantNotes(ctx context.Context, tenantID string) ([]*domain.TenantNote, error)
	CreateImpersonationSession(ctx context.Context, s *domain.ImpersonationSession) (*domain.ImpersonationSession, error)
	ListImpersonationSessions(ctx context.Context, tenantID string) ([]*domain.ImpersonationSession, error)
}

// AuditLogRepository append-only; no update or delete.
type AuditLogRepository interface {
	AppendAuditLog(ctx context.Context, entry *domain.PlatformAuditLog) (*domain.PlatformAuditLog, error)
	// ListAuditLogs newest-first.
	ListAuditLogs(ctx context.Context, filter domain.AuditFilter, skip, limit int) ([]*domain.PlatformAuditLog, error)
	CountAuditLogs(ctx context.Context, filter domain.AuditFilter) (int64, error)
}

// Store groups every repository so main can swap backends in one place.
type Store struct {
	Leads          LeadsRepository
	Campaigns      CampaignsRepository
	Pages          PagesRepository
	Onboarding     OnboardingRepository
	Settings       PlatformSettingsRepository
	TenantConfig   TenantConfigRepository
	TenantActivity TenantActivityRepository
	Audit          AuditLogRepository
}
