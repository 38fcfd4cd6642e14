package service

import (
	"context"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
)

// TenantService per-tenant configuration and activity records.
type TenantService struct {
	config   repository.TenantConfigRepository
	activity repository.TenantActivityRepository
	logger   *zap.Logger
}

func NewTenantService(config repository.TenantConfigRepository, activity repository.TenantActivityRepository, logger *zap.Logger) *TenantService {
	return &TenantService{config: config, activity: activity, logger: logger}
}

func (s *TenantService) GetSchoolSettings(ctx context.Context, tenantID string) (*domain.SchoolSettings, error) {
	return s.config.GetSchoolSettings(ctx, tenantID)
}

// PutSchoolSettings upserts the block; the path tenant id wins over any body schoolId.
func (s *TenantService) PutSchoolSettings(ctx context.Context, tenantID string, in domain.SchoolSettings) (*domain.SchoolSettings, error) {
	in.SchoolID = tenantID
	return s.config.UpsertSchoolSettings(ctx, &in)
}

func (s *TenantService) GetFeatureConfig(ctx context.Context, tenantID string) (*domain.FeatureConfig, error) {
	return s.config.GetFeatureConfig(ctx, tenantID)
}

// PutFeatureConfig merges the given flags into the tenant's flags.
func (s *TenantService) PutFeatureConfig(ctx context.Context, tenantID string, features map[string]bool) (*domain.FeatureConfig, error) {
	return s.config.UpsertFeatureConfig(ctx, &domain.FeatureConfig{TenantID: tenantID, Features: features})
}

func (s *TenantService) GetMaintenanceMode(ctx context.Context, tenantID string) (*domain.MaintenanceMode, error) {
	return s.config.GetMaintenanceMode(ctx, tenantID)
}

func (s *TenantService) PutMaintenanceMode(ctx context.Context, tenantID string, in domain.MaintenanceMode) (*domain.MaintenanceMode, error) {
	in.TenantID = tenantID
	return s.config.UpsertMaintenanceMode(ctx, &in)
}

func (s *TenantService) ListNotes(ctx context.Context, tenantID string) ([]*domain.TenantNote, error) {
	return s.activity.ListTenantNotes(ctx, tenantID)
}

func (s *TenantService) AddNote(ctx context.Context, tenantID, authorID, note string) (*domain.TenantNote, error) {
	return s.activity.CreateTenantNote(ctx, &domain.TenantNote{TenantID: tenantID, AuthorID: authorID, Note: note})
}

func (s *TenantService) ListImpersonations(ctx context.Context, tenantID string) ([]*domain.ImpersonationSession, error) {
	return s.activity.ListImpersonationSessions(ctx, tenantID)
}

// StartImpersonation records that adminID began acting as targetUserID.
func (s *TenantService) StartImpersonation(ctx context.Context, tenantID, adminID, targetUserID, reason string) (*domain.ImpersonationSession, error) {
	sess, err := s.activity.CreateImpersonationSession(ctx, &domain.ImpersonationSession{
		TenantID:     tenantID,
		AdminID:      adminID,
		TargetUserID: targetUserID,
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Impersonation session started",
		zap.String("tenant_id", tenantID),
		zap.String("admin_id", adminID),
		zap.String("target_user_id", targetUserID),
	)
	return sess, nil
}
