package service

import (
	"context"
	"encoding/json"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
)

// SettingsService the platform settings singleton.
type SettingsService struct {
	repo   repository.PlatformSettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.PlatformSettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the singleton, creating it with defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	return s.repo.GetOrCreatePlatformSettings(ctx)
}

// Update applies each known "group.field" as a set. Unknown groups, non-object
// group values and unknown fields are ignored.
func (s *SettingsService) Update(ctx context.Context, body map[string]json.RawMessage) (*domain.PlatformSettings, error) {
	patch, err := domain.BuildSettingsPatch(body)
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		s.logger.Info("Updating platform settings", zap.Strings("paths", patch.Paths()))
	}
	return s.repo.PatchPlatformSettings(ctx, patch)
}
