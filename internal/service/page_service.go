package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"
	"github.com/sagar-developer08/Api-v2-sub001/internal/store"

	"go.uber.org/zap"
)

// PageService marketing page content keyed by page name.
type PageService struct {
	repo    repository.PagesRepository
	cache   *store.PageCache // optional
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPageService(repo repository.PagesRepository, cache *store.PageCache, m *metrics.Metrics, logger *zap.Logger) *PageService {
	return &PageService{repo: repo, cache: cache, metrics: m, logger: logger}
}

// GetPage returns the stored content, or {} when the key was never written.
func (s *PageService) GetPage(ctx context.Context, key string) (json.RawMessage, error) {
	if s.cache != nil {
		content, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.metrics.CacheLookup("hit")
			return content, nil
		case errors.Is(err, store.ErrMiss):
			s.metrics.CacheLookup("miss")
		default:
			s.metrics.CacheLookup("error")
			s.logger.Warn("Page cache read failed", zap.String("page", key), zap.Error(err))
		}
	}

	content := domain.EmptyContent
	page, err := s.repo.GetPage(ctx, key)
	switch {
	case err == nil:
		content = page.Content
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	if s.cache != nil {
		if _, err := s.cache.Fill(ctx, key, content); err != nil {
			s.logger.Warn("Page cache fill failed", zap.String("page", key), zap.Error(err))
		}
	}
	return content, nil
}

// UpsertPage replaces the content at key (no merge) and returns the stored page.
func (s *PageService) UpsertPage(ctx context.Context, key string, content json.RawMessage) (*domain.MarketingPage, error) {
	page, err := s.repo.UpsertPage(ctx, key, content)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, page.Content); err != nil {
			s.logger.Warn("Page cache refresh failed, invalidating", zap.String("page", key), zap.Error(err))
			_ = s.cache.Invalidate(ctx, key)
		}
	}
	return page, nil
}
