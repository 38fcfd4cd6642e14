package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// MemoryPagesRepo key/value page content held in process.
type MemoryPagesRepo struct {
	mu    sync.RWMutex
	pages map[string]domain.MarketingPage
}

func NewMemoryPagesRepo() *MemoryPagesRepo {
	return &MemoryPagesRepo{pages: map[string]domain.MarketingPage{}}
}

var _ PagesRepository = (*MemoryPagesRepo)(nil)

func (r *MemoryPagesRepo) GetPage(_ context.Context, key string) (*domain.MarketingPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[key]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", key, domain.ErrNotFound)
	}
	p.Content = append(json.RawMessage(nil), p.Content...)
	return &p, nil
}

func (r *MemoryPagesRepo) UpsertPage(_ context.Context, key string, content json.RawMessage) (*domain.MarketingPage, error) {
	if len(content) == 0 || !json.Valid(content) {
		return nil, domain.ValidationError("MarketingPage", "content", "content must be a JSON value")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowUTC()
	p, ok := r.pages[key]
	if !ok {
		p = domain.MarketingPage{ID: uuid.NewString(), Key: key, CreatedAt: now}
	}
	p.Content = append(json.RawMessage(nil), content...)
	p.UpdatedAt = now
	r.pages[key] = p
	out := p
	out.Content = append(json.RawMessage(nil), p.Content...)
	return &out, nil
}

// MemoryOnboardingRepo single onboarding document held in process.
type MemoryOnboardingRepo struct {
	mu  sync.Mutex
	doc *domain.MarketingOnboarding
}

func NewMemoryOnboardingRepo() *MemoryOnboardingRepo {
	return &MemoryOnboardingRepo{}
}

var _ OnboardingRepository = (*MemoryOnboardingRepo)(nil)

// ensure must be called with mu held.
func (r *MemoryOnboardingRepo) ensure(completed bool) {
	if r.doc != nil {
		return
	}
	o := domain.NewDefaultOnboarding()
	now := nowUTC()
	o.ID = uuid.NewString()
	o.Completed = completed
	o.CreatedAt = now
	o.UpdatedAt = now
	r.doc = &o
}

func (r *MemoryOnboardingRepo) snapshot() *domain.MarketingOnboarding {
	o := *r.doc
	o.Steps = append([]domain.OnboardingStep(nil), r.doc.Steps...)
	return &o
}

func (r *MemoryOnboardingRepo) GetOrCreateOnboarding(_ context.Context) (*domain.MarketingOnboarding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(false)
	return r.snapshot(), nil
}

func (r *MemoryOnboardingRepo) UpdateOnboarding(_ context.Context, u domain.OnboardingUpdate) (*domain.MarketingOnboarding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(false)
	if !u.Empty() {
		u.Apply(r.doc)
		r.doc.UpdatedAt = nowUTC()
	}
	return r.snapshot(), nil
}

func (r *MemoryOnboardingRepo) CompleteOnboarding(_ context.Context) (*domain.MarketingOnboarding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(true)
	r.doc.Completed = true
	r.doc.UpdatedAt = nowUTC()
	return r.snapshot(), nil
}

// MemoryPlatformSettingsRepo singleton settings held in process.
type MemoryPlatformSettingsRepo struct {
	mu  sync.Mutex
	doc *domain.PlatformSettings
}

func NewMemoryPlatformSettingsRepo() *MemoryPlatformSettingsRepo {
	return &MemoryPlatformSettingsRepo{}
}

var _ PlatformSettingsRepository = (*MemoryPlatformSettingsRepo)(nil)

func (r *MemoryPlatformSettingsRepo) ensure() {
	if r.doc != nil {
		return
	}
	s := domain.DefaultPlatformSettings()
	now := nowUTC()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.doc = &s
}

func (r *MemoryPlatformSettingsRepo) GetOrCreatePlatformSettings(_ context.Context) (*domain.PlatformSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	s := *r.doc
	return &s, nil
}

func (r *MemoryPlatformSettingsRepo) PatchPlatformSettings(_ context.Context, patch domain.SettingsPatch) (*domain.PlatformSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if patch.Empty() {
		s := *r.doc
		return &s, nil
	}
	next := *r.doc
	if err := next.ApplyPatch(patch); err != nil {
		return nil, err
	}
	next.UpdatedAt = nowUTC()
	r.doc = &next
	s := next
	return &s, nil
}
