package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// MemoryTenantConfigRepo per-tenant configuration when DB is disabled.
type MemoryTenantConfigRepo struct {
	mu          sync.RWMutex
	schools     map[string]domain.SchoolSettings  // schoolID ->
	features    map[string]domain.FeatureConfig   // tenantID ->
	maintenance map[string]domain.MaintenanceMode // tenantID ->
}

func NewMemoryTenantConfigRepo() *MemoryTenantConfigRepo {
	return &MemoryTenantConfigRepo{
		schools:     map[string]domain.SchoolSettings{},
		features:    map[string]domain.FeatureConfig{},
		maintenance: map[string]domain.MaintenanceMode{},
	}
}

var _ TenantConfigRepository = (*MemoryTenantConfigRepo)(nil)

func (r *MemoryTenantConfigRepo) GetSchoolSettings(_ context.Context, schoolID string) (*domain.SchoolSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schools[schoolID]
	if !ok {
		return nil, fmt.Errorf("school settings %s: %w", schoolID, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *MemoryTenantConfigRepo) UpsertSchoolSettings(_ context.Context, in *domain.SchoolSettings) (*domain.SchoolSettings, error) {
	s := *in
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowUTC()
	if prev, ok := r.schools[s.SchoolID]; ok {
		s.ID = prev.ID
		s.CreatedAt = prev.CreatedAt
	} else {
		s.ID = uuid.NewString()
		s.CreatedAt = now
	}
	s.Metadata = append(json.RawMessage(nil), s.Metadata...)
	s.UpdatedAt = now
	r.schools[s.SchoolID] = s
	return &s, nil
}

func (r *MemoryTenantConfigRepo) GetFeatureConfig(_ context.Context, tenantID string) (*domain.FeatureConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.features[tenantID]
	if !ok {
		return nil, fmt.Errorf("feature config %s: %w", tenantID, domain.ErrNotFound)
	}
	return cloneFeatures(f), nil
}

func cloneFeatures(f domain.FeatureConfig) *domain.FeatureConfig {
	flags := make(map[string]bool, len(f.Features))
	for k, v := range f.Features {
		flags[k] = v
	}
	f.Features = flags
	return &f
}

func (r *MemoryTenantConfigRepo) UpsertFeatureConfig(_ context.Context, in *domain.FeatureConfig) (*domain.FeatureConfig, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowUTC()
	f, ok := r.features[in.TenantID]
	if !ok {
		f = domain.FeatureConfig{ID: uuid.NewString(), TenantID: in.TenantID, Features: map[string]bool{}, CreatedAt: now}
	} else {
		f = *cloneFeatures(f)
	}
	for k, v := range in.Features {
		f.Features[k] = v
	}
	f.UpdatedAt = now
	r.features[in.TenantID] = f
	return cloneFeatures(f), nil
}

func (r *MemoryTenantConfigRepo) GetMaintenanceMode(_ context.Context, tenantID string) (*domain.MaintenanceMode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.maintenance[tenantID]
	if !ok {
		return nil, fmt.Errorf("maintenance mode %s: %w", tenantID, domain.ErrNotFound)
	}
	m.StartsAt = copyTime(m.StartsAt)
	m.EndsAt = copyTime(m.EndsAt)
	return &m, nil
}

func (r *MemoryTenantConfigRepo) UpsertMaintenanceMode(_ context.Context, in *domain.MaintenanceMode) (*domain.MaintenanceMode, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := *in
	m.StartsAt = copyTime(in.StartsAt)
	m.EndsAt = copyTime(in.EndsAt)

	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowUTC()
	if prev, ok := r.maintenance[m.TenantID]; ok {
		m.ID = prev.ID
		m.CreatedAt = prev.CreatedAt
	} else {
		m.ID = uuid.NewString()
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	r.maintenance[m.TenantID] = m
	out := m
	out.StartsAt = copyTime(m.StartsAt)
	out.EndsAt = copyTime(m.EndsAt)
	return &out, nil
}

// MemoryTenantActivityRepo append-only tenant notes and impersonation sessions.
type MemoryTenantActivityRepo struct {
	mu       sync.RWMutex
	notes    []domain.TenantNote
	sessions []domain.ImpersonationSession
}

func NewMemoryTenantActivityRepo() *MemoryTenantActivityRepo {
	return &MemoryTenantActivityRepo{}
}

var _ TenantActivityRepository = (*MemoryTenantActivityRepo)(nil)

func (r *MemoryTenantActivityRepo) CreateTenantNote(_ context.Context, in *domain.TenantNote) (*domain.TenantNote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n := *in
	n.ID = uuid.NewString()
	n.CreatedAt = nowUTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return &n, nil
}

func (r *MemoryTenantActivityRepo) ListTenantNotes(_ context.Context, tenantID string) ([]*domain.TenantNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.TenantNote{}
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].TenantID == tenantID {
			n := r.notes[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (r *MemoryTenantActivityRepo) CreateImpersonationSession(_ context.Context, in *domain.ImpersonationSession) (*domain.ImpersonationSession, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s := *in
	now := nowUTC()
	s.ID = uuid.NewString()
	if s.StartedAt.IsZero() {
		s.StartedAt = now
	}
	s.EndedAt = copyTime(in.EndedAt)
	s.CreatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, s)
	return &s, nil
}

func (r *MemoryTenantActivityRepo) ListImpersonationSessions(_ context.Context, tenantID string) ([]*domain.ImpersonationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.ImpersonationSession{}
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if r.sessions[i].TenantID == tenantID {
			s := r.sessions[i]
			s.EndedAt = copyTime(s.EndedAt)
			out = append(out, &s)
		}
	}
	return out, nil
}
