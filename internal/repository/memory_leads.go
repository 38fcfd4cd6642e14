package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// MemoryLeadsRepo supports lead management when DB is disabled.
type MemoryLeadsRepo struct {
	mu    sync.RWMutex
	leads map[string]domain.Lead
	order []string // insertion order, oldest first
	notes []domain.LeadNote
}

func NewMemoryLeadsRepo() *MemoryLeadsRepo {
	return &MemoryLeadsRepo{leads: map[string]domain.Lead{}}
}

var _ LeadsRepository = (*MemoryLeadsRepo)(nil)

func matchLead(l domain.Lead, filter domain.LeadFilter) bool {
	if filter.Status != "" && string(l.Status) != filter.Status {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(l.Name), q) && !strings.Contains(strings.ToLower(l.Email), q) {
			return false
		}
	}
	return true
}

// newestFirst walks order backwards so equal timestamps still sort newest first.
func (r *MemoryLeadsRepo) newestFirst(filter domain.LeadFilter) []domain.Lead {
	out := []domain.Lead{}
	for i := len(r.order) - 1; i >= 0; i-- {
		l, ok := r.leads[r.order[i]]
		if !ok || !matchLead(l, filter) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r *MemoryLeadsRepo) ListLeads(_ context.Context, filter domain.LeadFilter, skip, limit int) ([]*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := page(r.newestFirst(filter), skip, limit)
	out := make([]*domain.Lead, 0, len(matched))
	for i := range matched {
		l := matched[i]
		out = append(out, &l)
	}
	return out, nil
}

func (r *MemoryLeadsRepo) CountLeads(_ context.Context, filter domain.LeadFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, l := range r.leads {
		if matchLead(l, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryLeadsRepo) GetLead(_ context.Context, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	return &l, nil
}

func (r *MemoryLeadsRepo) CreateLead(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	l := *lead
	l.ApplyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	now := nowUTC()
	l.ID = uuid.NewString()
	l.CreatedAt = now
	l.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[l.ID] = l
	r.order = append(r.order, l.ID)
	return &l, nil
}

func (r *MemoryLeadsRepo) UpdateLead(_ context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	if patch.Empty() {
		return &l, nil
	}
	patch.Apply(&l)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.UpdatedAt = nowUTC()
	r.leads[id] = l
	return &l, nil
}

func (r *MemoryLeadsRepo) DeleteLead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	delete(r.leads, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryLeadsRepo) CountLeadsBySource(_ context.Context) ([]domain.SourceCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int64{}
	for _, l := range r.leads {
		counts[string(l.Source)]++
	}
	out := make([]domain.SourceCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, domain.SourceCount{Source: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

func (r *MemoryLeadsRepo) CountLeadsByDate(_ context.Context, from, to *time.Time) ([]domain.DateCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int64{}
	for _, l := range r.leads {
		if from != nil && l.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && l.CreatedAt.After(*to) {
			continue
		}
		counts[l.CreatedAt.UTC().Format("2006-01-02")]++
	}
	out := make([]domain.DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, domain.DateCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemoryLeadsRepo) CreateLeadNote(_ context.Context, note *domain.LeadNote) (*domain.LeadNote, error) {
	if err := note.Validate(); err != nil {
		return nil, err
	}
	n := *note
	now := nowUTC()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return &n, nil
}

func (r *MemoryLeadsRepo) ListLeadNotes(_ context.Context, leadID string) ([]*domain.LeadNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.LeadNote{}
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].LeadID != leadID {
			continue
		}
		n := r.notes[i]
		out = append(out, &n)
	}
	return out, nil
}
