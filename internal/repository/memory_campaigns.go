package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// MemoryCampaignsRepo supports campaign management when DB is disabled.
type MemoryCampaignsRepo struct {
	mu        sync.RWMutex
	campaigns map[string]domain.Campaign
	order     []string
}

func NewMemoryCampaignsRepo() *MemoryCampaignsRepo {
	return &MemoryCampaignsRepo{campaigns: map[string]domain.Campaign{}}
}

var _ CampaignsRepository = (*MemoryCampaignsRepo)(nil)

func matchCampaign(c domain.Campaign, filter domain.CampaignFilter) bool {
	if filter.Status != "" && string(c.Status) != filter.Status {
		return false
	}
	if filter.Type != "" && string(c.Type) != filter.Type {
		return false
	}
	return true
}

// clone detaches the optional timestamps from the stored value.
func cloneCampaign(c domain.Campaign) *domain.Campaign {
	c.ScheduledDate = copyTime(c.ScheduledDate)
	c.SentAt = copyTime(c.SentAt)
	return &c
}

func (r *MemoryCampaignsRepo) ListCampaigns(_ context.Context, filter domain.CampaignFilter, skip, limit int) ([]*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []domain.Campaign{}
	for i := len(r.order) - 1; i >= 0; i-- {
		c, ok := r.campaigns[r.order[i]]
		if !ok || !matchCampaign(c, filter) {
			continue
		}
		all = append(all, c)
	}
	matched := page(all, skip, limit)
	out := make([]*domain.Campaign, 0, len(matched))
	for _, c := range matched {
		out = append(out, cloneCampaign(c))
	}
	return out, nil
}

func (r *MemoryCampaignsRepo) CountCampaigns(_ context.Context, filter domain.CampaignFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.campaigns {
		if matchCampaign(c, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryCampaignsRepo) GetCampaign(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	return cloneCampaign(c), nil
}

func (r *MemoryCampaignsRepo) CreateCampaign(_ context.Context, in *domain.Campaign) (*domain.Campaign, error) {
	c := *cloneCampaign(*in)
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	now := nowUTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaigns[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneCampaign(c), nil
}

func (r *MemoryCampaignsRepo) UpdateCampaign(_ context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	if patch.Empty() {
		return cloneCampaign(c), nil
	}
	patch.Apply(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ScheduledDate = copyTime(c.ScheduledDate)
	c.UpdatedAt = nowUTC()
	r.campaigns[id] = c
	return cloneCampaign(c), nil
}

func (r *MemoryCampaignsRepo) TransitionCampaign(_ context.Context, id string, t domain.CampaignTransition) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	t.Apply(&c)
	c.ScheduledDate = copyTime(c.ScheduledDate)
	c.UpdatedAt = nowUTC()
	r.campaigns[id] = c
	return cloneCampaign(c), nil
}

func (r *MemoryCampaignsRepo) DeleteCampaign(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	delete(r.campaigns, id)
	return nil
}

func (r *MemoryCampaignsRepo) CountCampaignsByStatus(_ context.Context) ([]domain.StatusCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int64{}
	for _, c := range r.campaigns {
		counts[string(c.Status)]++
	}
	out := make([]domain.StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, domain.StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}
