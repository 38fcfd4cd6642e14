package service

import (
	"context"
	"testing"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// rangeCapture records the bounds handed to CountLeadsByDate.
type rangeCapture struct {
	*repository.MemoryLeadsRepo
	from, to *time.Time
}

func (r *rangeCapture) CountLeadsByDate(ctx context.Context, from, to *time.Time) ([]domain.DateCount, error) {
	r.from, r.to = from, to
	return r.MemoryLeadsRepo.CountLeadsByDate(ctx, from, to)
}

func TestAnalyticsService_Overall(t *testing.T) {
	leads := repository.NewMemoryLeadsRepo()
	ls := NewLeadService(leads, nil, zap.NewNop())
	ctx := context.Background()

	svc := NewAnalyticsService(leads, repository.NewMemoryCampaignsRepo(), zap.NewNop())
	out, err := svc.Overall(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OverallAnalytics{}, *out)

	var ids []string
	for i := 0; i < 3; i++ {
		l, err := ls.CreateLead(ctx, CreateLeadRequest{Name: "n", Email: "e@x.io"})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	_, err = ls.ConvertLead(ctx, ids[0])
	require.NoError(t, err)

	out, err = svc.Overall(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.TotalLeads)
	assert.EqualValues(t, 1, out.ConvertedLeads)
	assert.Equal(t, 33.3, out.ConversionRate)
}

func TestAnalyticsService_Campaigns(t *testing.T) {
	campaigns := repository.NewMemoryCampaignsRepo()
	cs := NewCampaignService(campaigns, nil, nil, zap.NewNop())
	ctx := context.Background()
	c, err := cs.CreateCampaign(ctx, CreateCampaignRequest{Name: "a", Type: "email"})
	require.NoError(t, err)
	_, err = cs.CreateCampaign(ctx, CreateCampaignRequest{Name: "b", Type: "sms"})
	require.NoError(t, err)
	_, err = cs.SendCampaign(ctx, c.ID)
	require.NoError(t, err)

	svc := NewAnalyticsService(repository.NewMemoryLeadsRepo(), campaigns, zap.NewNop())
	out, err := svc.Campaigns(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.TotalSent)
	assert.Equal(t, []domain.StatusCount{{Status: "draft", Count: 1}, {Status: "sent", Count: 1}}, out.ByStatus)
}

func TestAnalyticsService_LeadsByDateBounds(t *testing.T) {
	repo := &rangeCapture{MemoryLeadsRepo: repository.NewMemoryLeadsRepo()}
	svc := NewAnalyticsService(repo, repository.NewMemoryCampaignsRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.LeadsByDate(ctx, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.NotNil(t, repo.from)
	require.NotNil(t, repo.to)
	assert.True(t, repo.from.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	// a date-only upper bound covers the whole day
	assert.Equal(t, "2026-01-31", repo.to.Format("2006-01-02"))
	assert.True(t, repo.to.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))

	_, err = svc.LeadsByDate(ctx, "", "2026-01-31T12:00:00Z")
	require.NoError(t, err)
	assert.Nil(t, repo.from)
	assert.True(t, repo.to.Equal(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)))

	_, err = svc.LeadsByDate(ctx, "yesterday", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalyticsService_LeadsByDateCounts(t *testing.T) {
	leads := repository.NewMemoryLeadsRepo()
	ls := NewLeadService(leads, nil, zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := ls.CreateLead(ctx, CreateLeadRequest{Name: "n", Email: "e@x.io"})
		require.NoError(t, err)
	}

	svc := NewAnalyticsService(leads, repository.NewMemoryCampaignsRepo(), zap.NewNop())
	today := time.Now().UTC().Format("2006-01-02")
	out, err := svc.LeadsByDate(ctx, today, today)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.DateCount{Date: today, Count: 2}, out[0])
}
