package service

import (
	"context"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService read-only aggregations over leads and campaigns.
type AnalyticsService struct {
	leads     repository.LeadsRepository
	campaigns repository.CampaignsRepository
	logger    *zap.Logger
}

func NewAnalyticsService(leads repository.LeadsRepository, campaigns repository.CampaignsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{leads: leads, campaigns: campaigns, logger: logger}
}

func (s *AnalyticsService) Overall(ctx context.Context) (*domain.OverallAnalytics, error) {
	var total, converted int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.leads.CountLeads(gctx, domain.LeadFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		converted, err = s.leads.CountLeads(gctx, domain.LeadFilter{Status: string(domain.LeadStatusConverted)})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &domain.OverallAnalytics{
		TotalLeads:     total,
		ConvertedLeads: converted,
		ConversionRate: domain.ConversionRate(total, converted),
	}, nil
}

func (s *AnalyticsService) Campaigns(ctx context.Context) (*domain.CampaignAnalytics, error) {
	byStatus, err := s.campaigns.CountCampaignsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := &domain.CampaignAnalytics{ByStatus: byStatus}
	for _, c := range byStatus {
		if c.Status == string(domain.CampaignStatusSent) {
			out.TotalSent = c.Count
		}
	}
	return out, nil
}

func (s *AnalyticsService) LeadsBySource(ctx context.Context) ([]domain.SourceCount, error) {
	return s.leads.CountLeadsBySource(ctx)
}

// LeadsByDate per-day lead counts within [fromDate, toDate]. Either bound may be
// empty. A bare YYYY-MM-DD toDate covers that whole UTC day.
func (s *AnalyticsService) LeadsByDate(ctx context.Context, fromDate, toDate string) ([]domain.DateCount, error) {
	var from, to *time.Time
	if fromDate != "" {
		t, _, err := domain.ParseTime(fromDate)
		if err != nil {
			return nil, domain.ValidationError("Analytics", "fromDate", err.Error())
		}
		from = &t
	}
	if toDate != "" {
		t, dateOnly, err := domain.ParseTime(toDate)
		if err != nil {
			return nil, domain.ValidationError("Analytics", "toDate", err.Error())
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		to = &t
	}
	return s.leads.CountLeadsByDate(ctx, from, to)
}
