package service

import (
	"context"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CampaignService campaign CRUD and the send/schedule/cancel actions.
type CampaignService struct {
	repo       repository.CampaignsRepository
	dispatcher CampaignDispatcher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewCampaignService(repo repository.CampaignsRepository, dispatcher CampaignDispatcher, m *metrics.Metrics, logger *zap.Logger) *CampaignService {
	if dispatcher == nil {
		dispatcher = NoopDispatcher{}
	}
	return &CampaignService{
		repo:       repo,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type ListCampaignsRequest struct {
	Status string
	Type   string
	Page   models.PageRequest
}

type ListCampaignsResponse struct {
	Items      []*domain.Campaign
	Pagination models.Pagination
}

func (s *CampaignService) ListCampaigns(ctx context.Context, req ListCampaignsRequest) (*ListCampaignsResponse, error) {
	filter := domain.CampaignFilter{Status: req.Status, Type: req.Type}
	var items []*domain.Campaign
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListCampaigns(gctx, filter, req.Page.Skip(), req.Page.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountCampaigns(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ListCampaignsResponse{Items: items, Pagination: req.Page.With(total)}, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

type CreateCampaignRequest struct {
	Name          string
	Type          string
	Subject       string
	Content       string
	ScheduledDate *time.Time
}

// CreateCampaign always starts in draft.
func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	return s.repo.CreateCampaign(ctx, &domain.Campaign{
		Name:          req.Name,
		Type:          domain.CampaignType(req.Type),
		Subject:       req.Subject,
		Content:       req.Content,
		Status:        domain.CampaignStatusDraft,
		ScheduledDate: req.ScheduledDate,
	})
}

// UpdateCampaign free-form patch. It can write status directly, independent of the actions.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	return s.repo.UpdateCampaign(ctx, id, patch)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	return s.repo.DeleteCampaign(ctx, id)
}

// SendCampaign marks the campaign sent (sentAt=now) from any state, then hands it
// to the dispatcher. Dispatch failures are logged and counted, not returned.
func (s *CampaignService) SendCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	sentAt := s.now()
	c, err := s.repo.TransitionCampaign(ctx, id, domain.CampaignTransition{
		Status: domain.CampaignStatusSent,
		SentAt: &sentAt,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CampaignSent()

	if err := s.dispatcher.Dispatch(ctx, c); err != nil {
		s.metrics.DispatchFailed(s.dispatcher.Name())
		s.logger.Warn("Campaign dispatch failed",
			zap.String("campaign_id", c.ID),
			zap.String("driver", s.dispatcher.Name()),
			zap.Error(err),
		)
	}
	return c, nil
}

// ScheduleCampaign sets status scheduled and scheduledDate (nil clears it).
func (s *CampaignService) ScheduleCampaign(ctx context.Context, id string, scheduledDate *time.Time) (*domain.Campaign, error) {
	return s.repo.TransitionCampaign(ctx, id, domain.CampaignTransition{
		Status:           domain.CampaignStatusScheduled,
		SetScheduledDate: true,
		ScheduledDate:    scheduledDate,
	})
}

// CancelCampaign returns the campaign to draft and clears scheduledDate, from any state.
func (s *CampaignService) CancelCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.TransitionCampaign(ctx, id, domain.CampaignTransition{
		Status:           domain.CampaignStatusDraft,
		SetScheduledDate: true,
	})
}

// CampaignPerformance stored campaign plus engagement metrics. Metrics are not
// tracked yet and are always zero.
type CampaignPerformance struct {
	domain.Campaign
	Opens       int64 `json:"opens"`
	Clicks      int64 `json:"clicks"`
	Conversions int64 `json:"conversions"`
}

func (s *CampaignService) GetPerformance(ctx context.Context, id string) (*CampaignPerformance, error) {
	c, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CampaignPerformance{Campaign: *c}, nil
}
