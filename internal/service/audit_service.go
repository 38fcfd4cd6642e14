package service

import (
	"context"
	"encoding/json"

	commonredis "github.com/sagar-developer08/Api-v2-sub001/common/redis"
	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EventPublisher fans audit entries out to downstream consumers.
type EventPublisher interface {
	PublishJSON(ctx context.Context, stream string, v any) error
}

// RedisStreamPublisher writes JSON events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
}

func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client}
}

func (p *RedisStreamPublisher) PublishJSON(ctx context.Context, stream string, v any) error {
	_, err := commonredis.PublishJSONToStream(ctx, p.client, stream, v)
	return err
}

// AuditService records administrative actions. Recording is best-effort:
// failures are logged and never fail the caller.
type AuditService struct {
	repo      repository.AuditLogRepository
	publisher EventPublisher // optional
	stream    string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewAuditService(repo repository.AuditLogRepository, publisher EventPublisher, stream string, m *metrics.Metrics, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, publisher: publisher, stream: stream, metrics: m, logger: logger}
}

// AuditEntry what the HTTP layer knows about an action.
type AuditEntry struct {
	TenantID     string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
	IPAddress    string
	UserAgent    string
}

func (s *AuditService) Record(ctx context.Context, e AuditEntry) {
	if s == nil {
		return
	}
	var metadata json.RawMessage
	if len(e.Metadata) > 0 {
		if b, err := json.Marshal(e.Metadata); err == nil {
			metadata = b
		}
	}
	entry, err := s.repo.AppendAuditLog(ctx, &domain.PlatformAuditLog{
		TenantID:     e.TenantID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Metadata:     metadata,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
	})
	if err != nil {
		s.logger.Warn("Failed to record audit log", zap.String("action", e.Action), zap.Error(err))
		return
	}
	s.metrics.AuditRecorded()

	if s.publisher == nil || s.stream == "" {
		return
	}
	if err := s.publisher.PublishJSON(ctx, s.stream, entry); err != nil {
		s.logger.Warn("Failed to publish audit event", zap.String("stream", s.stream), zap.String("audit_id", entry.ID), zap.Error(err))
	}
}

type ListAuditLogsRequest struct {
	TenantID string
	UserID   string
	Page     models.PageRequest
}

type ListAuditLogsResponse struct {
	Items      []*domain.PlatformAuditLog
	Pagination models.Pagination
}

func (s *AuditService) List(ctx context.Context, req ListAuditLogsRequest) (*ListAuditLogsResponse, error) {
	filter := domain.AuditFilter{TenantID: req.TenantID, UserID: req.UserID}
	var items []*domain.PlatformAuditLog
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListAuditLogs(gctx, filter, req.Page.Skip(), req.Page.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountAuditLogs(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ListAuditLogsResponse{Items: items, Pagination: req.Page.With(total)}, nil
}
