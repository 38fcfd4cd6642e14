package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// CampaignDispatcher delivers a campaign once it has been marked sent.
type CampaignDispatcher interface {
	Name() string
	Dispatch(ctx context.Context, c *domain.Campaign) error
}

// CampaignSentEvent payload handed to downstream delivery systems.
type CampaignSentEvent struct {
	Event      string          `json:"event"`
	CampaignID string          `json:"campaignId"`
	Campaign   domain.Campaign `json:"campaign"`
	SentAt     time.Time       `json:"sentAt"`
}

func newCampaignSentEvent(c *domain.Campaign) CampaignSentEvent {
	sentAt := time.Now().UTC()
	if c.SentAt != nil {
		sentAt = *c.SentAt
	}
	return CampaignSentEvent{Event: "campaign.sent", CampaignID: c.ID, Campaign: *c, SentAt: sentAt}
}

// NoopDispatcher records nothing; sending only changes campaign state.
type NoopDispatcher struct{}

func (NoopDispatcher) Name() string                                    { return "none" }
func (NoopDispatcher) Dispatch(context.Context, *domain.Campaign) error { return nil }

// WebhookDispatcher POSTs a CampaignSentEvent to a delivery webhook.
type WebhookDispatcher struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

func NewWebhookDispatcher(url string, timeout time.Duration, retries int, logger *zap.Logger) *WebhookDispatcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &WebhookDispatcher{httpClient: client, url: url, logger: logger}
}

func (d *WebhookDispatcher) Name() string { return "webhook" }

func (d *WebhookDispatcher) Dispatch(ctx context.Context, c *domain.Campaign) error {
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Campaign-Id", c.ID).
		SetBody(newCampaignSentEvent(c)).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("failed to call campaign webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("campaign webhook returned status %d", resp.StatusCode())
	}
	d.logger.Info("Campaign delivered to webhook",
		zap.String("campaign_id", c.ID),
		zap.Int("status_code", resp.StatusCode()),
	)
	return nil
}

// Publisher is the subset of the MQTT client used for dispatch.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTDispatcher publishes a CampaignSentEvent to <prefix>/<campaign type>.
type MQTTDispatcher struct {
	client      Publisher
	topicPrefix string
	qos         byte
	logger      *zap.Logger
}

func NewMQTTDispatcher(client Publisher, topicPrefix string, qos byte, logger *zap.Logger) *MQTTDispatcher {
	return &MQTTDispatcher{client: client, topicPrefix: topicPrefix, qos: qos, logger: logger}
}

func (d *MQTTDispatcher) Name() string { return "mqtt" }

func (d *MQTTDispatcher) Topic(c *domain.Campaign) string {
	return fmt.Sprintf("%s/%s", d.topicPrefix, c.Type)
}

func (d *MQTTDispatcher) Dispatch(_ context.Context, c *domain.Campaign) error {
	payload, err := json.Marshal(newCampaignSentEvent(c))
	if err != nil {
		return fmt.Errorf("failed to encode campaign event: %w", err)
	}
	topic := d.Topic(c)
	if err := d.client.Publish(topic, d.qos, false, payload); err != nil {
		return err
	}
	d.logger.Debug("Campaign published", zap.String("campaign_id", c.ID), zap.String("topic", topic))
	return nil
}
