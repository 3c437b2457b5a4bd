package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/config"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/persistence"
)

// NotificationService fans ticket and escalation events out to operators:
// each event is published on a Redis channel that dashboards subscribe to.
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the events operators care about.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventSessionEscalated, n.handleEscalation)
}

func (n *NotificationService) handleTicketEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("session_id", event.SessionID),
		zap.Any("payload", event.Payload))
	n.publishToRedis(ctx, event)
	n.sendWebhookNotificationStub(event)
	return nil
}

func (n *NotificationService) handleEscalation(ctx context.Context, event events.Event) error {
	n.logger.Warn("session escalated to a human operator",
		zap.String("session_id", event.SessionID),
		zap.Any("payload", event.Payload))
	n.publishToRedis(ctx, event)
	return nil
}

func (n *NotificationService) publishToRedis(ctx context.Context, event events.Event) {
	if n.redis == nil || n.redis.Client == nil || n.cfg.RedisChannel == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("event serialization failed", zap.Error(err))
		return
	}
	if err := n.redis.Client.Publish(ctx, n.cfg.RedisChannel, payload).Err(); err != nil {
		n.logger.Warn("redis publish failed", zap.String("channel", n.cfg.RedisChannel), zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookNotificationStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
