package handlers

import (
	"context"

	contribws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/bridge"
	"github.com/spec-kit/complaint-hotline/internal/config"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/observability"
	"github.com/spec-kit/complaint-hotline/internal/session"
	"github.com/spec-kit/complaint-hotline/internal/tools"
)

// CallHandler accepts telephony websocket streams and bridges each one to
// the reasoning engine for the duration of the call.
type CallHandler struct {
	cfg        *config.Config
	tools      *tools.Dispatcher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	settings   bridge.Settings
}

// NewCallHandler constructs handler. settings is built once at startup from
// the prompt, the policy documents and the tool table.
func NewCallHandler(cfg *config.Config, dispatcher events.Dispatcher, toolDispatcher *tools.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, settings bridge.Settings) *CallHandler {
	return &CallHandler{
		cfg:        cfg,
		tools:      toolDispatcher,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		settings:   settings,
	}
}

// UpgradeGuard rejects plain HTTP requests on the call route before the
// websocket handler runs.
func (h *CallHandler) UpgradeGuard(c *fiber.Ctx) error {
	if contribws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Stream is the websocket handler for GET /call.
func (h *CallHandler) Stream() fiber.Handler {
	return contribws.New(h.handle)
}

func (h *CallHandler) handle(conn *contribws.Conn) {
	h.metrics.RecordCallStarted()
	defer h.metrics.RecordCallEnded()

	ctx := context.Background()
	sess := session.New("", h.cfg.Session.VerifyRetryLimit, h.dispatcher)
	logger := h.logger.With(zap.String("session_id", sess.ID))
	logger.Info("incoming call")

	engineConn, err := bridge.DialEngine(ctx, h.cfg.Engine, h.settings)
	if err != nil {
		logger.Error("engine connection failed", zap.Error(err))
		_ = conn.Close()
		return
	}

	b := bridge.New(conn, engineConn, h.tools, sess, h.cfg.Telephony.BytesPerChunk(), logger)
	if err := b.Run(ctx); err != nil {
		logger.Error("call bridge ended with error", zap.Error(err))
	}
	logger.Info("call ended",
		zap.String("phase", sess.Phase().String()),
		zap.Strings("tickets", sess.FiledTickets()))
}
