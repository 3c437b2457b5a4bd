package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-hotline/internal/api/http"
	"github.com/spec-kit/complaint-hotline/internal/api/http/handlers"
	"github.com/spec-kit/complaint-hotline/internal/auth"
	"github.com/spec-kit/complaint-hotline/internal/bridge"
	"github.com/spec-kit/complaint-hotline/internal/config"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/knowledge"
	"github.com/spec-kit/complaint-hotline/internal/observability"
	"github.com/spec-kit/complaint-hotline/internal/persistence"
	"github.com/spec-kit/complaint-hotline/internal/repository"
	"github.com/spec-kit/complaint-hotline/internal/service"
	"github.com/spec-kit/complaint-hotline/internal/sla"
	"github.com/spec-kit/complaint-hotline/internal/tools"
	"github.com/spec-kit/complaint-hotline/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rules, err := sla.NewEngine()
	if err != nil {
		logger.Fatal("service rule table invalid", zap.Error(err))
	}

	var (
		pg        *persistence.Postgres
		directory repository.TenantDirectory
		tickets   repository.TicketStore
	)
	switch cfg.Store.Driver {
	case "postgres":
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		directory = repository.NewPostgresDirectory(pg.PoolHandle())
		tickets = repository.NewPostgresTicketStore(pg.PoolHandle())
	default:
		tenants := repository.SeedTenants()
		if cfg.Store.TenantsFile != "" {
			tenants, err = repository.LoadTenants(cfg.Store.TenantsFile)
			if err != nil {
				logger.Fatal("failed to load tenant directory", zap.Error(err))
			}
		}
		directory = repository.NewMemoryDirectory(tenants)
		tickets = repository.NewMemoryTicketStore()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	dispatcher.Subscribe(events.EventToolCallCompleted, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.ToolCallCompletedPayload); ok {
			metrics.RecordToolCall(payload.Operation, payload.Outcome)
		}
		return nil
	})

	hotline := service.NewHotlineService(service.HotlineDependencies{
		Directory:  directory,
		Tickets:    tickets,
		Rules:      rules,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	notifications := service.NewNotificationService(dispatcher, redis, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	toolDispatcher := tools.NewDispatcher(hotline, dispatcher, logger, cfg.Session.FillerMessage)

	prompt := defaultPrompt
	if cfg.Engine.PromptFile != "" {
		data, err := os.ReadFile(cfg.Engine.PromptFile)
		if err != nil {
			logger.Fatal("failed to read prompt file", zap.Error(err))
		}
		prompt = string(data)
	}
	docs, err := knowledge.Load(cfg.Knowledge.Dir, logger)
	if err != nil {
		logger.Fatal("failed to load knowledge base", zap.Error(err))
	}
	settings := bridge.BuildSettings(prompt, knowledge.Texts(docs), cfg.Telephony.SampleRate)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Call:           handlers.NewCallHandler(cfg, dispatcher, toolDispatcher, metrics, logger, settings),
		Tickets:        handlers.NewTicketsHandler(hotline),
		Staff:          handlers.NewStaffHandler(tokens, cfg.Auth),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("hotline listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

const defaultPrompt = `You are the voice agent for the MAD Apartments complaints hotline.
Greet the caller, verify their unit with verify_tenant before anything else,
help them pick the right category, collect a clear description, then file the
complaint with file_complaint and read the returned assurance message aloud
word for word. Always call agent_filler before any lookup so the caller is
never met with silence. For emergencies, stay calm and follow the safety
wording in the assurance message exactly.`
