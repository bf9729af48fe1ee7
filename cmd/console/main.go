package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-console/internal/api/http"
	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/client"
	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/connection"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/persistence"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/store"
	"github.com/spec-kit/ticket-console/internal/tagging"
	"github.com/spec-kit/ticket-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handlers.Pinger{}

	var tokens auth.TokenStore
	switch cfg.Tokens.Backend {
	case "redis":
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis
		tokens = auth.NewRedisTokenStore(redis.Client, cfg.Tokens.Key)
	default:
		tokens = auth.NewMemoryTokenStore()
	}

	metrics := observability.NewMetrics()
	api := client.New(cfg.API.BaseURL,
		client.WithTokenSource(tokens),
		client.WithLogger(logger.Named("api")),
		client.WithObserver(metrics.RecordUpstream),
	)

	dispatcher := events.NewInMemoryDispatcher(logger)
	st := store.New(dispatcher)
	connection.RouteChatMessages(dispatcher, st)
	tracker := connection.NewTracker(dispatcher)

	session := auth.NewSession(api, tokens, logger.Named("session"))
	if session.Validate(ctx) {
		logger.Info("restored console session", zap.String("user_id", session.User().ID))
	}

	rules := tagging.DefaultRules
	if cfg.Tagging.RulesFile != "" {
		loaded, err := tagging.LoadRules(cfg.Tagging.RulesFile)
		if err != nil {
			logger.Fatal("failed to load tag rules", zap.Error(err))
		}
		rules = loaded
	}
	suggester := tagging.NewSuggester(rules)
	suggestions := service.NewTagSuggestionService(st, suggester, cfg.Tagging.Debounce(), logger.Named("tagging"))
	suggestions.RegisterHandlers(dispatcher)
	defer suggestions.Stop()

	service.NewNotificationService(dispatcher, st, logger.Named("notifications")).RegisterHandlers()

	scheduler := worker.NewScheduler(logger.Named("scheduler"))
	refreshJob := worker.NewSessionRefreshJob(session, cfg.Session.RefreshWindow(), logger.Named("session"))
	if err := worker.StartSessionRefresh(scheduler, cfg.Session.RefreshSpec, refreshJob); err != nil {
		logger.Fatal("failed to schedule session refresh", zap.Error(err))
	}
	scheduler.Start()

	if cfg.Realtime.URL != "" {
		watcher := connection.NewWatcher(cfg.Realtime.URL, tokens, dispatcher, cfg.Realtime.ReconnectInterval(), logger.Named("realtime"))
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("realtime watcher stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("REALTIME_WS_URL not provided; connection status stays disconnected")
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Session:    handlers.NewSessionHandler(session),
		Tickets:    handlers.NewTicketsHandler(api, st),
		Categories: handlers.NewCategoriesHandler(api),
		Chat:       handlers.NewChatHandler(api, st, suggester, suggestions),
		Connection: handlers.NewConnectionHandler(tracker),
		Metrics:    handlers.NewMetricsHandler(metrics),
		Auth:       session,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	scheduler.Stop(30 * time.Second)
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
