package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-notify/internal/api/http"
	"github.com/spec-kit/ticket-notify/internal/api/http/handlers"
	"github.com/spec-kit/ticket-notify/internal/config"
	"github.com/spec-kit/ticket-notify/internal/events"
	"github.com/spec-kit/ticket-notify/internal/messaging"
	"github.com/spec-kit/ticket-notify/internal/observability"
	"github.com/spec-kit/ticket-notify/internal/persistence"
	"github.com/spec-kit/ticket-notify/internal/repository"
	"github.com/spec-kit/ticket-notify/internal/service"
	"github.com/spec-kit/ticket-notify/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	contactRepo := repository.NewContactRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)

	sender := messaging.NewClient(cfg.Messaging, logger)

	ratingService := service.NewRatingService(service.RatingDependencies{
		RatingRepo: ratingRepo,
		Cache:      redis.ClientHandle(),
		CacheTTL:   cfg.Rating.CacheTTL(),
		Logger:     logger,
		Metrics:    metrics,
	})
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		Sender:       sender,
		Ratings:      ratingService,
		Messaging:    cfg.Messaging,
		RequestDelay: cfg.Rating.RequestDelay(),
		Logger:       logger,
		Metrics:      metrics,
	})
	replyService := service.NewReplyService(service.ReplyDependencies{
		ContactRepo: contactRepo,
		TicketRepo:  ticketRepo,
		Ratings:     ratingService,
		Sender:      sender,
		Messaging:   cfg.Messaging,
		Logger:      logger,
		Metrics:     metrics,
	})

	dispatcher := events.NewInMemoryDispatcher(logger)
	ticketEventService := service.NewTicketEventService(ticketRepo, dispatcher, logger)
	worker.StartNotificationWorker(dispatcher, lifecycleService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Webhook:   handlers.NewWebhookHandler(replyService, logger),
		Ratings:   handlers.NewRatingsHandler(ratingService),
		Lifecycle: handlers.NewLifecycleHandler(ticketEventService),
	})

	go func() {
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
