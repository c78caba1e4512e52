package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chrisdetmering/Product-Page/internal/catalog"
	"github.com/chrisdetmering/Product-Page/internal/config"
	"github.com/chrisdetmering/Product-Page/internal/event"
	handler "github.com/chrisdetmering/Product-Page/internal/handler/http"
	"github.com/chrisdetmering/Product-Page/internal/repository"
	"github.com/chrisdetmering/Product-Page/internal/repository/memory"
	redisrepo "github.com/chrisdetmering/Product-Page/internal/repository/redis"
	"github.com/chrisdetmering/Product-Page/internal/service"
	"github.com/chrisdetmering/Product-Page/pkg/database"
	"github.com/chrisdetmering/Product-Page/pkg/health"
	pkgkafka "github.com/chrisdetmering/Product-Page/pkg/kafka"
	"github.com/chrisdetmering/Product-Page/pkg/tracing"
)

const sweepInterval = time.Minute

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	memStore       *memory.SessionRepository
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.SampleRate = cfg.OTELSampleRate
	tracingCfg.Enabled = cfg.OTELEnabled
	if cfg.OTELEndpoint != "" {
		tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	}
	tracerShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Load the product definition.
	product, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.String("product", product.Brand+" "+product.Name),
		slog.Int("variants", len(product.Variants)),
	)

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler()

	// Initialize the session store.
	var repo repository.SessionRepository
	switch cfg.SessionStore {
	case config.StoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB
		a.rdb, err = database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		repo = redisrepo.NewSessionRepository(a.rdb, cfg.SessionTTL())
	default:
		a.memStore = memory.NewSessionRepository(cfg.SessionTTL())
		repo = a.memStore
		logger.Info("using in-memory session store")
	}
	healthHandler.RegisterCritical("sessions", repo.Ping)

	// Initialize the event mirror.
	var publisher event.Publisher = event.Discard{}
	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.producer
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	eventProducer := event.NewProducer(publisher, logger)

	sessionService := service.NewSessionService(product, repo, eventProducer, logger, service.Options{
		Premium:    cfg.Premium,
		SessionTTL: cfg.SessionTTL(),
	})

	// HTTP router.
	router := handler.NewRouter(sessionService, healthHandler, logger, handler.RouterConfig{
		AssetsDir:    cfg.AssetsDir,
		SecureCookie: cfg.SecureCookie,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.memStore != nil {
		go a.memStore.RunSweeper(ctx, sweepInterval)
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
