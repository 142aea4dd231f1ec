package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shinnycodez/Hiba/internal/catalog"
	"github.com/shinnycodez/Hiba/internal/config"
	"github.com/shinnycodez/Hiba/internal/event"
	handler "github.com/shinnycodez/Hiba/internal/handler/http"
	"github.com/shinnycodez/Hiba/internal/repository"
	"github.com/shinnycodez/Hiba/internal/repository/postgres"
	"github.com/shinnycodez/Hiba/internal/service"
	"github.com/shinnycodez/Hiba/internal/storage"
	"github.com/shinnycodez/Hiba/pkg/database"
	"github.com/shinnycodez/Hiba/pkg/health"
	pkgkafka "github.com/shinnycodez/Hiba/pkg/kafka"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	durable    *redis.Client
	session    *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The product document store.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSLMode,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("db", cfg.PostgresDB),
	)

	// The two storage tiers share one Redis instance but live in separate
	// logical databases so their lifetimes stay independent.
	durable, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDurableDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis (durable tier): %w", err)
	}
	session, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisSessionDB,
	})
	if err != nil {
		_ = durable.Close()
		pool.Close()
		return nil, fmt.Errorf("connect to redis (session tier): %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("durable_db", cfg.RedisDurableDB),
		slog.Int("session_db", cfg.RedisSessionDB),
	)

	// Kafka producer for storefront domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	durableTier := storage.NewRedisStore(durable, "hiba:", 0)
	sessionTier := storage.NewRedisStore(session, "hiba:", cfg.SessionTTLDuration())

	productSource := postgres.NewProductSource(pool)
	productCache := catalog.New(durableTier, cfg.CatalogTTLDuration(), logger)
	cartStore := repository.NewCartStore(durableTier, sessionTier, logger)
	eventProducer := event.NewProducer(producer, logger)

	catalogService := service.NewCatalogService(productSource, productCache, logger)
	productService := service.NewProductService(productSource, logger)
	cartService := service.NewCartService(cartStore, productSource, eventProducer, logger)

	// Health checks. The broker is non-critical: cart writes do not
	// depend on it.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return durable.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	router := handler.NewRouter(catalogService, productService, cartService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		durable:    durable,
		session:    session,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.durable.Close(); err != nil {
		a.logger.Error("redis durable close error", slog.String("error", err.Error()))
	}
	if err := a.session.Close(); err != nil {
		a.logger.Error("redis session close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
