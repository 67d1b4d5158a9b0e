package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/haimng/Bestopia/internal/config"
	"github.com/haimng/Bestopia/internal/crawler"
	"github.com/haimng/Bestopia/internal/event"
	handler "github.com/haimng/Bestopia/internal/handler/http"
	"github.com/haimng/Bestopia/internal/llm"
	"github.com/haimng/Bestopia/internal/repository/postgres"
	redisrepo "github.com/haimng/Bestopia/internal/repository/redis"
	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/migrations"
	"github.com/haimng/Bestopia/pkg/database"
	"github.com/haimng/Bestopia/pkg/health"
	"github.com/haimng/Bestopia/pkg/httpclient"
	pkgkafka "github.com/haimng/Bestopia/pkg/kafka"
	"github.com/haimng/Bestopia/pkg/middleware"
	"github.com/haimng/Bestopia/pkg/tracing"
)

// App wires together all dependencies and runs the Bestopia server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server

	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "bestopia-server",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
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
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	database.RegisterPoolMetrics(pool, "bestopia")
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis cache is optional; the review service degrades to direct reads.
	var (
		redisClient *goredis.Client
		reviewCache service.ReviewCache
	)
	if cfg.RedisHost != "" {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		reviewCache = redisrepo.NewReviewCache(redisClient, cfg.CacheTTL)
		logger.Info("connected to Redis", slog.String("host", cfg.RedisHost))
	}

	// Kafka producer is optional; without brokers no domain events are emitted.
	var (
		producer      *pkgkafka.Producer
		eventProducer *event.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Outbound collaborators. The crawler goes through a circuit breaker
	// because the proxied store lookups are slow and flaky.
	var finder service.ProductFinder
	if cfg.CrawlerAPIToken != "" {
		pages := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.Config{
				Timeout:         90 * time.Second,
				MaxRetries:      1,
				RetryWaitMin:    time.Second,
				RetryWaitMax:    5 * time.Second,
				MaxConnsPerHost: 10,
			}),
			httpclient.DefaultCircuitBreakerConfig("crawlbase"),
			logger,
		)
		images := httpclient.New(httpclient.Config{
			Timeout:         15 * time.Second,
			MaxRetries:      0,
			MaxConnsPerHost: 10,
		})
		finder = crawler.New(pages, images, cfg.CrawlerAPIToken, logger)
	}

	var generator service.TextGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = llm.NewClient(
			httpclient.New(httpclient.Config{
				Timeout:         120 * time.Second,
				MaxRetries:      1,
				RetryWaitMin:    2 * time.Second,
				RetryWaitMax:    10 * time.Second,
				MaxConnsPerHost: 10,
			}),
			cfg.OpenAIAPIKey,
			logger,
		)
	}

	// Build the dependency graph.
	reviewRepo := postgres.NewReviewRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	opinionRepo := postgres.NewProductReviewRepository(pool)
	comparisonRepo := postgres.NewComparisonRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	supportRepo := postgres.NewSupportRepository(pool)

	picker := service.NewReviewerPicker(service.ReviewerPools{
		Woman: cfg.ReviewerWomanIDs,
		Man:   cfg.ReviewerManIDs,
	}, nil)
	ratings := service.NewRatingSynthesizer(nil)

	reviewService := service.NewReviewService(reviewRepo, productRepo, opinionRepo, comparisonRepo, reviewCache, eventProducer, logger)
	ingestService := service.NewIngestService(reviewRepo, productRepo, finder, picker, ratings, eventProducer, reviewCache, logger)
	productService := service.NewProductService(productRepo, finder, eventProducer, logger)
	comparisonService := service.NewComparisonService(comparisonRepo, logger)
	draftService := service.NewDraftService(generator, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, logger)
	supportService := service.NewSupportService(supportRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterDeps{
		Reviews:     reviewService,
		Ingest:      ingestService,
		Products:    productService,
		Comparisons: comparisonService,
		Drafts:      draftService,
		Auth:        authService,
		Support:     supportService,

		SiteBaseURL:       cfg.SiteBaseURL,
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,

		Health:     healthHandler,
		Logger:     logger,
		CORSConfig: corsConfig,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
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

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
