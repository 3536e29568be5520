package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"wishlist-service/internal/application/services"
	"wishlist-service/internal/config"
	"wishlist-service/internal/domain/event"
	"wishlist-service/internal/domain/repository"
	"wishlist-service/internal/infrastructure/bus"
	"wishlist-service/internal/infrastructure/cache"
	httpHandler "wishlist-service/internal/infrastructure/http"
	"wishlist-service/internal/infrastructure/kafka"
	"wishlist-service/internal/infrastructure/memory"
	"wishlist-service/internal/infrastructure/metrics"
	"wishlist-service/internal/infrastructure/mongo"
	"wishlist-service/internal/infrastructure/tracing"
	"wishlist-service/pkg/health"
	"wishlist-service/pkg/logger"
)

func main() {
	// Replaced once config is loaded.
	logger.Init("wishlist-service", "info", false)

	if err := run(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("wishlist service exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.ServiceName, cfg.LogLevel, cfg.IsDevelopment())
	log := logger.Logger
	log.Info().
		Str("environment", cfg.Environment).
		Str("storage", cfg.StorageDriver).
		Msg("Starting wishlist service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	healthHandler := health.NewHandler(3 * time.Second)

	// Storage chain: store -> tracing -> cache
	var (
		repo        repository.WishlistRepository
		mongoClient *mongo.MongoClient
	)
	switch cfg.StorageDriver {
	case config.StorageMongo:
		mongoClient, err = mongo.NewMongoClient(ctx, &mongo.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Username: cfg.MongoUsername,
			Password: cfg.MongoPassword,
			AppName:  cfg.ServiceName,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			return err
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")

		mongoRepo := mongo.NewMongoWishlistRepository(mongoClient.GetDatabase())
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		healthHandler.Register("mongo", mongoClient.Ping)
		repo = mongoRepo
	default:
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		repo = memory.NewWishlistRepository()
	}

	repo = tracing.NewWishlistRepository(repo, otel.Tracer(cfg.ServiceName))

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cached := cache.NewWishlistRepository(repo, redisClient, cfg.CacheTTL)
		healthHandler.Register("redis", cached.Ping)
		repo = cached
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Redis cache enabled")
	}

	// Event fan-out
	eventBus := bus.NewAsyncEventBus()
	if err := bus.SubscribeAll(eventBus, metrics.NewWishlistMetrics(registry)); err != nil {
		return err
	}
	if err := bus.SubscribeAll(eventBus, bus.EventHandlerFunc(auditLog)); err != nil {
		return err
	}

	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		if err := bus.SubscribeAll(eventBus, publisher); err != nil {
			return err
		}
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Kafka publishing enabled")
	}

	if err := eventBus.Start(ctx); err != nil {
		return err
	}

	wishlistService := services.NewWishlistServiceFromRepository(repo, eventBus)

	router := httpHandler.NewRouter(httpHandler.RouterConfig{
		ServiceName:        cfg.ServiceName,
		Controller:         httpHandler.NewHTTPWishlistController(wishlistService),
		Health:             healthHandler,
		Registry:           registry,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		TrustForwardedFor:  cfg.RateLimitTrustForwarded,
		RequestTimeout:     cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := eventBus.Stop(); err != nil {
		errs = append(errs, err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

func auditLog(ctx context.Context, evt event.DomainEvent) error {
	logger.Info(ctx).
		Str("event_type", evt.EventType()).
		Str("customer_id", evt.AggregateID()).
		Time("occurred_at", evt.OccurredAt()).
		Msg("wishlist event")
	return nil
}
