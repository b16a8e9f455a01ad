package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/surveypool/search-api/internal/config"
	"github.com/surveypool/search-api/internal/repository/postgres"
	"github.com/surveypool/search-api/internal/worker"
	"github.com/surveypool/search-api/pkg/logger"
	"github.com/surveypool/search-api/pkg/messaging/redis"
	"github.com/surveypool/search-api/pkg/metrics"
	pkgworker "github.com/surveypool/search-api/pkg/worker"
)

const (
	outboxBatchSize     = 100
	outboxPollInterval  = 5 * time.Second
	outboxRetryAttempts = 3
	outboxRetryDelay    = time.Second

	outboxRetentionDays   = 7
	outboxCleanupInterval = time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry(), "surveypool", "worker")
	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	processor := pkgworker.NewOutboxProcessor(
		outboxRepo,
		broker,
		pkgworker.OutboxProcessorConfig{
			BatchSize:     outboxBatchSize,
			PollInterval:  outboxPollInterval,
			RetryAttempts: outboxRetryAttempts,
			RetryDelay:    outboxRetryDelay,
		},
		appLogger,
		appMetrics,
	)

	cleanup := worker.NewOutboxCleanupWorker(outboxRepo, outboxRetentionDays, outboxCleanupInterval, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)
	go cleanup.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
