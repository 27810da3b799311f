// Command cp-relay publishes price change events from the outbox and consumes
// them, for deployments where the HTTP service runs without Kafka access.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/event"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/log"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/relay"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/repository"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/mq"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/telemetry"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running relay application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if !cfg.Kafka.Enabled() {
		return fmt.Errorf("KAFKA_ADDRESSES is required")
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	interruptChan := cmdutil.InterruptChan()

	eventCleanup, err := event.New(logger, kafkaConsumer).Run(ctx)
	if err != nil {
		return fmt.Errorf("error running event service: %w", err)
	}
	logger.InfoContext(ctx, "event service started")

	svc := relay.NewService(cfg.Relay, logger, dbClient, repository.NewOutboxMsgRepository(dbClient), kafkaProducer)
	cleanup := svc.Run(ctx)
	logger.InfoContext(ctx, "relay service started")

	<-interruptChan

	logger.InfoContext(ctx, "relay service is shutting down")
	cleanup()
	logger.InfoContext(ctx, "relay service is stopped")

	eventCleanup()
	logger.InfoContext(ctx, "event service is stopped")

	return nil
}
