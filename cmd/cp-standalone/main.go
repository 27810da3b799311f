package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/event"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/log"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/relay"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/repository"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/service"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/session"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/mq"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/telemetry"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log     config.Log
		HTTP    config.HTTP
		Catalog config.Catalog
		Store   config.Store
		Relay   config.Relay
		Kafka   config.Kafka
		Otel    config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
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

	var (
		recordCache catalog.RecordCache
		dbClient    *db.Client
		httpOpts    []http.Option
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		recordCache = catalog.NewMemoryCache()

	case config.StoreDriverRedis:
		redisCfg, err := config.New[config.Redis]()
		if err != nil {
			return fmt.Errorf("error loading redis config: %w", err)
		}

		redisClient, err := catalog.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("error creating redis client: %w", err)
		}
		defer redisClient.Close()

		recordCache = catalog.NewRedisCache(redisClient, redisCfg.KeyPrefix)

	case config.StoreDriverPostgres:
		pgCfg, err := config.New[config.Postgres]()
		if err != nil {
			return fmt.Errorf("error loading postgres config: %w", err)
		}

		pgxPool, err := db.NewPgxPool(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("error creating pgx pool: %w", err)
		}
		defer pgxPool.Close()

		dbClient = db.NewClient(pgxPool)
		recordCache = repository.NewCatalogRecordRepository(dbClient, repository.NewOutboxMsgRepository(dbClient))
		httpOpts = append(httpOpts, http.WithHealthChecker("postgres", dbClient))
	}

	logger.InfoContext(ctx, "catalog record store selected", slog.String("driver", cfg.Store.Driver.String()))

	catalogStore := catalog.NewCachedStore(catalog.NewClient(cfg.Catalog), recordCache, logger,
		catalog.WithSeedTimeout(cfg.Catalog.Timeout),
	)
	productRepository := repository.NewProductRepository(catalogStore, logger)
	productService := service.NewProductService(logger, productRepository)
	sess := session.NewDefault()

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	httpSvc, err := http.New(cfg.HTTP, logger, productService, sess, httpOpts...)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}

	httpCleanup, err := httpSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}
	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	wg.Go(func() {
		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := httpCleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	// price change events only exist when records live in postgres
	if dbClient != nil && cfg.Kafka.Enabled() {
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

		eventCleanup, err := event.New(logger, kafkaConsumer).Run(ctx)
		if err != nil {
			return fmt.Errorf("error running event service: %w", err)
		}
		logger.InfoContext(ctx, "event service started")

		relaySvc := relay.NewService(cfg.Relay, logger, dbClient, repository.NewOutboxMsgRepository(dbClient), kafkaProducer)
		relayCleanup := relaySvc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		wg.Go(func() {
			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			relayCleanup()
			logger.InfoContext(ctx, "relay service is stopped")

			logger.InfoContext(ctx, "event service is shutting down")
			eventCleanup()
			logger.InfoContext(ctx, "event service is stopped")
		})
	}

	wg.Wait()

	return nil
}
