package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	starregistry "starnotary/contexts/asset-registry/star-registry"
	postgresadapter "starnotary/contexts/asset-registry/star-registry/adapters/postgres"
	"starnotary/contexts/asset-registry/star-registry/application/workers"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	"starnotary/contexts/asset-registry/star-registry/ports"
	"starnotary/internal/platform/config"
	"starnotary/internal/platform/db"
	"starnotary/internal/platform/httpserver"
	"starnotary/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	// relay and activity are set only for the in-memory store, whose outbox
	// lives in the API process.
	relay        *workers.OutboxRelay
	activity     *workers.ActivityConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workers.OutboxRelay
	activity     workers.ActivityConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

type registryRuntime struct {
	module   starregistry.Module
	outbox   ports.OutboxRepository
	clock    ports.Clock
	postgres *db.Postgres
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	return buildAPI(cfg, logger)
}

func buildAPI(cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	runtime, err := buildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &APIApp{
		server:       httpserver.New(runtime.module, logger, normalizeAddr(cfg.HTTPPort)),
		postgres:     runtime.postgres,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}
	if cfg.Store == config.StoreMemory {
		kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, err
		}
		relay := starregistry.NewOutboxRelay(runtime.outbox, kafka, runtime.clock, cfg.OutboxBatchSize, logger)
		app.relay = &relay
		app.activity = &workers.ActivityConsumer{Subscriber: kafka, Logger: logger}
	}
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if cfg.Store != config.StorePostgres {
		return nil, errors.New("worker requires STAR_REGISTRY_STORE=postgres; the memory store relays inside the api process")
	}

	runtime, err := buildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = runtime.postgres.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres:    runtime.postgres,
		outboxRelay: starregistry.NewOutboxRelay(runtime.outbox, kafka, runtime.clock, cfg.OutboxBatchSize, logger),
		activity: workers.ActivityConsumer{
			Subscriber: kafka,
			Logger:     logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func buildRegistry(cfg config.Config, logger *slog.Logger) (registryRuntime, error) {
	if cfg.Store == config.StoreMemory {
		module := starregistry.NewInMemoryModule(logger)
		return registryRuntime{
			module: module,
			outbox: module.Store,
			clock:  module.Store,
		}, nil
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return registryRuntime{}, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.ConnectWithOptions(cfg.PostgresDSN, db.Options{Logger: logger})
	if err != nil {
		return registryRuntime{}, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = pg.Close()
			return registryRuntime{}, err
		}
	}

	module := starregistry.NewModule(starregistry.Dependencies{
		UnitOfWork:     repo,
		Stars:          repo,
		Balances:       repo,
		Idempotency:    repo,
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		Escrow:         entities.RegistryAccount,
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger,
	})
	return registryRuntime{
		module:   module,
		outbox:   repo,
		clock:    postgresadapter.SystemClock{},
		postgres: pg,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"in_process_relay", a.relay != nil,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.server.Start(groupCtx)
	})
	if a.relay != nil {
		if err := a.activity.Start(groupCtx); err != nil {
			return err
		}
		group.Go(func() error {
			return runRelay(groupCtx, *a.relay, a.pollInterval, a.logger)
		})
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.activity.Start(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return runRelay(groupCtx, w.outboxRelay, w.pollInterval, w.logger)
	})
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func runRelay(ctx context.Context, relay workers.OutboxRelay, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := relay.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("outbox relay cycle failed",
				"event", "bootstrap_outbox_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
