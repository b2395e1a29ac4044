package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME"  envDefault:"starnotary"`
	HTTPPort     string   `env:"HTTP_PORT"     envDefault:"8080"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Store selects the registry persistence: memory or postgres.
	Store              string        `env:"STAR_REGISTRY_STORE"   envDefault:"memory"`
	AutoMigrate        bool          `env:"POSTGRES_AUTO_MIGRATE" envDefault:"false"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"  envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE"     envDefault:"100"`
	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL"       envDefault:"168h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	brokers := make([]string, 0, len(c.KafkaBrokers))
	for _, value := range c.KafkaBrokers {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	c.KafkaBrokers = brokers

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case "", StoreMemory:
		c.Store = StoreMemory
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when STAR_REGISTRY_STORE=%s", StorePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unsupported STAR_REGISTRY_STORE %q", c.Store)
	}

	if c.OutboxPollInterval <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.OutboxBatchSize <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive")
	}
	if c.IdempotencyTTL <= 0 {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}
	return c, nil
}
