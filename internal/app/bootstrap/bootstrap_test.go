package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"starnotary/internal/platform/config"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
		" 81 ":  ":81",
	}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildAPIWithMemoryStoreRelaysInProcess(t *testing.T) {
	app, err := buildAPI(config.Config{
		ServiceName:        "starnotary",
		HTTPPort:           "0",
		KafkaBrokers:       []string{"localhost:9092"},
		Store:              config.StoreMemory,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    10,
		IdempotencyTTL:     time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("build api: %v", err)
	}
	if app.relay == nil || app.activity == nil {
		t.Fatalf("expected in-process relay for memory store")
	}
	if app.postgres != nil {
		t.Fatalf("memory store must not open postgres")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
