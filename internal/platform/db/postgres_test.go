package db

import (
	"testing"
	"time"
)

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := ConnectWithOptions("", Options{}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{MaxOpenConns: 3}.withDefaults()
	if opts.MaxOpenConns != 3 {
		t.Fatalf("explicit max open conns overridden: %d", opts.MaxOpenConns)
	}
	if opts.MaxIdleConns != 5 || opts.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("unexpected pool defaults: %+v", opts)
	}
	if opts.Logger == nil {
		t.Fatalf("expected default logger")
	}
}

func TestCloseNilIsNoop(t *testing.T) {
	var pg *Postgres
	if err := pg.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
