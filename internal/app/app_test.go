package app

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Clark-Hu/reelscout/internal/config"
	"github.com/Clark-Hu/reelscout/internal/kv"
)

var quiet = log.New(io.Discard, "", 0)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := config.Defaults()
		b, err := OpenBackend(ctx, cfg, quiet)
		if err != nil {
			t.Fatalf("OpenBackend: %v", err)
		}
		defer b.Close()
		if _, ok := b.Store.(*kv.Memory); !ok {
			t.Fatalf("store = %T, want *kv.Memory", b.Store)
		}
		if b.Health != nil {
			t.Fatalf("memory backend should have no health check")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.RecentStore = config.BackendSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "recent.db")
		b, err := OpenBackend(ctx, cfg, quiet)
		if err != nil {
			t.Fatalf("OpenBackend: %v", err)
		}
		defer b.Close()
		if b.Health == nil || b.Health.Ping(ctx) != nil {
			t.Fatalf("sqlite backend should answer pings")
		}
		if err := b.Store.Set(ctx, "k", "v"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.RecentStore = "etcd"
		if _, err := OpenBackend(ctx, cfg, quiet); err == nil || !strings.Contains(err.Error(), "etcd") {
			t.Fatalf("err = %v, want unsupported store", err)
		}
	})
}

func TestNewAggregatorRejectsRelativeURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.CatalogURL = "not-a-url"
	if _, err := NewAggregator(cfg, quiet); err == nil {
		t.Fatalf("expected error for relative catalog url")
	}
	cfg.CatalogURL = "http://localhost:9099"
	if _, err := NewAggregator(cfg, quiet); err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
}
