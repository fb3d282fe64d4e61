// Package app assembles the components shared by the server and the CLI from
// a loaded config.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Clark-Hu/reelscout/db"
	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/config"
	"github.com/Clark-Hu/reelscout/internal/discovery"
	"github.com/Clark-Hu/reelscout/internal/kv"
	"github.com/Clark-Hu/reelscout/internal/repository"
	"github.com/Clark-Hu/reelscout/internal/store"
)

// Backend is the recent-search store selected by RECENT_STORE.
type Backend struct {
	Store kv.Store
	// Health is nil for the in-memory backend.
	Health kv.Pinger
	close  func()
}

// Close releases the backend connection.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// NewAggregator builds the catalog client and the discovery aggregator.
func NewAggregator(cfg config.Config, logger *log.Logger) (*discovery.Aggregator, error) {
	client, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAPIKey, time.Duration(cfg.CatalogTimeoutSecs)*time.Second, logger)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	return discovery.NewAggregator(client,
		discovery.WithLogger(logger),
		discovery.WithLanguage(cfg.CatalogLanguage),
		discovery.WithPopularLimits(cfg.PopularTarget, cfg.PopularMaxPages),
		discovery.WithTrendingMaxPages(cfg.TrendingMaxPages),
	), nil
}

// OpenBackend connects the configured key-value store. The postgres backend
// applies the embedded migrations first.
func OpenBackend(ctx context.Context, cfg config.Config, logger *log.Logger) (*Backend, error) {
	if logger == nil {
		logger = log.Default()
	}
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.RecentStore {
	case config.BackendMemory, "":
		return &Backend{Store: kv.NewMemory()}, nil

	case config.BackendRedis:
		r, err := kv.NewRedis(connCtx, kv.RedisOptions{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Store: r, Health: r, close: func() { _ = r.Close() }}, nil

	case config.BackendSQLite:
		s, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Printf("kv: sqlite store at %s", cfg.SQLitePath)
		return &Backend{Store: s, Health: s, close: func() { _ = s.Close() }}, nil

	case config.BackendPostgres:
		st, err := store.New(connCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(connCtx, db.Migrations); err != nil {
			st.Close()
			return nil, err
		}
		return &Backend{Store: repository.New(st).KeyValues, Health: st, close: st.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported recent store %q", cfg.RecentStore)
	}
}
