package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Recent-search backends accepted by RECENT_STORE.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// maxRecentSearchLimit is the recent-search cap; the setting may only lower it.
const maxRecentSearchLimit = 10

// Config captures all runtime configuration. Keys are the lowercased
// environment variable names, so a YAML file uses the same spelling.
type Config struct {
	Port               string `koanf:"port"`
	CatalogURL         string `koanf:"catalog_url"`
	CatalogAPIKey      string `koanf:"catalog_api_key"`
	CatalogTimeoutSecs int    `koanf:"catalog_timeout_secs"`
	CatalogLanguage    string `koanf:"catalog_language"`
	ReadTimeoutSecs    int    `koanf:"server_read_timeout"`
	WriteTimeoutSecs   int    `koanf:"server_write_timeout"`
	IdleTimeoutSecs    int    `koanf:"server_idle_timeout"`

	RecentStore       string `koanf:"recent_store"`
	RecentSearchLimit int    `koanf:"recent_search_limit"`

	DBURL             string `koanf:"db_url"`
	DBMaxConns        int    `koanf:"db_max_conns"`
	DBMinConns        int    `koanf:"db_min_conns"`
	DBMaxIdleSecs     int    `koanf:"db_max_conn_idle_secs"`
	DBMaxLifeSecs     int    `koanf:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs int    `koanf:"db_conn_timeout_secs"`
	DBStatementCache  int    `koanf:"db_statement_cache_capacity"`

	RedisURL      string `koanf:"redis_url"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	SQLitePath string `koanf:"sqlite_path"`

	PopularTarget    int `koanf:"popular_target"`
	PopularMaxPages  int `koanf:"popular_max_pages"`
	TrendingMaxPages int `koanf:"trending_max_pages"`
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	SentryDSN         string `koanf:"sentry_dsn"`
	SentryEnvironment string `koanf:"sentry_environment"`
}

// Defaults returns the configuration used when nothing overrides a key.
func Defaults() Config {
	return Config{
		Port:               "8080",
		CatalogTimeoutSecs: 5,
		CatalogLanguage:    "en-US",
		ReadTimeoutSecs:    15,
		WriteTimeoutSecs:   15,
		IdleTimeoutSecs:    60,
		RecentStore:        BackendMemory,
		RecentSearchLimit:  10,
		DBMaxConns:         20,
		DBMinConns:         2,
		DBMaxIdleSecs:      300,
		DBMaxLifeSecs:      3600,
		DBConnTimeoutSecs:  10,
		DBStatementCache:   256,
		SQLitePath:         "reelscout.db",
		PopularTarget:      50,
		PopularMaxPages:    10,
		TrendingMaxPages:   8,
		SearchDebounceMS:   500,
	}
}

// Load layers, lowest precedence first: Defaults, the YAML file named by
// CONFIG_FILE, a .env file (ENV_FILE, default ".env"; missing is fine) and the
// process environment. Empty environment values count as unset.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load CONFIG_FILE %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.RecentStore = strings.ToLower(strings.TrimSpace(cfg.RecentStore))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid key.
func (cfg Config) Validate() error {
	if cfg.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if cfg.CatalogTimeoutSecs <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECS must be positive")
	}
	if cfg.RecentSearchLimit <= 0 || cfg.RecentSearchLimit > maxRecentSearchLimit {
		return fmt.Errorf("RECENT_SEARCH_LIMIT must be between 1 and %d", maxRecentSearchLimit)
	}
	if cfg.PopularTarget <= 0 {
		return fmt.Errorf("POPULAR_TARGET must be positive")
	}
	if cfg.PopularMaxPages <= 0 {
		return fmt.Errorf("POPULAR_MAX_PAGES must be positive")
	}
	if cfg.TrendingMaxPages <= 0 {
		return fmt.Errorf("TRENDING_MAX_PAGES must be positive")
	}
	if cfg.SearchDebounceMS <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must be positive")
	}

	switch cfg.RecentStore {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RECENT_STORE=redis")
		}
		if cfg.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must be non-negative")
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when RECENT_STORE=sqlite")
		}
	case BackendPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when RECENT_STORE=postgres")
		}
		if cfg.DBMaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if cfg.DBMinConns < 0 {
			return fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if cfg.DBMinConns > cfg.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if cfg.DBStatementCache < 0 {
			return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	default:
		return fmt.Errorf("RECENT_STORE must be one of memory, redis, sqlite, postgres")
	}
	return nil
}
