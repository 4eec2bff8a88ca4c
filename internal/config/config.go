package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Match    MatchConfig
	Analysis AnalysisConfig
	Resume   ResumeConfig
	Scraper  ScraperConfig
}

type AppConfig struct {
	AppName      string
	Environment  string
	HTTPPort     string
	StatusPolicy string
}

type LogConfig struct {
	Level string
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type StorageConfig struct {
	Backend    string
	SQLitePath string
}

type DatabaseConfig struct {
	URL        string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	MigrateOnStart      bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type MatchConfig struct {
	Jitter     string
	JitterSeed int64
	CacheTTL   time.Duration
	ConfigPath string
	Vocabulary []string
}

type AnalysisConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
	Retention time.Duration
	PruneSpec string
	// RatePerSec caps analyses started per second; 0 means no cap.
	RatePerSec float64
}

type ResumeConfig struct {
	Extractor      string
	CannedDelay    time.Duration
	MaxUploadBytes int
}

type ScraperConfig struct {
	Headless     bool
	RatePerSec   float64
	Burst        int
	Timeout      time.Duration
	UserAgent    string
	AllowedHosts []string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	// A local .env fills in variables the process does not already set.
	_ = godotenv.Load()

	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:      req("APP_NAME"),
		Environment:  req("APP_ENV"),
		HTTPPort:     req("HTTP_PORT"),
		StatusPolicy: optDefault("STATUS_POLICY", "permissive"),
	}

	cfg.Log = LogConfig{Level: optDefault("LOG_LEVEL", "info")}

	cfg.Storage = StorageConfig{
		Backend:    strings.ToLower(optDefault("STORAGE_BACKEND", BackendMemory)),
		SQLitePath: optDefault("SQLITE_PATH", "data/job-tracker.db"),
	}

	cfg.Database = DatabaseConfig{
		URL:                 opt("DATABASE_URL"),
		DBHost:              opt("DB_HOST"),
		DBPort:              opt("DB_PORT"),
		DBName:              opt("DB_NAME"),
		DBUser:              opt("DB_USER"),
		DBPassword:          opt("DB_PASSWORD"),
		DBSSLMode:           optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		MigrateOnStart:      optBool("DB_MIGRATE_ON_START", true),
	}

	cfg.Redis = RedisConfig{
		Addr:      opt("REDIS_ADDR"),
		Password:  opt("REDIS_PASSWORD"),
		DB:        optInt("REDIS_DB", 0),
		KeyPrefix: optDefault("REDIS_KEY_PREFIX", "jt:"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:  req("JWT_ACCESS_SECRET"),
		RefreshSecret: req("JWT_REFRESH_SECRET"),
		AccessTTL:     optDuration("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    optDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
	}

	cfg.Match = MatchConfig{
		Jitter:     strings.ToLower(optDefault("MATCH_JITTER", "fixed")),
		JitterSeed: int64(optInt("MATCH_JITTER_SEED", 1)),
		CacheTTL:   optDuration("MATCH_CACHE_TTL", 10*time.Minute),
		ConfigPath: opt("MATCH_CONFIG_PATH"),
	}

	cfg.Analysis = AnalysisConfig{
		Workers:   optInt("ANALYSIS_WORKERS", 4),
		QueueSize: optInt("ANALYSIS_QUEUE_SIZE", 64),
		Timeout:   optDuration("ANALYSIS_TIMEOUT", 30*time.Second),
		Retention: optDuration("ANALYSIS_RETENTION", 15*time.Minute),
		PruneSpec: optDefault("ANALYSIS_PRUNE_SPEC", "@every 1m"),

		RatePerSec: optFloat("ANALYSIS_RATE_PER_SEC", 0),
	}

	cfg.Resume = ResumeConfig{
		Extractor:      strings.ToLower(optDefault("RESUME_EXTRACTOR", "auto")),
		CannedDelay:    optDuration("RESUME_CANNED_DELAY", 2*time.Second),
		MaxUploadBytes: optInt("RESUME_MAX_UPLOAD_BYTES", 5<<20),
	}

	cfg.Scraper = ScraperConfig{
		Headless:     optBool("SCRAPER_HEADLESS", false),
		RatePerSec:   optFloat("SCRAPER_RATE_PER_SEC", 1),
		Burst:        optInt("SCRAPER_BURST", 2),
		Timeout:      optDuration("SCRAPER_TIMEOUT", 20*time.Second),
		UserAgent:    optDefault("SCRAPER_USER_AGENT", "job-tracker/1.0"),
		AllowedHosts: splitList(opt("SCRAPER_ALLOWED_HOSTS")),
	}

	switch cfg.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.Database.URL == "" && cfg.Database.DBHost == "" {
			missing = append(missing, "DATABASE_URL or DB_HOST")
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		invalid = append(invalid, "STORAGE_BACKEND")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	if cfg.Match.ConfigPath != "" {
		if err := cfg.Match.applyFile(cfg.Match.ConfigPath); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
