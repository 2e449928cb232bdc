// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendLRU    = "lru"
	CacheBackendRedis  = "redis"
)

// AuthConfig holds bearer-token authentication settings.
type AuthConfig struct {
	IssuerURL string // OIDC issuer URL; enables OIDC validation when set
	Audience  string // Required JWT audience claim (OIDC)
	JWTSecret string // HS256 shared secret for local/dev JWT auth
	NameClaim string // JWT claim used as principal name (default: "email", falls back to "sub")
}

// OIDCEnabled returns true when an external identity provider is configured.
func (a *AuthConfig) OIDCEnabled() bool {
	return a.IssuerURL != ""
}

// Enabled returns true when any token validator is configured.
func (a *AuthConfig) Enabled() bool {
	return a.OIDCEnabled() || a.JWTSecret != ""
}

// CacheConfig selects and sizes the result cache.
type CacheConfig struct {
	Backend    string        // memory (default), lru, or redis
	MaxEntries int           // lru capacity (default 1000)
	TTL        time.Duration // redis entry expiry; 0 keeps entries forever

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string // default "nlq:result:"
	RedisPoolSize  int    // 0 uses the client default
}

// Config holds the configuration for the query API.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	DuckDBPath   string // DuckDB database file; empty means in-memory
	SeedDemoData bool   // create and fill the demo commerce tables on start
	ModelsFile   string // YAML model catalog; empty uses the built-in default model
	StrictModels bool   // reject unknown model ids instead of passing them through

	Cache CacheConfig

	DedupeInFlight bool          // share one execution between concurrent identical queries
	QueryTimeout   time.Duration // per-execution bound; 0 disables

	RecentQueriesLimit      int    // analytics ring buffer size (default 10, clamped to 1..100)
	AnalyticsReportSchedule string // cron spec for periodic analytics logging; empty disables

	QueryLogDBPath    string        // SQLite file for the persistent query log; empty disables
	QueryLogRetention time.Duration // prune entries older than this on each report; 0 keeps all

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Auth holds identity provider and authentication configuration.
	Auth AuthConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:              os.Getenv("LISTEN_ADDR"),
		LogLevel:                os.Getenv("LOG_LEVEL"),
		Env:                     os.Getenv("ENV"),
		DuckDBPath:              os.Getenv("DUCKDB_PATH"),
		ModelsFile:              os.Getenv("MODELS_FILE"),
		AnalyticsReportSchedule: strings.TrimSpace(os.Getenv("ANALYTICS_REPORT_SCHEDULE")),
		QueryLogDBPath:          os.Getenv("QUERY_LOG_DB_PATH"),
	}
	p := &parser{cfg: cfg}

	cfg.SeedDemoData = p.boolean("SEED_DEMO_DATA", true)
	cfg.StrictModels = p.boolean("STRICT_MODELS", false)
	cfg.DedupeInFlight = p.boolean("DEDUPE_INFLIGHT", false)
	cfg.QueryTimeout = p.duration("QUERY_TIMEOUT", 0)
	cfg.RecentQueriesLimit = p.integer("RECENT_QUERIES_LIMIT", 10)
	cfg.QueryLogRetention = p.duration("QUERY_LOG_RETENTION", 0)

	cfg.Cache = CacheConfig{
		Backend:        strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND"))),
		MaxEntries:     p.integer("CACHE_MAX_ENTRIES", 1000),
		TTL:            p.duration("CACHE_TTL", 0),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        p.integer("REDIS_DB", 0),
		RedisKeyPrefix: os.Getenv("REDIS_KEY_PREFIX"),
		RedisPoolSize:  p.integer("REDIS_POOL_SIZE", 0),
	}

	// Rate limiting
	cfg.RateLimitRPS = p.float("RATE_LIMIT_RPS", 100)
	cfg.RateLimitBurst = p.integer("RATE_LIMIT_BURST", 200)

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	// Auth config
	cfg.Auth = AuthConfig{
		IssuerURL: os.Getenv("AUTH_ISSUER_URL"),
		Audience:  os.Getenv("AUTH_AUDIENCE"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		NameClaim: os.Getenv("AUTH_NAME_CLAIM"),
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Auth.NameClaim == "" {
		cfg.Auth.NameClaim = "email"
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.RedisKeyPrefix == "" {
		cfg.Cache.RedisKeyPrefix = "nlq:result:"
	}

	switch cfg.Cache.Backend {
	case CacheBackendMemory, CacheBackendLRU:
	case CacheBackendRedis:
		if cfg.Cache.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q: must be memory, lru, or redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisPoolSize < 0 {
		return nil, fmt.Errorf("REDIS_POOL_SIZE must not be negative, got %d", cfg.Cache.RedisPoolSize)
	}
	if cfg.Cache.MaxEntries <= 0 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Auth.OIDCEnabled() && cfg.Auth.Audience == "" {
		return nil, fmt.Errorf("AUTH_AUDIENCE is required when AUTH_ISSUER_URL is set")
	}
	if !cfg.Auth.Enabled() {
		cfg.Warnings = append(cfg.Warnings, "authentication is disabled; set JWT_SECRET or AUTH_ISSUER_URL")
	}
	if cfg.QueryLogRetention > 0 && cfg.QueryLogDBPath == "" {
		cfg.Warnings = append(cfg.Warnings, "QUERY_LOG_RETENTION has no effect without QUERY_LOG_DB_PATH")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if !cfg.Auth.Enabled() {
			return nil, fmt.Errorf("authentication must be configured in production (set JWT_SECRET or AUTH_ISSUER_URL)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

// parser reads typed environment values. Malformed values fall back to the
// default and are reported as warnings.
type parser struct {
	cfg *Config
}

func (p *parser) warnInvalid(key, value string) {
	p.cfg.Warnings = append(p.cfg.Warnings, fmt.Sprintf("ignoring invalid %s=%q", key, value))
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	p.warnInvalid(key, v)
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.warnInvalid(key, v)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		p.warnInvalid(key, v)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.warnInvalid(key, v)
		return def
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = stripQuotes(strings.TrimSpace(value))
		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
