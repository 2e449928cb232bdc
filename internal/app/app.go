// Package app provides application-level wiring and dependency injection
// for the duck-insights server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"duck-insights/internal/cache"
	"duck-insights/internal/config"
	internaldb "duck-insights/internal/db"
	"duck-insights/internal/db/repository"
	"duck-insights/internal/domain"
	"duck-insights/internal/engine"
	"duck-insights/internal/service/analytics"
	"duck-insights/internal/service/nlquery"
	"duck-insights/internal/service/query"
	"duck-insights/internal/service/schema"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// the config, the DuckDB connection, and the logger.
type Deps struct {
	Cfg    *config.Config
	DuckDB *sql.DB
	Logger *slog.Logger
}

// App holds the fully-wired application services.
type App struct {
	Catalog   *schema.Catalog
	Generator *nlquery.Generator
	Query     *query.QueryService
	Recorder  *analytics.Recorder
	Reporter  *analytics.Reporter // nil when no report schedule is configured

	closers []func() error
}

// New wires the model catalog, result cache, query log, and services from
// the provided deps. It seeds the demo dataset when configured.
func New(ctx context.Context, deps Deps) (_ *App, err error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// === Model catalog ===
	a.Catalog = schema.DefaultCatalog()
	if cfg.ModelsFile != "" {
		if a.Catalog, err = schema.LoadCatalog(cfg.ModelsFile); err != nil {
			return nil, err
		}
	}
	logger.Info("model catalog loaded", "models", a.Catalog.IDs())

	// === Demo data ===
	if cfg.SeedDemoData {
		if err := engine.SeedDemoData(ctx, deps.DuckDB); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	// === Result cache ===
	resultCache, closeCache, err := NewResultCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeCache)
	logger.Info("result cache ready", "backend", cfg.Cache.Backend)

	// === Query log (optional) ===
	var queryLog domain.QueryLogRepository
	if cfg.QueryLogDBPath != "" {
		store, err := internaldb.Open(cfg.QueryLogDBPath, 4)
		if err != nil {
			return nil, fmt.Errorf("open query log: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		queryLog = repository.NewQueryLogRepo(store.Write, store.Read)
	}

	// === Core services ===
	provider := schema.NewProvider(a.Catalog)
	a.Generator = nlquery.NewGenerator(nlquery.DefaultLibrary(), provider, logger.With("component", "generator"))
	a.Generator.SetStrictModels(cfg.StrictModels)

	a.Recorder = analytics.NewRecorder(cfg.RecentQueriesLimit)

	runner := engine.NewDuckDBRunner(deps.DuckDB, a.Catalog)
	a.Query = query.NewQueryService(runner, resultCache, a.Recorder, logger.With("component", "query"))
	a.Query.SetTimeout(cfg.QueryTimeout)
	a.Query.SetDedupeInFlight(cfg.DedupeInFlight)
	if queryLog != nil {
		a.Query.SetQueryLog(queryLog)
	}

	// === Analytics reporter (optional) ===
	if cfg.AnalyticsReportSchedule != "" {
		a.Reporter, err = analytics.NewReporter(cfg.AnalyticsReportSchedule, a.Recorder, logger.With("component", "analytics"))
		if err != nil {
			return nil, err
		}
		if queryLog != nil && cfg.QueryLogRetention > 0 {
			a.Reporter.SetQueryLogRetention(queryLog, cfg.QueryLogRetention)
		}
	}

	return a, nil
}

// NewResultCache builds the cache backend selected by cfg. The returned
// close function is never nil.
func NewResultCache(ctx context.Context, cfg config.CacheConfig) (domain.ResultCache, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case "", config.CacheBackendMemory:
		return cache.NewMemoryCache(), noop, nil
	case config.CacheBackendLRU:
		c, err := cache.NewLRUCache(cfg.MaxEntries)
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil
	case config.CacheBackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
			Prefix:   cfg.RedisKeyPrefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Start begins background work.
func (a *App) Start() {
	if a.Reporter != nil {
		a.Reporter.Start()
	}
}

// Close stops background work and releases owned resources.
func (a *App) Close() error {
	if a.Reporter != nil {
		a.Reporter.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
