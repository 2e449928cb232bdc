package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"duck-insights/internal/domain"
)

// Reporter periodically logs the analytics snapshot and, when a query log
// repository and retention are configured, prunes old query log rows.
type Reporter struct {
	cron      *cron.Cron
	recorder  *Recorder
	queryLog  domain.QueryLogRepository
	retention time.Duration
	logger    *slog.Logger
}

// NewReporter schedules snapshot reports using a cron spec such as
// "@every 5m" or "0 * * * *".
func NewReporter(schedule string, recorder *Recorder, logger *slog.Logger) (*Reporter, error) {
	r := &Reporter{
		cron:     cron.New(),
		recorder: recorder,
		logger:   logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.report); err != nil {
		return nil, fmt.Errorf("invalid analytics report schedule %q: %w", schedule, err)
	}
	return r, nil
}

// SetQueryLogRetention prunes query log rows older than retention on every run.
func (r *Reporter) SetQueryLogRetention(repo domain.QueryLogRepository, retention time.Duration) {
	r.queryLog = repo
	r.retention = retention
}

// Start runs the scheduler in the background.
func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for a running report to finish.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reporter) report() {
	snap := r.recorder.Snapshot()
	r.logger.Info("query analytics",
		"total_queries", snap.TotalQueries,
		"avg_execution_time_ms", snap.AvgExecutionTimeMs,
		"cache_hits", snap.CacheHits,
		"cache_misses", snap.CacheMisses,
		"failed_queries", snap.FailedQueries,
	)

	if r.queryLog == nil || r.retention <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	deleted, err := r.queryLog.DeleteOlderThan(ctx, time.Now().Add(-r.retention))
	if err != nil {
		r.logger.Warn("prune query log failed", "error", err)
		return
	}
	if deleted > 0 {
		r.logger.Info("pruned query log", "deleted", deleted)
	}
}
