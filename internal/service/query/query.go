// Package query executes SQL through the result cache and records analytics
// for every call.
package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"duck-insights/internal/domain"
)

// Recorder receives one entry per call into the executor.
// Implemented by analytics.Recorder.
type Recorder interface {
	Record(entry domain.QueryLogEntry)
}

// QueryService runs SQL against a model, serving repeated literal queries
// from the result cache.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryService struct {
	runner   domain.SQLRunner
	cache    domain.ResultCache
	recorder Recorder
	queryLog domain.QueryLogRepository
	logger   *slog.Logger

	timeout  time.Duration
	dedupe   bool
	inflight singleflight.Group
}

// NewQueryService creates a new QueryService.
func NewQueryService(runner domain.SQLRunner, cache domain.ResultCache, recorder Recorder, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{runner: runner, cache: cache, recorder: recorder, logger: logger}
}

// SetQueryLog configures durable query log storage.
// Optional; without it executions are only kept in memory.
func (s *QueryService) SetQueryLog(repo domain.QueryLogRepository) {
	s.queryLog = repo
}

// SetTimeout bounds each execution. Zero disables the bound, in which case a
// caller that goes away does not cancel the in-flight execution.
func (s *QueryService) SetTimeout(d time.Duration) {
	s.timeout = d
}

// SetDedupeInFlight makes concurrent cached executions of the same literal
// SQL share a single run.
func (s *QueryService) SetDedupeInFlight(enabled bool) {
	s.dedupe = enabled
}

// Execute runs sqlQuery against modelID. With useCache, a previous result for
// the identical literal string is returned with FromCache set and nothing is
// executed. Execution failures are returned as *domain.ExecutionError and are
// neither cached nor retried. Blank SQL is rejected with a ValidationError and
// recorded as a failed call.
func (s *QueryService) Execute(ctx context.Context, sqlQuery, modelID string, useCache bool) (*domain.ExecutionResult, error) {
	if strings.TrimSpace(sqlQuery) == "" {
		err := domain.ErrValidation("sql query is required")
		s.record(ctx, domain.QueryLogEntry{
			SQL:          sqlQuery,
			ModelID:      modelID,
			Status:       domain.QueryStatusError,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	if useCache {
		start := time.Now()
		if cached, ok := s.lookup(ctx, sqlQuery); ok {
			s.record(ctx, domain.QueryLogEntry{
				ID:              cached.QueryID,
				SQL:             sqlQuery,
				ModelID:         modelID,
				ExecutionTimeMs: time.Since(start).Milliseconds(),
				RowCount:        cached.RowCount,
				Status:          domain.QueryStatusCached,
			})
			return cached, nil
		}
		if s.dedupe {
			return s.executeShared(ctx, sqlQuery, modelID)
		}
	}

	return s.run(ctx, sqlQuery, modelID, useCache)
}

// lookup returns a copy of the cached result marked as served from cache.
// Cache backend errors are treated as a miss.
func (s *QueryService) lookup(ctx context.Context, sqlQuery string) (*domain.ExecutionResult, bool) {
	cached, ok, err := s.cache.Get(ctx, sqlQuery)
	if err != nil {
		s.logger.Warn("result cache lookup failed", "error", err)
		return nil, false
	}
	if !ok || cached == nil {
		return nil, false
	}
	hit := *cached
	hit.FromCache = true
	return &hit, true
}

// executeShared joins an in-flight execution of the same literal SQL if one
// exists. Only the caller whose function ran records a real execution; the
// others are recorded as cache hits.
func (s *QueryService) executeShared(ctx context.Context, sqlQuery, modelID string) (*domain.ExecutionResult, error) {
	start := time.Now()
	ran := false
	v, err, _ := s.inflight.Do(sqlQuery, func() (interface{}, error) {
		ran = true
		return s.run(ctx, sqlQuery, modelID, true)
	})
	if ran {
		if err != nil {
			return nil, err
		}
		return v.(*domain.ExecutionResult), nil
	}

	waited := time.Since(start).Milliseconds()
	if err != nil {
		s.record(ctx, domain.QueryLogEntry{
			SQL:             sqlQuery,
			ModelID:         modelID,
			ExecutionTimeMs: waited,
			Status:          domain.QueryStatusError,
			ErrorMessage:    err.Error(),
		})
		return nil, err
	}

	shared := *v.(*domain.ExecutionResult)
	shared.FromCache = true
	s.record(ctx, domain.QueryLogEntry{
		ID:              shared.QueryID,
		SQL:             sqlQuery,
		ModelID:         modelID,
		ExecutionTimeMs: waited,
		RowCount:        shared.RowCount,
		Status:          domain.QueryStatusCached,
	})
	return &shared, nil
}

func (s *QueryService) run(ctx context.Context, sqlQuery, modelID string, useCache bool) (*domain.ExecutionResult, error) {
	runCtx, cancel := s.runContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.runner.Run(runCtx, sqlQuery, modelID)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		s.record(ctx, domain.QueryLogEntry{
			SQL:             sqlQuery,
			ModelID:         modelID,
			ExecutionTimeMs: elapsed,
			Status:          domain.QueryStatusError,
			ErrorMessage:    err.Error(),
		})
		return nil, domain.ErrExecution(err, "query execution failed")
	}

	result := &domain.ExecutionResult{
		Data:            res.Rows,
		Columns:         res.Columns,
		RowCount:        res.RowCount,
		ExecutionTimeMs: elapsed,
		QueryID:         domain.NewID(),
	}
	if result.Data == nil {
		result.Data = []map[string]interface{}{}
	}
	if result.Columns == nil {
		result.Columns = []domain.Column{}
	}

	if useCache {
		stored := *result
		if err := s.cache.Set(ctx, sqlQuery, &stored); err != nil {
			s.logger.Warn("result cache store failed", "error", err)
		}
	}

	s.record(ctx, domain.QueryLogEntry{
		ID:              result.QueryID,
		SQL:             sqlQuery,
		ModelID:         modelID,
		ExecutionTimeMs: elapsed,
		RowCount:        result.RowCount,
		Status:          domain.QueryStatusSuccess,
	})
	return result, nil
}

func (s *QueryService) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithoutCancel(ctx), func() {}
}

// record feeds the analytics recorder and, best-effort, the query log.
func (s *QueryService) record(ctx context.Context, entry domain.QueryLogEntry) {
	entry.PrincipalName = domain.PrincipalName(ctx)
	entry.Timestamp = time.Now().UTC()
	if entry.ID == "" {
		entry.ID = domain.NewID()
	}

	if s.recorder != nil {
		s.recorder.Record(entry)
	}

	if s.queryLog == nil {
		return
	}
	if err := s.queryLog.Insert(context.WithoutCancel(ctx), &entry); err != nil {
		s.logger.Warn("query log insert failed", "error", err, "query_id", entry.ID)
	}
}

// History returns the most recent persisted executions, newest first.
// Without a query log it returns an empty list.
func (s *QueryService) History(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if s.queryLog == nil {
		return []domain.QueryLogEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.queryLog.ListRecent(ctx, limit)
}
