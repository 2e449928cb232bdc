package domain

import (
	"context"
	"time"
)

// SchemaProvider supplies the tables, metrics, and dimensions of a model.
// Returns a NotFoundError for unknown model ids.
type SchemaProvider interface {
	GetSchema(ctx context.Context, modelID string) (*SchemaContext, error)
}

// SQLRunner executes SQL against a named model. Implemented by engine.DuckDBRunner.
type SQLRunner interface {
	Run(ctx context.Context, sqlQuery, modelID string) (*RunResult, error)
}

// ResultCache maps a literal SQL string to its most recent execution result.
// Keys are compared byte-for-byte; no normalization is applied.
type ResultCache interface {
	Get(ctx context.Context, sqlKey string) (*ExecutionResult, bool, error)
	Set(ctx context.Context, sqlKey string, result *ExecutionResult) error
}

// QueryLogRepository persists executed queries.
type QueryLogRepository interface {
	Insert(ctx context.Context, entry *QueryLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]QueryLogEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
