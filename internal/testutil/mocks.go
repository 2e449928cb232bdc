// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"
	"time"

	"duck-insights/internal/domain"
)

// === SQL Runner Mock ===

// MockSQLRunner implements domain.SQLRunner for testing.
type MockSQLRunner struct {
	RunFn func(ctx context.Context, sqlQuery, modelID string) (*domain.RunResult, error)

	mu    sync.Mutex
	calls []string
}

// Run implements the interface method for testing.
func (m *MockSQLRunner) Run(ctx context.Context, sqlQuery, modelID string) (*domain.RunResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sqlQuery)
	m.mu.Unlock()
	if m.RunFn != nil {
		return m.RunFn(ctx, sqlQuery, modelID)
	}
	return &domain.RunResult{
		Rows:     []map[string]interface{}{{"value": int32(1)}},
		Columns:  []domain.Column{{Name: "value", Type: "INTEGER"}},
		RowCount: 1,
	}, nil
}

// Calls returns the number of Run invocations.
func (m *MockSQLRunner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// === Schema Provider Mock ===

// MockSchemaProvider implements domain.SchemaProvider for testing.
type MockSchemaProvider struct {
	GetSchemaFn func(ctx context.Context, modelID string) (*domain.SchemaContext, error)
}

// GetSchema implements the interface method for testing.
func (m *MockSchemaProvider) GetSchema(ctx context.Context, modelID string) (*domain.SchemaContext, error) {
	if m.GetSchemaFn != nil {
		return m.GetSchemaFn(ctx, modelID)
	}
	return domain.MinimalSchemaContext(modelID), nil
}

// === Query Log Repository Mock ===

// MockQueryLogRepo implements domain.QueryLogRepository for testing.
type MockQueryLogRepo struct {
	InsertFn          func(ctx context.Context, e *domain.QueryLogEntry) error
	ListRecentFn      func(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
	DeleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int64, error)

	mu      sync.Mutex
	Entries []domain.QueryLogEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockQueryLogRepo) Insert(ctx context.Context, e *domain.QueryLogEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, *e)
	m.mu.Unlock()
	return nil
}

// ListRecent implements the interface method for testing.
func (m *MockQueryLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	panic("unexpected call to MockQueryLogRepo.ListRecent")
}

// DeleteOlderThan implements the interface method for testing.
func (m *MockQueryLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, cutoff)
	}
	panic("unexpected call to MockQueryLogRepo.DeleteOlderThan")
}

// LastEntry returns the last collected entry, or nil if none.
func (m *MockQueryLogRepo) LastEntry() *domain.QueryLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	e := m.Entries[len(m.Entries)-1]
	return &e
}

// HasStatus returns true if any collected entry has the given status.
func (m *MockQueryLogRepo) HasStatus(status domain.QueryStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Status == status {
			return true
		}
	}
	return false
}
