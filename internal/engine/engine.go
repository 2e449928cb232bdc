// Package engine runs SQL against DuckDB on behalf of the query executor and
// exposes the table metadata used to build schema contexts.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/duckdb/duckdb-go/v2"

	"duck-insights/internal/domain"
)

// DefaultSchema is the DuckDB schema used for models without an explicit mapping.
const DefaultSchema = "main"

// SchemaResolver maps a model id to the DuckDB schema its tables live in.
type SchemaResolver interface {
	SchemaFor(modelID string) (string, bool)
}

// Compile-time check.
var _ domain.SQLRunner = (*DuckDBRunner)(nil)

// DuckDBRunner executes SQL against a DuckDB connection pool. Each run pins a
// connection so the model's schema can be selected for unqualified table names.
type DuckDBRunner struct {
	db     *sql.DB
	models SchemaResolver
}

// NewDuckDBRunner creates a runner over db. models may be nil, in which case
// every model resolves to DefaultSchema.
func NewDuckDBRunner(db *sql.DB, models SchemaResolver) *DuckDBRunner {
	return &DuckDBRunner{db: db, models: models}
}

// Run executes sqlQuery and materialises every row. Unknown models run against
// DefaultSchema.
func (r *DuckDBRunner) Run(ctx context.Context, sqlQuery, modelID string) (*domain.RunResult, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	if _, err := conn.ExecContext(ctx, "SET schema = "+quoteLiteral(r.schemaFor(modelID))); err != nil {
		return nil, fmt.Errorf("select schema: %w", err)
	}

	rows, err := conn.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanRows(rows)
}

func (r *DuckDBRunner) schemaFor(modelID string) string {
	if r.models != nil {
		if s, ok := r.models.SchemaFor(modelID); ok && s != "" {
			return s
		}
	}
	return DefaultSchema
}

// scanRows reads all rows into column-keyed maps with JSON-friendly values.
func scanRows(rows *sql.Rows) (*domain.RunResult, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	columns := make([]domain.Column, len(types))
	for i, ct := range types {
		columns[i] = domain.Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	data := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			row[c.Name] = normalizeValue(values[i])
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &domain.RunResult{Rows: data, Columns: columns, RowCount: len(data)}, nil
}

// normalizeValue converts driver types that do not encode naturally as JSON.
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case duckdb.Decimal:
		return x.Float64()
	default:
		return v
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
