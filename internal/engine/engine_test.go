package engine_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duck-insights/internal/engine"
)

var ctx = context.Background()

type staticModels map[string]string

func (m staticModels) SchemaFor(modelID string) (string, bool) {
	s, ok := m[modelID]
	return s, ok
}

func openDuckDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRun_ScalarQuery(t *testing.T) {
	runner := engine.NewDuckDBRunner(openDuckDB(t), nil)

	res, err := runner.Run(ctx, "SELECT 1 AS one, 'x' AS label", "default")
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount)
	require.Len(t, res.Columns, 2)
	assert.Equal(t, "one", res.Columns[0].Name)
	assert.Equal(t, "INTEGER", res.Columns[0].Type)
	assert.Equal(t, "label", res.Columns[1].Name)
	assert.Equal(t, int32(1), res.Rows[0]["one"])
	assert.Equal(t, "x", res.Rows[0]["label"])
}

func TestRun_EmptyResult(t *testing.T) {
	runner := engine.NewDuckDBRunner(openDuckDB(t), nil)

	res, err := runner.Run(ctx, "SELECT 1 AS one WHERE false", "default")
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowCount)
	assert.NotNil(t, res.Rows)
	assert.Len(t, res.Columns, 1)
}

func TestRun_Error(t *testing.T) {
	runner := engine.NewDuckDBRunner(openDuckDB(t), nil)

	_, err := runner.Run(ctx, "SELECT * FROM missing_table", "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_table")
}

func TestRun_ModelSchema(t *testing.T) {
	db := openDuckDB(t)
	_, err := db.ExecContext(ctx, "CREATE SCHEMA sales")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE sales.targets AS SELECT 42 AS goal")
	require.NoError(t, err)

	runner := engine.NewDuckDBRunner(db, staticModels{"sales": "sales"})

	res, err := runner.Run(ctx, "SELECT goal FROM targets", "sales")
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowCount)

	// unknown models run against the default schema
	_, err = runner.Run(ctx, "SELECT goal FROM targets", "unknown")
	require.Error(t, err)
}

func TestSeedDemoData(t *testing.T) {
	db := openDuckDB(t)
	require.NoError(t, engine.SeedDemoData(ctx, db))
	// idempotent
	require.NoError(t, engine.SeedDemoData(ctx, db))

	for table, want := range map[string]int64{"customers": 50, "products": 20, "orders": 400, "order_items": 800} {
		var n int64
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Equal(t, want, n, table)
	}
}

func TestRun_NormalizesValues(t *testing.T) {
	runner := engine.NewDuckDBRunner(openDuckDB(t), nil)

	res, err := runner.Run(ctx, "SELECT CAST(12.50 AS DECIMAL(10,2)) AS amount, 'abc'::BLOB AS raw", "default")
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount)
	assert.InDelta(t, 12.5, res.Rows[0]["amount"], 1e-9)
	assert.Equal(t, "abc", res.Rows[0]["raw"])
}
