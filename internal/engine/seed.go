package engine

import (
	"context"
	"database/sql"
	"fmt"
)

var demoSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		segment VARCHAR NOT NULL,
		lifetime_value DECIMAL(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		price DECIMAL(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY,
		customer_id INTEGER NOT NULL,
		order_date DATE NOT NULL,
		status VARCHAR NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY,
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL
	)`,
}

// Deterministic rows spread over the past year so time-bucketed queries have data.
var demoData = []string{
	`INSERT INTO customers
		SELECT i, 'Customer ' || i,
			CASE i % 3 WHEN 0 THEN 'enterprise' WHEN 1 THEN 'smb' ELSE 'consumer' END,
			(i % 7 + 1) * 250.00
		FROM range(1, 51) t(i)`,
	`INSERT INTO products
		SELECT i, 'Product ' || i,
			CASE i % 4 WHEN 0 THEN 'hardware' WHEN 1 THEN 'software' WHEN 2 THEN 'services' ELSE 'support' END,
			(i % 9 + 1) * 10.00
		FROM range(1, 21) t(i)`,
	`INSERT INTO order_items
		SELECT i, (i - 1) // 2 + 1, (i % 20) + 1, (i % 5) + 1, ((i % 20) % 9 + 1) * 10.00
		FROM range(1, 801) t(i)`,
	`INSERT INTO orders
		SELECT o.id, (o.id % 50) + 1, CAST(CURRENT_DATE - CAST(o.id % 365 AS INTEGER) AS DATE),
			CASE o.id % 4 WHEN 0 THEN 'pending' WHEN 1 THEN 'shipped' WHEN 2 THEN 'delivered' ELSE 'cancelled' END,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0)
		FROM range(1, 401) o(id)
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id`,
}

// SeedDemoData creates the demo commerce tables in the current schema and
// fills them when orders is empty. Safe to call on every start.
func SeedDemoData(ctx context.Context, db *sql.DB) error {
	for _, stmt := range demoSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create demo table: %w", err)
		}
	}

	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n); err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range demoData {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("insert demo data: %w", err)
		}
	}
	return tx.Commit()
}
