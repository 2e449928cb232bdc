// Package repository implements domain persistence ports on SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duck-insights/internal/domain"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time check.
var _ domain.QueryLogRepository = (*QueryLogRepo)(nil)

// QueryLogRepo stores executed queries. Writes go through the single-connection
// write pool; reads use the read pool.
type QueryLogRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewQueryLogRepo creates a QueryLogRepo. read may equal write.
func NewQueryLogRepo(write, read *sql.DB) *QueryLogRepo {
	if read == nil {
		read = write
	}
	return &QueryLogRepo{write: write, read: read}
}

// Insert appends an entry.
func (r *QueryLogRepo) Insert(ctx context.Context, e *domain.QueryLogEntry) error {
	var errMsg sql.NullString
	if e.ErrorMessage != "" {
		errMsg = sql.NullString{String: e.ErrorMessage, Valid: true}
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.write.ExecContext(ctx, `
		INSERT INTO query_log
			(id, sql_text, model_id, principal_name, execution_time_ms, row_count, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SQL, e.ModelID, e.PrincipalName, e.ExecutionTimeMs, e.RowCount,
		string(e.Status), errMsg, ts.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *QueryLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	rows, err := r.read.QueryContext(ctx, `
		SELECT id, sql_text, model_id, principal_name, execution_time_ms, row_count, status, error_message, created_at
		FROM query_log
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query log: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]domain.QueryLogEntry, 0, limit)
	for rows.Next() {
		var (
			e         domain.QueryLogEntry
			status    string
			errMsg    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.SQL, &e.ModelID, &e.PrincipalName, &e.ExecutionTimeMs,
			&e.RowCount, &status, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		e.Status = domain.QueryStatus(status)
		e.ErrorMessage = errMsg.String
		if e.Timestamp, err = time.Parse(timestampLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse query log timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteOlderThan removes entries recorded before cutoff and returns how many
// were deleted.
func (r *QueryLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.write.ExecContext(ctx,
		`DELETE FROM query_log WHERE created_at < ?`, cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("prune query log: %w", err)
	}
	return res.RowsAffected()
}
