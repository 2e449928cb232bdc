// Package db opens the SQLite database backing the query log and applies its
// migrations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Mode selects how a SQLite pool is configured.
type Mode string

// Pool modes. A write pool holds a single connection and takes the write lock
// when a transaction begins; read pools may be wider.
const (
	ModeWrite Mode = "write"
	ModeRead  Mode = "read"
)

const (
	busyTimeoutMs      = "5000"
	defaultReadMaxOpen = 4
	pingTimeout        = 5 * time.Second
)

// OpenSQLite opens a pool for the SQLite file at path. maxOpen only applies
// to read pools (0 means 4).
func OpenSQLite(path string, mode Mode, maxOpen int) (*sql.DB, error) {
	switch mode {
	case ModeWrite:
		maxOpen = 1
	case ModeRead:
		if maxOpen <= 0 {
			maxOpen = defaultReadMaxOpen
		}
	default:
		return nil, fmt.Errorf("invalid SQLite mode %q: must be %q or %q", mode, ModeRead, ModeWrite)
	}

	db, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return db, nil
}

// buildDSN enables WAL with a busy timeout so readers never block the writer.
func buildDSN(path string, mode Mode) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", busyTimeoutMs)
	params.Set("_synchronous", "NORMAL")
	if mode == ModeWrite {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}

// Store is a migrated SQLite database with separate write and read pools.
type Store struct {
	Write *sql.DB
	Read  *sql.DB
}

// Open opens the write and read pools for path and runs pending migrations.
func Open(path string, readMaxOpen int) (*Store, error) {
	writeDB, err := OpenSQLite(path, ModeWrite, 0)
	if err != nil {
		return nil, err
	}
	readDB, err := OpenSQLite(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, err
	}
	s := &Store{Write: writeDB, Read: readDB}

	if err := RunMigrations(writeDB); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes both pools.
func (s *Store) Close() error {
	return errors.Join(s.Read.Close(), s.Write.Close())
}
