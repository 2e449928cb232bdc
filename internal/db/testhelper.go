package db

import (
	"path/filepath"
	"testing"
)

// OpenTestStore opens a migrated Store in t.TempDir() and registers cleanup.
func OpenTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "query_log.sqlite"), 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
