package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "duck-insights/internal/db"
	"duck-insights/internal/domain"
)

func setupQueryLogRepo(t *testing.T) *QueryLogRepo {
	t.Helper()
	s := internaldb.OpenTestStore(t)
	return NewQueryLogRepo(s.Write, s.Read)
}

func makeQueryLogEntry(id string, status domain.QueryStatus, ts time.Time) *domain.QueryLogEntry {
	return &domain.QueryLogEntry{
		ID:              id,
		SQL:             "SELECT 1",
		ModelID:         "default",
		PrincipalName:   "alice",
		ExecutionTimeMs: 12,
		RowCount:        1,
		Status:          status,
		Timestamp:       ts,
	}
}

func TestQueryLogRepo_InsertAndListRecent(t *testing.T) {
	repo := setupQueryLogRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("a", domain.QueryStatusSuccess, base)))
	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("b", domain.QueryStatusCached, base.Add(time.Second))))
	failed := makeQueryLogEntry("c", domain.QueryStatusError, base.Add(2*time.Second))
	failed.ErrorMessage = "Catalog Error: table missing"
	failed.RowCount = 0
	require.NoError(t, repo.Insert(ctx, failed))

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, domain.QueryStatusError, entries[0].Status)
	assert.Equal(t, "Catalog Error: table missing", entries[0].ErrorMessage)
	assert.Equal(t, "a", entries[2].ID)
	assert.Equal(t, "alice", entries[2].PrincipalName)
	assert.Equal(t, int64(12), entries[2].ExecutionTimeMs)
	assert.True(t, base.Equal(entries[2].Timestamp))
	assert.Empty(t, entries[2].ErrorMessage)

	limited, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestQueryLogRepo_ListEmpty(t *testing.T) {
	repo := setupQueryLogRepo(t)

	entries, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestQueryLogRepo_DuplicateID(t *testing.T) {
	repo := setupQueryLogRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("dup", domain.QueryStatusSuccess, time.Now())))
	err := repo.Insert(ctx, makeQueryLogEntry("dup", domain.QueryStatusSuccess, time.Now()))
	require.Error(t, err)
}

func TestQueryLogRepo_DeleteOlderThan(t *testing.T) {
	repo := setupQueryLogRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("old1", domain.QueryStatusSuccess, now.Add(-48*time.Hour))))
	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("old2", domain.QueryStatusCached, now.Add(-25*time.Hour))))
	require.NoError(t, repo.Insert(ctx, makeQueryLogEntry("new", domain.QueryStatusSuccess, now)))

	n, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].ID)
}
