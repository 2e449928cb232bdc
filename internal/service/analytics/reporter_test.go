package analytics

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duck-insights/internal/domain"
)

type fakeQueryLog struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeQueryLog) Insert(context.Context, *domain.QueryLogEntry) error { return nil }

func (f *fakeQueryLog) ListRecent(context.Context, int) ([]domain.QueryLogEntry, error) {
	return nil, nil
}

func (f *fakeQueryLog) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestNewReporter_InvalidSchedule(t *testing.T) {
	_, err := NewReporter("not a schedule", NewRecorder(5), slog.Default())
	require.Error(t, err)
}

func TestReporter_LogsSnapshot(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rec := NewRecorder(5)
	rec.Record(entry("SELECT 1", 12, domain.QueryStatusSuccess))

	rep, err := NewReporter("@every 1h", rec, logger)
	require.NoError(t, err)

	rep.report()

	assert.Contains(t, buf.String(), "query analytics")
	assert.Contains(t, buf.String(), "total_queries=1")
}

func TestReporter_PrunesQueryLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	repo := &fakeQueryLog{deleted: 3}

	rep, err := NewReporter("@every 1h", NewRecorder(5), logger)
	require.NoError(t, err)
	rep.SetQueryLogRetention(repo, 24*time.Hour)

	before := time.Now().Add(-24 * time.Hour)
	rep.report()

	assert.WithinDuration(t, before, repo.cutoff, time.Minute)
	assert.Contains(t, buf.String(), "deleted=3")
}

func TestReporter_PruneFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rep, err := NewReporter("@every 1h", NewRecorder(5), logger)
	require.NoError(t, err)
	rep.SetQueryLogRetention(&fakeQueryLog{err: errors.New("disk full")}, time.Hour)

	rep.report()

	assert.Contains(t, buf.String(), "prune query log failed")
}

func TestReporter_StartStop(t *testing.T) {
	rep, err := NewReporter("@every 1h", NewRecorder(5), slog.Default())
	require.NoError(t, err)
	rep.Start()
	rep.Stop()
}
