// Package analytics keeps running statistics about query executions.
package analytics

import (
	"sync"

	"duck-insights/internal/domain"
)

const (
	// DefaultRecentLimit is the number of recent queries kept when no limit is configured.
	DefaultRecentLimit = 10
	maxRecentLimit     = 100
)

// Recorder maintains cumulative counters and a bounded log of recent
// executions. State lives for the lifetime of the Recorder; there is no
// persistence.
type Recorder struct {
	mu sync.Mutex

	total    int64
	executed int64 // calls that actually ran SQL; the average is taken over these
	hits     int64
	misses   int64
	failed   int64
	avgMs    float64

	// recent is a ring buffer; next is the slot the next entry is written to.
	recent []domain.RecentQuery
	next   int
	size   int
}

// NewRecorder creates a Recorder keeping up to recentLimit recent queries.
// Limits outside 1..100 fall back to the nearest bound (0 means default).
func NewRecorder(recentLimit int) *Recorder {
	switch {
	case recentLimit == 0:
		recentLimit = DefaultRecentLimit
	case recentLimit < 1:
		recentLimit = 1
	case recentLimit > maxRecentLimit:
		recentLimit = maxRecentLimit
	}
	return &Recorder{recent: make([]domain.RecentQuery, recentLimit)}
}

// Record accounts for one call into the executor. Cache hits count towards
// the total but leave the average execution time untouched.
func (r *Recorder) Record(entry domain.QueryLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	switch entry.Status {
	case domain.QueryStatusCached:
		r.hits++
	case domain.QueryStatusError:
		r.failed++
		r.observe(entry.ExecutionTimeMs)
	default:
		r.misses++
		r.observe(entry.ExecutionTimeMs)
	}

	r.recent[r.next] = domain.RecentQuery{
		SQL:             entry.SQL,
		ExecutionTimeMs: entry.ExecutionTimeMs,
		RowCount:        entry.RowCount,
		Timestamp:       entry.Timestamp,
		Status:          entry.Status,
	}
	r.next = (r.next + 1) % len(r.recent)
	if r.size < len(r.recent) {
		r.size++
	}
}

// observe folds a measured execution time into the running average.
func (r *Recorder) observe(ms int64) {
	r.avgMs = (r.avgMs*float64(r.executed) + float64(ms)) / float64(r.executed+1)
	r.executed++
}

// Snapshot returns the current statistics with recent queries ordered
// most recent first.
func (r *Recorder) Snapshot() domain.AnalyticsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := make([]domain.RecentQuery, 0, r.size)
	for i := 1; i <= r.size; i++ {
		idx := (r.next - i + len(r.recent)) % len(r.recent)
		recent = append(recent, r.recent[idx])
	}

	return domain.AnalyticsSnapshot{
		TotalQueries:       r.total,
		AvgExecutionTimeMs: r.avgMs,
		CacheHits:          r.hits,
		CacheMisses:        r.misses,
		FailedQueries:      r.failed,
		RecentQueries:      recent,
	}
}
