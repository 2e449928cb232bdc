package domain

import "time"

// QueryStatus is the outcome recorded for an executed query.
type QueryStatus string

const (
	QueryStatusSuccess QueryStatus = "success"
	QueryStatusCached  QueryStatus = "cached"
	QueryStatusError   QueryStatus = "error"
)

// QueryLogEntry describes one call into the query executor.
type QueryLogEntry struct {
	ID              string      `json:"id,omitempty"`
	SQL             string      `json:"sql"`
	ModelID         string      `json:"modelId,omitempty"`
	PrincipalName   string      `json:"principal,omitempty"`
	ExecutionTimeMs int64       `json:"executionTimeMs"`
	RowCount        int         `json:"rowCount"`
	Status          QueryStatus `json:"status"`
	ErrorMessage    string      `json:"errorMessage,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
}

// RecentQuery is the snapshot view of a recently executed query.
type RecentQuery struct {
	SQL             string      `json:"sql"`
	ExecutionTimeMs int64       `json:"executionTimeMs"`
	RowCount        int         `json:"rowCount"`
	Timestamp       time.Time   `json:"timestamp"`
	Status          QueryStatus `json:"status"`
}

// AnalyticsSnapshot is the cumulative view of executor activity since process start.
type AnalyticsSnapshot struct {
	TotalQueries       int64         `json:"totalQueries"`
	AvgExecutionTimeMs float64       `json:"avgExecutionTimeMs"`
	CacheHits          int64         `json:"cacheHits"`
	CacheMisses        int64         `json:"cacheMisses"`
	FailedQueries      int64         `json:"failedQueries"`
	RecentQueries      []RecentQuery `json:"recentQueries"`
}
