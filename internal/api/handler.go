// Package api provides the HTTP handlers for query generation, execution,
// and analytics. Request and response types are generated from openapi.yaml.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"duck-insights/internal/domain"
	"duck-insights/internal/middleware"
)

const maxBodyBytes = 1 << 20

// QueryGenerator turns a prompt into SQL. Implemented by nlquery.Generator.
type QueryGenerator interface {
	GenerateQuery(ctx context.Context, prompt, modelID string) (*domain.GeneratedQuery, error)
}

// QueryExecutor runs SQL and lists persisted executions. Implemented by
// query.QueryService.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlQuery, modelID string, useCache bool) (*domain.ExecutionResult, error)
	History(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
}

// AnalyticsSource exposes execution statistics. Implemented by analytics.Recorder.
type AnalyticsSource interface {
	Snapshot() domain.AnalyticsSnapshot
}

// Compile-time check.
var _ StrictServerInterface = (*APIHandler)(nil)

// APIHandler implements the generated StrictServerInterface.
type APIHandler struct {
	generator QueryGenerator
	executor  QueryExecutor
	analytics AnalyticsSource
	logger    *slog.Logger
}

// NewHandler creates a new APIHandler with all required service dependencies.
func NewHandler(generator QueryGenerator, executor QueryExecutor, analytics AnalyticsSource, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{generator: generator, executor: executor, analytics: analytics, logger: logger}
}

// Register mounts the generated routes on r.
func (h *APIHandler) Register(r chi.Router) {
	strict := NewStrictHandlerWithOptions(h, nil, StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  h.requestError,
		ResponseErrorHandlerFunc: h.responseError,
	})
	HandlerWithOptions(strict, ChiServerOptions{
		BaseRouter:       r,
		Middlewares:      []MiddlewareFunc{chimw.RequestSize(maxBodyBytes)},
		ErrorHandlerFunc: h.requestError,
	})
}

// GenerateQuery handles POST /generate-query.
func (h *APIHandler) GenerateQuery(ctx context.Context, req GenerateQueryRequestObject) (GenerateQueryResponseObject, error) {
	q, err := h.generator.GenerateQuery(ctx, req.Body.Prompt, deref(req.Body.ModelId))
	if err != nil {
		body := h.errorBody(ctx, "/generate-query", err)
		switch httpStatusFromDomainError(err) {
		case http.StatusBadRequest:
			return GenerateQuery400JSONResponse(body), nil
		case http.StatusNotFound:
			return GenerateQuery404JSONResponse(body), nil
		default:
			return GenerateQuery500JSONResponse(body), nil
		}
	}
	return GenerateQuery200JSONResponse{
		Sql:          q.SQL,
		Explanation:  q.Explanation,
		Confidence:   q.Confidence,
		TemplateUsed: q.TemplateUsed,
	}, nil
}

// ExecuteQuery handles POST /execute-query. useCache defaults to true.
func (h *APIHandler) ExecuteQuery(ctx context.Context, req ExecuteQueryRequestObject) (ExecuteQueryResponseObject, error) {
	useCache := req.Body.UseCache == nil || *req.Body.UseCache

	res, err := h.executor.Execute(ctx, req.Body.Sql, deref(req.Body.ModelId), useCache)
	if err != nil {
		body := h.errorBody(ctx, "/execute-query", err)
		if httpStatusFromDomainError(err) == http.StatusBadRequest {
			return ExecuteQuery400JSONResponse(body), nil
		}
		return ExecuteQuery500JSONResponse(body), nil
	}

	cols := make([]Column, len(res.Columns))
	for i, c := range res.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type}
	}
	data := res.Data
	if data == nil {
		data = []map[string]interface{}{}
	}
	return ExecuteQuery200JSONResponse{
		Data:            data,
		Columns:         cols,
		RowCount:        res.RowCount,
		ExecutionTimeMs: res.ExecutionTimeMs,
		QueryId:         res.QueryID,
		FromCache:       res.FromCache,
	}, nil
}

// QueryAnalytics handles GET /query-analytics.
func (h *APIHandler) QueryAnalytics(_ context.Context, _ QueryAnalyticsRequestObject) (QueryAnalyticsResponseObject, error) {
	snap := h.analytics.Snapshot()

	recent := make([]RecentQuery, len(snap.RecentQueries))
	for i, q := range snap.RecentQueries {
		recent[i] = RecentQuery{
			Sql:             q.SQL,
			ExecutionTimeMs: q.ExecutionTimeMs,
			RowCount:        q.RowCount,
			Timestamp:       q.Timestamp,
			Status:          QueryStatus(q.Status),
		}
	}
	return QueryAnalytics200JSONResponse{
		TotalQueries:       snap.TotalQueries,
		AvgExecutionTimeMs: snap.AvgExecutionTimeMs,
		CacheHits:          snap.CacheHits,
		CacheMisses:        snap.CacheMisses,
		FailedQueries:      snap.FailedQueries,
		RecentQueries:      recent,
	}, nil
}

// QueryHistory handles GET /query-history?limit=N.
func (h *APIHandler) QueryHistory(ctx context.Context, req QueryHistoryRequestObject) (QueryHistoryResponseObject, error) {
	limit := 0
	if req.Params.Limit != nil {
		if *req.Params.Limit < 1 {
			return QueryHistory400JSONResponse(h.errorBody(ctx, "/query-history",
				domain.ErrValidation("limit must be a positive integer"))), nil
		}
		limit = *req.Params.Limit
	}

	entries, err := h.executor.History(ctx, limit)
	if err != nil {
		return QueryHistory500JSONResponse(h.errorBody(ctx, "/query-history", err)), nil
	}

	out := make([]QueryLogEntry, len(entries))
	for i, e := range entries {
		out[i] = QueryLogEntry{
			Id:              e.ID,
			Sql:             e.SQL,
			ModelId:         optional(e.ModelID),
			Principal:       optional(e.PrincipalName),
			ExecutionTimeMs: e.ExecutionTimeMs,
			RowCount:        e.RowCount,
			Status:          QueryStatus(e.Status),
			ErrorMessage:    optional(e.ErrorMessage),
			Timestamp:       e.Timestamp,
		}
	}
	return QueryHistory200JSONResponse{Queries: out}, nil
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody logs err at a level matching its status and returns the wire body.
func (h *APIHandler) errorBody(ctx context.Context, path string, err error) Error {
	status := httpStatusFromDomainError(err)
	attrs := []any{
		"status", status,
		"error", err,
		"path", path,
		"request_id", middleware.RequestIDFromContext(ctx),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", attrs...)
	} else {
		h.logger.Debug("request rejected", attrs...)
	}
	return Error{Error: err.Error()}
}

// requestError handles bodies and parameters the generated wrappers could not bind.
func (h *APIHandler) requestError(w http.ResponseWriter, r *http.Request, err error) {
	var msg string
	var paramErr *InvalidParamFormatError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is required"
	case errors.As(err, &paramErr):
		msg = paramErr.ParamName + " must be a positive integer"
	case errors.As(err, &maxBytes):
		msg = "request body too large"
	default:
		msg = "invalid JSON body: " + unwrapAll(err).Error()
	}
	writeJSON(w, http.StatusBadRequest, h.errorBody(r.Context(), r.URL.Path, domain.ErrValidation("%s", msg)))
}

func (h *APIHandler) responseError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("encode response", "error", err, "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, Error{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response", "error", err)
	}
}

func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
