package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithRequestID(t *testing.T, incoming string) (ctxID, headerID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set("X-Request-ID", incoming)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get("X-Request-ID")
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	ctxID, headerID := serveWithRequestID(t, "")
	require.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, headerID)
}

func TestRequestID_PreservesValidID(t *testing.T) {
	ctxID, headerID := serveWithRequestID(t, "custom-id_123")
	assert.Equal(t, "custom-id_123", ctxID)
	assert.Equal(t, "custom-id_123", headerID)
}

func TestRequestID_ReplacesInvalidID(t *testing.T) {
	for _, bad := range []string{"has space", "new\nline", "<script>", strings.Repeat("a", 129)} {
		ctxID, headerID := serveWithRequestID(t, bad)
		assert.NotEqual(t, bad, ctxID)
		assert.Equal(t, ctxID, headerID)
		assert.Len(t, ctxID, 36)
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
