package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duck-insights/internal/domain"
)

func authHandler(t *testing.T) (http.Handler, *domain.ContextPrincipal) {
	t.Helper()
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	var seen domain.ContextPrincipal
	h := Authenticator(v, "email", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestAuthenticator_ValidToken(t *testing.T) {
	h, seen := authHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/query-analytics", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(testSecret, jwt.MapClaims{
		"sub":   "u-1",
		"email": "alice@example.com",
		"tid":   "acme",
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", seen.Name)
	assert.Equal(t, "acme", seen.Tenant)
	assert.Equal(t, "user", seen.Type)
}

func TestAuthenticator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"bad signature", "Bearer " + makeToken("wrong", jwt.MapClaims{"sub": "x"})},
		{"no principal", "Bearer " + makeToken(testSecret, jwt.MapClaims{"scope": "read"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := authHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/execute-query", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body["error"], "unauthorized")
		})
	}
}
