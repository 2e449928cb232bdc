package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"duck-insights/internal/domain"
)

// Authenticator validates the bearer token on every request and attaches the
// resulting principal to the request context. Requests without a valid token
// get 401.
func Authenticator(validator JWTValidator, nameClaim string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				logger.Debug("token rejected", "error", err, "request_id", RequestIDFromContext(r.Context()))
				writeUnauthorized(w, "invalid bearer token")
				return
			}

			name := claims.PrincipalName(nameClaim)
			if name == "" {
				writeUnauthorized(w, "token carries no principal")
				return
			}

			ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{
				Name:   name,
				Tenant: claims.Tenant(),
				Type:   "user",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="duck-insights"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized: " + msg})
}
