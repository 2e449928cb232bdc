package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"duck-insights/internal/api"
	"duck-insights/internal/config"
	"duck-insights/internal/middleware"
)

// NewValidator returns the token validator configured by cfg, or nil when
// authentication is disabled.
func NewValidator(ctx context.Context, cfg config.AuthConfig) (middleware.JWTValidator, error) {
	switch {
	case cfg.OIDCEnabled():
		return middleware.NewOIDCValidator(ctx, cfg.IssuerURL, cfg.Audience)
	case cfg.JWTSecret != "":
		return middleware.NewHS256Validator(cfg.JWTSecret)
	default:
		return nil, nil
	}
}

// NewRouter builds the HTTP handler. /healthz and /openapi.json are public; every other route
// passes through the validator when one is given. The rate limiter's sweeper
// runs until ctx is done.
func NewRouter(ctx context.Context, a *App, cfg *config.Config, validator middleware.JWTValidator, logger *slog.Logger) http.Handler {
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})
	go limiter.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public endpoints, no auth required
	r.Get("/healthz", api.Health)
	r.Get("/openapi.json", api.OpenAPIDocument)

	handler := api.NewHandler(a.Generator, a.Query, a.Recorder, logger.With("component", "api"))
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		if validator != nil {
			r.Use(middleware.Authenticator(validator, cfg.Auth.NameClaim, logger))
		}
		handler.Register(r)
	})

	return r
}
