// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smartinsure/claimpilot/internal/assist"
	"github.com/smartinsure/claimpilot/internal/claims"
	"github.com/smartinsure/claimpilot/internal/config"
	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/metrics"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, engine *claims.Engine, store database.Store, assistant *assist.Assistant, estimator *assist.Estimator, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	handler := NewHandler(engine, store, assistant, estimator, m, maxUpload, cfg.Insurer.ClaimsEmail)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	if cfg.Server.EnableMetrics {
		r.Use(m.Middleware("claimpilot"))
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", handler.HealthCheck)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(store))
			r.Use(AuditMiddleware(store))
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			// Claim sessions
			r.Post("/sessions", handler.CreateSession)
			r.Get("/sessions", handler.ListSessions)
			r.Get("/sessions/{id}", handler.GetSession)
			r.Patch("/sessions/{id}", handler.UpdateSession)

			// Document pipeline
			r.Post("/sessions/{id}/documents", handler.UploadDocuments)
			r.Get("/sessions/{id}/validation", handler.GetValidation)

			// Assistant
			r.Post("/sessions/{id}/chat", handler.Chat)
			r.Get("/sessions/{id}/chat", handler.GetChatMessages)
			r.Post("/sessions/{id}/estimates", handler.CreateEstimate)
			r.Get("/sessions/{id}/estimates", handler.ListEstimates)
			r.Post("/sessions/{id}/description", handler.GenerateDescription)
			r.Get("/sessions/{id}/letter", handler.GetLetter)

			// Audit logs
			r.Get("/audit", handler.GetAuditLogs)
		})

		// Admin routes (API key management)
		// In production, these should be protected differently
		r.Route("/admin", func(r chi.Router) {
			r.Post("/keys", handler.CreateAPIKey)
			r.Get("/keys", handler.ListAPIKeys)
			r.Delete("/keys/{id}", handler.DeleteAPIKey)
		})
	})

	if cfg.Server.EnableMetrics {
		r.Handle("/metrics", m.Handler())
	}

	return r
}
