package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

// NewRouter wires the public API. s may be nil when the dataset comes from a
// file, in which case the catalog admin routes are not mounted. invalidate is
// called after every catalog change.
func NewRouter(svc *ranking.Service, s store.Store, h hermes.Client, invalidate func(), cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(logger))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))
	}

	crit := NewCriteriaHandler(svc)
	alts := NewAlternativesHandler(svc)
	rankings := NewRankingsHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/criteria", crit.List)

		r.Get("/alternatives", alts.List)
		r.Get("/alternatives/{label}/profile", alts.Profile)

		r.Post("/rankings", rankings.Create)
		r.Post("/topsis", rankings.Evaluate)

		if s != nil {
			catalog := NewCatalogHandler(s, h, svc.Criteria(), invalidate, logger)
			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(cfg.AdminToken))
				r.Get("/alternatives/{label}", catalog.Get)
				r.Put("/alternatives/{label}", catalog.Upsert)
				r.Delete("/alternatives/{label}", catalog.Delete)
			})
		}
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
