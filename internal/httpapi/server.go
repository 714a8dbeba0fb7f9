// Package httpapi exposes the Round Engine over HTTP, continuing the
// teacher's own chi + rs/cors router wiring (middleware.Logger,
// middleware.Recoverer, a permissive CORS policy) now serving the
// earliest-arrival query instead of the teacher's PostGIS line/stop
// endpoints.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/antigravity/transit-raptor/internal/config"
	"github.com/antigravity/transit-raptor/internal/obs"
	"github.com/antigravity/transit-raptor/internal/schedule"
)

// Server holds the immutable schedule shared across concurrent
// requests. Each request builds its own raptor.Engine call, per
// spec.md §5's per-query ownership rule.
type Server struct {
	store    *schedule.Store
	tunables config.Tunables
}

// NewServer wraps an already-built Schedule Store.
func NewServer(store *schedule.Store, tunables config.Tunables) *Server {
	return &Server{store: store, tunables: tunables}
}

// Router builds the chi router: health check, the query endpoint, and
// a Prometheus scrape endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", obs.MetricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
	})

	return r
}
