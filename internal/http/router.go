package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"yojna-khojna/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Health    http.Handler
	Documents *handlers.DocumentsHandler
	Preview   http.Handler
	Search    http.Handler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", deps.Health)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", deps.Documents.List)
			r.Post("/", deps.Documents.Upload)
			r.Get("/{id}", deps.Documents.Get)
			r.Get("/{id}/chunks", deps.Documents.Chunks)
			r.Get("/{id}/stats", deps.Documents.Stats)
		})

		r.Method(http.MethodPost, "/chunks", deps.Preview)
		r.Method(http.MethodGet, "/search", deps.Search)
	})

	// Upload path used by existing clients.
	r.Post("/process-pdf", deps.Documents.Upload)

	return r
}
