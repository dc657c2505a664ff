package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gsearch/gateway/internal/api/handler"
	customMiddleware "github.com/gsearch/gateway/internal/api/middleware"
	"github.com/gsearch/gateway/internal/config"
	"github.com/gsearch/gateway/internal/gateway"
)

// Deps carries the constructed core components the HTTP layer binds to.
type Deps struct {
	Router     *gateway.Router
	Dispatcher *gateway.Dispatcher
	Search     gateway.Searcher
	Bookmarks  *gateway.Bookmarks
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	searchHandler := handler.NewSearchHandler(deps.Router, deps.Search, cfg.Server.WWWRoot)
	bookmarkHandler := handler.NewBookmarkHandler(deps.Bookmarks)
	commandHandler := handler.NewCommandHandler(deps.Dispatcher)

	r.Get("/search", searchHandler.Search)
	r.Get("/opensearch.xml", handler.OpenSearch)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/search", searchHandler.APISearch)
		r.Get("/bookmarks", bookmarkHandler.List)
		r.Post("/bookmarks/add", bookmarkHandler.Add)
		r.Get("/bookmarks/rem", bookmarkHandler.Remove)
		r.Post("/cmd", commandHandler.Cmd)
	})

	// Everything else is the static console UI.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Server.WWWRoot)))

	return r
}
