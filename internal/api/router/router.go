package router

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"confshare/internal/api/handlers"
	auth_middleware "confshare/internal/api/middleware"
)

// RouterConfig defines the strict dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins []string
	ConfigHandler  *handlers.ConfigurationHandler
	EventsHandler  *handlers.EventsHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *auth_middleware.AuthMiddleware
	Logger         *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(auth_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Stored values are at most tens of KB; cap request bodies at 1 MiB.
	r.Use(auth_middleware.MaxBytes(1_048_576))

	// In-memory token bucket rate limiting
	r.Use(cfg.AuthMiddleware.RateLimit)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.HealthHandler.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(cfg.AuthMiddleware.Authenticate)

		api.Route("/configurations", func(cr chi.Router) {
			cr.Post("/", cfg.ConfigHandler.Create)
			cr.Get("/", cfg.ConfigHandler.List)
			cr.Get("/encrypted", cfg.ConfigHandler.ListEncrypted)
			cr.Get("/{id}", cfg.ConfigHandler.Get)
			cr.Get("/{id}/encrypted", cfg.ConfigHandler.GetEncrypted)
			cr.Put("/{id}", cfg.ConfigHandler.Update)
			cr.Delete("/{id}", cfg.ConfigHandler.Delete)
		})

		api.Get("/ws/configurations/{id}", cfg.EventsHandler.WatchConfiguration)
	})

	return r
}
