// Package router assembles the HTTP surface: public directory routes,
// JWT-protected admin routes, and operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vetfinder-my/platform/internal/autosave"
	"github.com/vetfinder-my/platform/internal/directory"
	httpmiddleware "github.com/vetfinder-my/platform/internal/http/middleware"
	"github.com/vetfinder-my/platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	DirectoryHandler *directory.Handler
	DraftHandler     *autosave.Handler
	MetricsHandler   http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// PublicRateLimit is requests/sec per IP on the public directory.
	// Zero disables limiting.
	PublicRateLimit float64
	PublicRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (directory, health checks)
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.DirectoryHandler != nil {
			public.Mount("/clinics", cfg.DirectoryHandler.PublicRoutes())
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" && cfg.DirectoryHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Mount("/clinics", cfg.DirectoryHandler.AdminRoutes())
			if cfg.DraftHandler != nil {
				admin.Mount("/drafts/clinics", cfg.DraftHandler.Routes())
			}
		})
	}

	return r
}
