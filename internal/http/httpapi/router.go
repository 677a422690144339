package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"adforge/internal/http/handlers"
	"adforge/internal/infra"
	"adforge/internal/infra/geoip"
	"adforge/internal/middleware"
)

// NewRouter assembles the HTTP surface.
func NewRouter(app *handlers.App, cfg *infra.Config, geo geoip.CountryResolver) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	var lookup middleware.CountryLookup
	if geo != nil {
		lookup = geo.CountryCode
	}
	r.Use(middleware.I18N("en", lookup))

	r.Get("/v1/healthz", app.Health)

	if cfg.StoragePath != "" {
		r.Handle("/static/*", stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(cfg.StoragePath))))
	}

	r.Route("/v1/workspaces", func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		r.Post("/", app.WorkspacesCreate)
		r.Get("/", app.WorkspacesList)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", app.WorkspacesGet)
			r.Delete("/", app.WorkspacesDelete)
			r.Get("/creatives", app.CreativesList)
			r.Post("/creatives/generate", app.CreativesGenerate)
		})
	})

	return r
}
