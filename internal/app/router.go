package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verda-api/verda/internal/activity"
	"github.com/verda-api/verda/internal/auth"
	"github.com/verda-api/verda/internal/observability"
	"github.com/verda-api/verda/internal/platform/httpx"
	"github.com/verda-api/verda/internal/shared"
)

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Errors          *httpx.ErrorResponder
	AuthHandler     *auth.Handler
	ActivityHandler *activity.Handler
	Guard           activity.Guard
	Metrics         *observability.Metrics
	DB              Pinger
}

// NewRouter constructs the chi.Router with Verda defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config != nil && !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	errs := params.Errors
	if errs == nil {
		errs = httpx.NewErrorResponder(params.Logger, false)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errs.Respond(w, r, shared.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errs.Respond(w, r, shared.ErrNotFound)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "Verda API is running"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.DB != nil {
			if err := params.DB.Ping(r.Context()); err != nil {
				if params.Logger != nil {
					params.Logger.Warn("health check", slog.Any("error", err))
				}
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if params.AuthHandler != nil {
		r.Route("/api/auth", params.AuthHandler.MountRoutes)
	}
	if params.ActivityHandler != nil && params.Guard != nil {
		r.Route("/api/logs", func(r chi.Router) {
			params.ActivityHandler.MountRoutes(r, params.Guard)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
