package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/handlers"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	NotificationsHandler *handlers.NotificationsHandler
	ProjectsHandler      *handlers.ProjectsHandler
	HealthHandler        *handlers.HealthHandler
	RequireJWT           func(http.Handler) http.Handler
	CORS                 func(http.Handler) http.Handler
	Secure               func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	UserRateLimit        func(http.Handler) http.Handler
	Log                  zerolog.Logger
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// SSE stays outside the JSON middleware; the stream manages its own
	// content type and never terminates on a response body.
	r.Get("/notifications/sse", cfg.NotificationsHandler.Stream)

	r.Group(func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))
		r.Use(chimid.SetHeader("Content-Type", "application/json"))
		if cfg.RequireJWT != nil {
			r.Use(cfg.RequireJWT)
		}
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", cfg.NotificationsHandler.Send)
			r.Get("/inbox", cfg.NotificationsHandler.Inbox)
			r.Post("/{id}/read", cfg.NotificationsHandler.MarkRead)
			r.Post("/team-invite/{projectID}/approve", cfg.NotificationsHandler.ApproveInvite)
			r.Post("/team-invite/{projectID}/reject", cfg.NotificationsHandler.RejectInvite)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", cfg.ProjectsHandler.List)
			r.Get("/student", cfg.ProjectsHandler.ListMine)
			r.Get("/{projectID}", cfg.ProjectsHandler.Get)
			r.Get("/{projectID}/team-members", cfg.ProjectsHandler.TeamMembers)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleStudent))
				r.Post("/", cfg.ProjectsHandler.Create)
				r.Post("/create-team", cfg.ProjectsHandler.CreateTeam)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/{projectID}/approve", cfg.ProjectsHandler.Approve)
				r.Post("/{projectID}/reject", cfg.ProjectsHandler.Reject)
			})
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
