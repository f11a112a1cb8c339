package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/documents"
	"hrportal/internal/domain/government"
	"hrportal/internal/domain/leave"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/recruitment"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	audithandler "hrportal/internal/transport/http/handlers/audit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	corehandler "hrportal/internal/transport/http/handlers/core"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	documenthandler "hrportal/internal/transport/http/handlers/documents"
	govhandler "hrportal/internal/transport/http/handlers/government"
	jobshandler "hrportal/internal/transport/http/handlers/jobs"
	leavehandler "hrportal/internal/transport/http/handlers/leave"
	payrollhandler "hrportal/internal/transport/http/handlers/payroll"
	webhookhandler "hrportal/internal/transport/http/handlers/webhook"
	"hrportal/internal/transport/http/middleware"
)

// Services is everything the router needs. Ready may be nil.
type Services struct {
	Auth       *auth.Service
	Core       *core.Service
	Documents  *documents.Service
	Payroll    *payroll.Service
	Leave      *leave.Service
	Jobs       *recruitment.Service
	Dashboard  *dashboard.Service
	Government *government.Service
	Audit      audithandler.Reader
	Metrics    *metrics.Collector
	Ready      func(ctx context.Context) error
}

func NewRouter(cfg config.Config, logger *slog.Logger, svc Services) http.Handler {
	if svc.Metrics == nil {
		svc.Metrics = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, svc.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Authenticate(svc.Auth))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		if svc.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := svc.Ready(ctx); err != nil {
				logger.Warn("readiness check failed", "err", err)
				api.Fail(w, http.StatusServiceUnavailable, "not_ready", "dependencies not ready", reqID)
				return
			}
		}
		api.Success(w, map[string]string{"status": "ready"}, reqID)
	})
	router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, svc.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api", func(r chi.Router) {
		loginLimit := middleware.LoginRateLimit(cfg.LoginRateLimit, time.Minute)
		authhandler.NewHandler(svc.Auth, cfg.IsProduction(), loginLimit).RegisterRoutes(r)
		corehandler.NewHandler(svc.Core).RegisterRoutes(r)
		documenthandler.NewHandler(svc.Documents).RegisterRoutes(r)
		payrollhandler.NewHandler(svc.Payroll).RegisterRoutes(r)
		leavehandler.NewHandler(svc.Leave).RegisterRoutes(r)
		jobshandler.NewHandler(svc.Jobs).RegisterRoutes(r)
		dashboardhandler.NewHandler(svc.Dashboard).RegisterRoutes(r)
		govhandler.NewHandler(svc.Government).RegisterRoutes(r)
		webhookhandler.NewHandler(logger).RegisterRoutes(r)
		if svc.Audit != nil {
			audithandler.NewHandler(svc.Audit).RegisterRoutes(r)
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})
	return router
}
