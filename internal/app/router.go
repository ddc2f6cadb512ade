package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/billing"
	"github.com/maidflow/maidflow/internal/cash"
	"github.com/maidflow/maidflow/internal/clients"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/dashboard"
	"github.com/maidflow/maidflow/internal/estimates"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/observability"
	"github.com/maidflow/maidflow/internal/payroll"
	"github.com/maidflow/maidflow/internal/schedule"
	"github.com/maidflow/maidflow/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Auth auth.Middleware

	CompanyHandler   *company.Handler
	ClientsHandler   *clients.Handler
	EstimatesHandler *estimates.Handler
	ScheduleHandler  *schedule.Handler
	BillingHandler   *billing.Handler
	CashHandler      *cash.Handler
	PayrollHandler   *payroll.Handler
	ActivityHandler  *activity.Handler
	NotifyHandler    *notify.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler

	MediaDir string
	Metrics  *observability.Metrics
}

// NewRouter constructs the chi.Router with MaidFlow defaults. Everything
// under /api/v1 requires a bearer session; health, metrics, and media are
// open.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	if params.MediaDir != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(params.MediaDir)))
		r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(params.Auth.Authenticate)

		params.CompanyHandler.MountRoutes(api)
		params.ClientsHandler.MountRoutes(api)
		params.EstimatesHandler.MountRoutes(api)
		params.ScheduleHandler.MountRoutes(api)
		params.BillingHandler.MountRoutes(api)
		params.CashHandler.MountRoutes(api)
		params.PayrollHandler.MountRoutes(api)
		params.ActivityHandler.MountRoutes(api)
		params.NotifyHandler.MountRoutes(api)
		params.DashboardHandler.MountRoutes(api)

		if params.JobHandler != nil {
			api.Route("/jobs-queue", func(jr chi.Router) {
				jr.Use(params.Auth.RequireRole(auth.RoleAdmin))
				params.JobHandler.MountRoutes(jr)
			})
		}
	})

	return r
}
