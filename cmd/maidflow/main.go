package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/app"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/billing"
	"github.com/maidflow/maidflow/internal/cash"
	"github.com/maidflow/maidflow/internal/clients"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/dashboard"
	"github.com/maidflow/maidflow/internal/estimates"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/objectstore"
	"github.com/maidflow/maidflow/internal/observability"
	"github.com/maidflow/maidflow/internal/payroll"
	"github.com/maidflow/maidflow/internal/platform/cache"
	"github.com/maidflow/maidflow/internal/platform/db"
	"github.com/maidflow/maidflow/internal/render"
	"github.com/maidflow/maidflow/internal/schedule"
	"github.com/maidflow/maidflow/internal/shared"
	"github.com/maidflow/maidflow/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store, err := objectstore.New(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		logger.Error("init object store", slog.Any("error", err))
		os.Exit(1)
	}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	validate := validator.New()

	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)
	authz := auth.Middleware{Sessions: sessions, Logger: logger}

	activityRepo := activity.NewRepository(pool)
	recorder := activity.NewRecorder(activityRepo, logger)
	activityService := activity.NewService(activityRepo)

	companyService := company.NewService(company.NewRepository(pool), store, recorder)
	clientsService := clients.NewService(clients.NewRepository(pool), recorder)
	estimatesService := estimates.NewService(estimates.NewRepository(pool), companyService, recorder)
	scheduleService := schedule.NewService(logger, schedule.NewRepository(pool),
		companyService, estimatesService, store, jobsClient, recorder)

	var renderer billing.PDFRenderer
	if cfg.GotenbergURL != "" {
		renderer = render.NewClient(cfg.GotenbergURL)
	}

	cashRepo := cash.NewRepository(pool)
	cashService := cash.NewService(logger, cashRepo, jobsClient, recorder)
	billingService := billing.NewService(logger, billing.NewRepository(pool),
		companyService, scheduleService, jobsClient, renderer, recorder)
	payrollService := payroll.NewService(logger, payroll.NewRepository(pool),
		cashRepo, jobsClient, recorder)
	notifyService := notify.NewService(logger, notify.NewRepository(pool))
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Auth:   authz,

		CompanyHandler:   company.NewHandler(logger, companyService, validate, authz),
		ClientsHandler:   clients.NewHandler(logger, clientsService, validate, authz),
		EstimatesHandler: estimates.NewHandler(logger, estimatesService, validate, authz),
		ScheduleHandler:  schedule.NewHandler(logger, scheduleService, validate, authz),
		BillingHandler:   billing.NewHandler(logger, billingService, validate, authz, shared.NewIdempotencyStore(pool)),
		CashHandler:      cash.NewHandler(logger, cashService, validate, authz),
		PayrollHandler:   payroll.NewHandler(logger, payrollService, validate, authz),
		ActivityHandler:  activity.NewHandler(logger, activityService, authz),
		NotifyHandler:    notify.NewHandler(logger, notifyService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService, authz),
		JobHandler:       jobs.NewHandler(inspector, logger),

		MediaDir: store.Dir(),
		Metrics:  metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
