package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/app"
	"github.com/maidflow/maidflow/internal/billing"
	"github.com/maidflow/maidflow/internal/company"
	jobmetrics "github.com/maidflow/maidflow/internal/jobs"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/objectstore"
	"github.com/maidflow/maidflow/internal/platform/db"
	"github.com/maidflow/maidflow/internal/schedule"
	"github.com/maidflow/maidflow/internal/shared"
	"github.com/maidflow/maidflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

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

	activityRepo := activity.NewRepository(pool)
	recorder := activity.NewRecorder(activityRepo, logger)

	companyService := company.NewService(company.NewRepository(pool), store, recorder)
	notifyService := notify.NewService(logger, notify.NewRepository(pool))

	// The worker only reads jobs for invoicing.
	scheduleRepo := schedule.NewRepository(pool)
	billingService := billing.NewService(logger, billing.NewRepository(pool),
		companyService, jobSource{scheduleRepo}, jobsClient, nil, recorder)

	idempotency := shared.NewIdempotencyStore(pool)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Metrics:   jobmetrics.NewMetrics(nil),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskNotifySend, Handler: jobs.NewNotifyHandler(logger, notifyService)},
			{Type: jobs.TaskInvoiceGenerate, Handler: jobs.NewInvoiceGenerateHandler(logger, billingService)},
			{Type: jobs.TaskMaintenanceCleanup, Handler: jobs.NewCleanupHandler(logger, idempotency)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewCleanupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

// jobSource adapts the schedule repository to billing's read interface.
type jobSource struct {
	repo schedule.Repository
}

func (s jobSource) Get(ctx context.Context, companyID, id int64) (*schedule.Job, error) {
	return s.repo.Get(ctx, companyID, id)
}
