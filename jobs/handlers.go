package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/maidflow/maidflow/internal/billing"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/shared"
)

// idempotencyRetention is how long consumed idempotency keys are kept
// before the cleanup task prunes them.
const idempotencyRetention = 30 * 24 * time.Hour

// NewNotifyHandler processes notify:send tasks.
func NewNotifyHandler(logger *slog.Logger, svc *notify.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg notify.Message
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			logger.Error("notify task: bad payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		return svc.Deliver(ctx, msg)
	}
}

// NewInvoiceGenerateHandler processes invoice:generate tasks. An already
// invoiced job is a success, not a retry: generation is idempotent per job.
func NewInvoiceGenerateHandler(logger *slog.Logger, svc *billing.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload InvoiceGeneratePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("invoice task: bad payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		inv, created, err := svc.GenerateForJob(ctx, payload.CompanyID, payload.JobID)
		if err != nil {
			return err
		}
		if created {
			logger.Info("invoice generated",
				slog.Int64("job_id", payload.JobID), slog.String("number", inv.Number))
		}
		return nil
	}
}

// NewCleanupHandler processes maintenance:cleanup tasks.
func NewCleanupHandler(logger *slog.Logger, store *shared.IdempotencyStore) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := store.Cleanup(ctx, idempotencyRetention); err != nil {
			return err
		}
		logger.Info("idempotency keys pruned")
		return nil
	}
}
