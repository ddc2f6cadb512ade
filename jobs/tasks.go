// Package jobs defines the background task types and the Asynq plumbing
// shared by the API server (producer) and the worker binary (consumer).
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/maidflow/maidflow/internal/notify"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskNotifySend delivers one in-app notification.
	TaskNotifySend = "notify:send"
	// TaskInvoiceGenerate invoices one completed job. Enqueued when the
	// tenant runs in automatic invoice mode.
	TaskInvoiceGenerate = "invoice:generate"
	// TaskMaintenanceCleanup prunes aged idempotency keys. Registered on
	// the worker's cron schedule.
	TaskMaintenanceCleanup = "maintenance:cleanup"
)

// InvoiceGeneratePayload identifies the job to invoice.
type InvoiceGeneratePayload struct {
	CompanyID int64 `json:"company_id"`
	JobID     int64 `json:"job_id"`
}

// NewNotifyTask constructs a notify:send task.
func NewNotifyTask(msg notify.Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifySend, data), nil
}

// NewInvoiceGenerateTask constructs an invoice:generate task.
func NewInvoiceGenerateTask(payload InvoiceGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceGenerate, data), nil
}

// NewCleanupTask constructs a maintenance:cleanup task.
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskMaintenanceCleanup, nil)
}
