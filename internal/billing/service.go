package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/schedule"
)

// SettingsProvider supplies the tenant configuration snapshot at call time.
type SettingsProvider interface {
	Settings(ctx context.Context, companyID int64) (*company.Settings, error)
}

// JobSource reads jobs for the single-job invoicing path.
type JobSource interface {
	Get(ctx context.Context, companyID, id int64) (*schedule.Job, error)
}

// Service owns invoice generation and lifecycle. Generation is idempotent
// per job: the first run creates, every later run reports skipped.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	settings SettingsProvider
	jobs     JobSource
	notifier notify.Enqueuer
	renderer PDFRenderer
	recorder *activity.Recorder
}

// NewService constructs the billing service. The renderer may be nil; PDF
// output then reports unavailable.
func NewService(logger *slog.Logger, repo Repository, settings SettingsProvider,
	jobs JobSource, notifier notify.Enqueuer, renderer PDFRenderer, recorder *activity.Recorder) *Service {
	return &Service{
		logger:   logger,
		repo:     repo,
		settings: settings,
		jobs:     jobs,
		notifier: notifier,
		renderer: renderer,
		recorder: recorder,
	}
}

// GenerateForJob invoices one completed job. Cash-paid jobs are never
// invoiced here; the collection workflow owns them. Returns the invoice
// and whether this call created it.
func (s *Service) GenerateForJob(ctx context.Context, companyID, jobID int64) (*Invoice, bool, error) {
	job, err := s.jobs.Get(ctx, companyID, jobID)
	if err != nil {
		return nil, false, fmt.Errorf("load job: %w", err)
	}
	if job.Status != schedule.StatusCompleted {
		return nil, false, fmt.Errorf("%w: only completed jobs can be invoiced", httpx.ErrInvalidStatus)
	}
	if job.PaymentMethod != nil && *job.PaymentMethod == schedule.PaymentCash {
		return nil, false, fmt.Errorf("%w: cash-paid jobs are settled through cash collection, not invoicing", httpx.ErrValidation)
	}

	hours, err := ParseDurationHours(job.Duration)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return nil, false, fmt.Errorf("load settings: %w", err)
	}

	src := BillableJob{
		JobID:      jobID,
		ClientID:   job.ClientID,
		CleanerID:  job.CleanerID,
		LocationID: job.LocationID,
	}
	inv, created, err := s.create(ctx, companyID, src, hours, settings)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.notifyCreated(ctx, job.CreatedBy, inv)
	}
	return inv, created, nil
}

// GenerateBatch invoices the admin's selection, or every completed job in
// the window when no explicit selection is given. Jobs already invoiced,
// paid in cash, or carrying an unparseable duration are skipped and
// counted, never failed; re-running the same selection creates nothing and
// reports every member as skipped.
func (s *Service) GenerateBatch(ctx context.Context, companyID int64, req GenerateBatchRequest) (*BatchSummary, error) {
	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	selected, err := s.repo.CompletedJobs(ctx, companyID, req.From, req.To, req.JobIDs)
	if err != nil {
		return nil, fmt.Errorf("list selected jobs: %w", err)
	}

	actor, _ := auth.ActorFromContext(ctx)

	summary := &BatchSummary{Invoices: []Invoice{}}
	for _, b := range selected {
		if b.PaymentMethod == string(schedule.PaymentCash) {
			summary.SkippedCash++
			continue
		}
		if b.Invoiced {
			summary.SkippedExisting++
			continue
		}
		hours, err := ParseDurationHours(b.Duration)
		if err != nil {
			s.logger.Warn("skipping job with bad duration",
				slog.Int64("job_id", b.JobID), slog.String("duration", b.Duration))
			summary.SkippedBadDuration++
			continue
		}
		inv, created, err := s.create(ctx, companyID, b, hours, settings)
		if err != nil {
			return nil, err
		}
		if !created {
			summary.SkippedExisting++
			continue
		}
		summary.Created++
		summary.Invoices = append(summary.Invoices, *inv)
		s.notifyCreated(ctx, actor.ID, inv)
	}

	s.recorder.Record(ctx, activity.ActionInvoiceBatchGenerated,
		fmt.Sprintf("Invoice batch generated: %d created, %d already invoiced, %d cash, %d bad durations",
			summary.Created, summary.SkippedExisting, summary.SkippedCash, summary.SkippedBadDuration),
		activity.WithCompany(companyID))
	return summary, nil
}

// Billable lists completed jobs still eligible for invoicing, the review
// list a manual batch selection is made from. Cash-paid and already
// invoiced jobs never appear here.
func (s *Service) Billable(ctx context.Context, companyID int64, from, to *time.Time) ([]BillableJob, error) {
	completed, err := s.repo.CompletedJobs(ctx, companyID, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("list completed jobs: %w", err)
	}
	billable := make([]BillableJob, 0, len(completed))
	for _, b := range completed {
		if b.Invoiced || b.PaymentMethod == string(schedule.PaymentCash) {
			continue
		}
		billable = append(billable, b)
	}
	return billable, nil
}

func (s *Service) create(ctx context.Context, companyID int64, src BillableJob,
	hours float64, settings *company.Settings) (*Invoice, bool, error) {
	subtotal, tax, total := ComputeAmounts(hours, settings.HourlyRate, settings.TaxRatePercent)
	now := time.Now().UTC()
	inv := Invoice{
		CompanyID:      companyID,
		JobID:          src.JobID,
		ClientID:       src.ClientID,
		CleanerID:      src.CleanerID,
		LocationID:     src.LocationID,
		Number:         NewNumber(now),
		HoursBilled:    hours,
		HourlyRate:     settings.HourlyRate,
		Subtotal:       subtotal,
		TaxRatePercent: settings.TaxRatePercent,
		TaxAmount:      tax,
		Total:          total,
		Status:         StatusDraft,
		IssuedAt:       now,
		DueAt:          now.AddDate(0, 0, PaymentTermDays),
	}

	id, created, err := s.repo.InsertIfAbsent(ctx, inv)
	if err != nil {
		return nil, false, fmt.Errorf("insert invoice: %w", err)
	}
	if !created {
		existing, err := s.repo.GetByJob(ctx, companyID, src.JobID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	stored, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, false, err
	}
	s.recorder.Record(ctx, activity.ActionInvoiceCreated,
		fmt.Sprintf("Invoice %s issued for $%.2f", stored.Number, stored.Total),
		activity.WithCompany(companyID),
		activity.WithEntity("invoice", stored.ID, stored.Number))
	return stored, true, nil
}

func (s *Service) notifyCreated(ctx context.Context, userID int64, inv *Invoice) {
	if userID == 0 {
		return
	}
	err := s.notifier.EnqueueNotify(ctx, notify.Message{
		CompanyID:  inv.CompanyID,
		UserID:     userID,
		Kind:       notify.KindInvoiceCreated,
		Title:      fmt.Sprintf("Invoice %s created", inv.Number),
		Body:       fmt.Sprintf("Invoice %s for $%.2f is ready to send.", inv.Number, inv.Total),
		EntityType: "invoice",
		EntityID:   inv.ID,
	})
	if err != nil {
		s.logger.Error("enqueue invoice notification", slog.Any("error", err))
	}
}

// Send marks a draft invoice as sent to the client.
func (s *Service) Send(ctx context.Context, companyID, id int64) (*Invoice, error) {
	return s.transition(ctx, companyID, id, StatusDraft, StatusSent, activity.ActionInvoiceSent, "sent")
}

// MarkPaid marks a sent invoice as paid.
func (s *Service) MarkPaid(ctx context.Context, companyID, id int64) (*Invoice, error) {
	return s.transition(ctx, companyID, id, StatusSent, StatusPaid, activity.ActionInvoicePaid, "paid")
}

// Cancel voids an invoice that has not been paid.
func (s *Service) Cancel(ctx context.Context, companyID, id int64) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft && inv.Status != StatusSent {
		return nil, fmt.Errorf("%w: only unpaid invoices can be cancelled", httpx.ErrInvalidStatus)
	}
	return s.transition(ctx, companyID, id, inv.Status, StatusCancelled, activity.ActionInvoiceCancelled, "cancelled")
}

// Get returns a single invoice.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, companyID, id)
}

// List returns a filtered page of invoices.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) transition(ctx context.Context, companyID, id int64, from, to Status, action activity.Action, verb string) (*Invoice, error) {
	if err := s.repo.UpdateStatus(ctx, companyID, id, from, to); err != nil {
		return nil, fmt.Errorf("%s invoice: %w", verb, err)
	}
	inv, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, action,
		fmt.Sprintf("Invoice %s %s", inv.Number, verb),
		activity.WithEntity("invoice", inv.ID, inv.Number))
	return inv, nil
}
