package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/estimates"
	"github.com/maidflow/maidflow/internal/objectstore"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// CompanyConfig supplies the tenant settings snapshot and checklist catalog.
type CompanyConfig interface {
	Settings(ctx context.Context, companyID int64) (*company.Settings, error)
	Checklist(ctx context.Context, companyID int64, activeOnly bool) ([]company.ChecklistItem, error)
}

// EstimateConverter flips an accepted estimate to converted once a job is
// scheduled from it.
type EstimateConverter interface {
	Get(ctx context.Context, companyID, id int64) (*estimates.Estimate, error)
	MarkConverted(ctx context.Context, companyID, id int64) error
}

// InvoiceEnqueuer hands automatic invoice generation to the background
// worker.
type InvoiceEnqueuer interface {
	EnqueueInvoiceGenerate(ctx context.Context, companyID, jobID int64) error
}

// Service owns the scheduling and completion workflow.
type Service struct {
	logger    *slog.Logger
	repo      Repository
	config    CompanyConfig
	estimates EstimateConverter
	store     *objectstore.Store
	invoices  InvoiceEnqueuer
	recorder  *activity.Recorder
}

// NewService constructs the schedule service.
func NewService(logger *slog.Logger, repo Repository, config CompanyConfig,
	converter EstimateConverter, store *objectstore.Store,
	invoices InvoiceEnqueuer, recorder *activity.Recorder) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		config:    config,
		estimates: converter,
		store:     store,
		invoices:  invoices,
		recorder:  recorder,
	}
}

// Create schedules a new visit. When the request names an estimate, the
// estimate must be accepted; it is marked converted after the job exists.
func (s *Service) Create(ctx context.Context, companyID, createdBy int64, req CreateJobRequest) (*Job, error) {
	if req.EstimateID != nil {
		est, err := s.estimates.Get(ctx, companyID, *req.EstimateID)
		if err != nil {
			return nil, fmt.Errorf("load estimate: %w", err)
		}
		if est.Status != estimates.StatusAccepted {
			return nil, fmt.Errorf("%w: only accepted estimates can be scheduled", httpx.ErrInvalidStatus)
		}
	}

	job := Job{
		CompanyID:   companyID,
		ClientID:    req.ClientID,
		LocationID:  req.LocationID,
		CleanerID:   req.CleanerID,
		EstimateID:  req.EstimateID,
		ScheduledAt: req.ScheduledAt,
		Duration:    req.Duration,
		Status:      StatusScheduled,
		CreatedBy:   createdBy,
	}
	id, err := s.repo.Insert(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	if req.EstimateID != nil {
		if err := s.estimates.MarkConverted(ctx, companyID, *req.EstimateID); err != nil {
			s.logger.Error("mark estimate converted", slog.Int64("estimate_id", *req.EstimateID), slog.Any("error", err))
		}
	}

	created, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionJobCreated,
		fmt.Sprintf("Job scheduled for %s", created.ScheduledAt.Format("2006-01-02 15:04")),
		activity.WithEntity("job", created.ID, ""))
	return created, nil
}

// Reschedule moves an open job.
func (s *Service) Reschedule(ctx context.Context, companyID, id int64, req RescheduleRequest) (*Job, error) {
	if err := s.repo.Reschedule(ctx, companyID, id, req.ScheduledAt, req.Duration); err != nil {
		return nil, fmt.Errorf("reschedule job: %w", err)
	}
	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionJobRescheduled,
		fmt.Sprintf("Job moved to %s", job.ScheduledAt.Format("2006-01-02 15:04")),
		activity.WithEntity("job", job.ID, ""))
	return job, nil
}

// Assign sets or clears the cleaner on an open job.
func (s *Service) Assign(ctx context.Context, companyID, id int64, req AssignRequest) (*Job, error) {
	if err := s.repo.Assign(ctx, companyID, id, req.CleanerID); err != nil {
		return nil, fmt.Errorf("assign job: %w", err)
	}
	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	detail := "Cleaner unassigned from job"
	if req.CleanerID != nil {
		name := ""
		if req.CleanerName != nil {
			name = " " + *req.CleanerName
		}
		detail = fmt.Sprintf("Cleaner%s assigned to job", name)
	}
	s.recorder.Record(ctx, activity.ActionJobAssigned, detail,
		activity.WithEntity("job", job.ID, ""))
	return job, nil
}

// Start marks a scheduled job in progress.
func (s *Service) Start(ctx context.Context, companyID, id int64) (*Job, error) {
	if err := s.repo.UpdateStatus(ctx, companyID, id, StatusScheduled, StatusInProgress); err != nil {
		return nil, fmt.Errorf("start job: %w", err)
	}
	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionJobStarted, "Job started",
		activity.WithEntity("job", job.ID, ""))
	return job, nil
}

// Cancel closes an open job without completion.
func (s *Service) Cancel(ctx context.Context, companyID, id int64) (*Job, error) {
	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !job.Open() {
		return nil, fmt.Errorf("%w: only open jobs can be cancelled", httpx.ErrInvalidStatus)
	}
	if err := s.repo.UpdateStatus(ctx, companyID, id, job.Status, StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel job: %w", err)
	}
	cancelled, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionJobCancelled, "Job cancelled",
		activity.WithEntity("job", job.ID, ""))
	return cancelled, nil
}

// AttachPhoto stores one uploaded photo for the given phase (before or
// after) and appends its URL to the open job.
func (s *Service) AttachPhoto(ctx context.Context, companyID, id int64, phase, ext string, file io.Reader) (*Job, error) {
	if phase != "before" && phase != "after" {
		return nil, fmt.Errorf("%w: phase must be before or after", httpx.ErrValidation)
	}
	key, err := objectstore.Key(companyID, "jobs", phase, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	url, err := s.store.Put(ctx, key, file)
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}
	if err := s.repo.AddPhotos(ctx, companyID, id, phase, []string{url}); err != nil {
		return nil, fmt.Errorf("attach photo: %w", err)
	}
	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionJobPhotoUploaded,
		fmt.Sprintf("%s photo uploaded", phase),
		activity.WithEntity("job", job.ID, ""))
	return job, nil
}

// Complete closes out a visit: it validates the payment, snapshots the
// checklist against the tenant catalog, and writes job, receipt, and any
// pending cash collection in one transaction. When the tenant invoices
// automatically, invoice generation is queued for the worker.
func (s *Service) Complete(ctx context.Context, companyID, id int64, req CompleteJobRequest) (*Job, error) {
	if err := ValidatePayment(req.PaymentMethod, req.PaymentAmount, req.CashReceiver); err != nil {
		return nil, err
	}

	job, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !job.Open() {
		return nil, fmt.Errorf("%w: job is already %s", httpx.ErrInvalidStatus, job.Status)
	}

	catalog, err := s.config.Checklist(ctx, companyID, true)
	if err != nil {
		// Completion must not fail because the catalog read did; the
		// snapshot degrades to empty.
		s.logger.Error("load checklist catalog", slog.Any("error", err))
		catalog = nil
	}
	names := make([]string, 0, len(catalog))
	for _, item := range catalog {
		names = append(names, item.Name)
	}
	job.Checklist = MergeChecklist(names, req.Checklist)
	job.Notes = req.Notes
	job.PaymentMethod = &req.PaymentMethod
	job.PaymentAmount = &req.PaymentAmount
	job.CashReceiver = req.CashReceiver

	actor, _ := auth.ActorFromContext(ctx)
	if err := s.repo.Complete(ctx, job, actor.Name); err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}

	completed, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.ActionJobCompleted,
		fmt.Sprintf("Job completed, $%.2f paid by %s", req.PaymentAmount, req.PaymentMethod),
		activity.WithEntity("job", completed.ID, ""))
	if req.PaymentMethod == PaymentCash {
		s.recorder.Record(ctx, activity.ActionCashCollected,
			fmt.Sprintf("$%.2f cash collected by %s", req.PaymentAmount, *req.CashReceiver),
			activity.WithEntity("job", completed.ID, ""))
	} else {
		s.recorder.Record(ctx, activity.ActionPaymentRecorded,
			fmt.Sprintf("$%.2f received by e-transfer", req.PaymentAmount),
			activity.WithEntity("job", completed.ID, ""))
	}

	settings, err := s.config.Settings(ctx, companyID)
	if err != nil {
		s.logger.Error("load settings for auto invoicing", slog.Any("error", err))
		return completed, nil
	}
	// Cash-paid jobs never auto-invoice; the collection workflow owns them.
	if settings.InvoiceMode == company.InvoiceModeAutomatic && req.PaymentMethod != PaymentCash {
		if err := s.invoices.EnqueueInvoiceGenerate(ctx, companyID, completed.ID); err != nil {
			s.logger.Error("enqueue invoice generation", slog.Int64("job_id", completed.ID), slog.Any("error", err))
		}
	}
	return completed, nil
}

// Get returns a single job.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Job, error) {
	return s.repo.Get(ctx, companyID, id)
}

// List returns a filtered page of jobs, ordered by scheduled time.
func (s *Service) List(ctx context.Context, req ListJobsRequest) ([]Job, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}
