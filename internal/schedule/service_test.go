package schedule

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/estimates"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

type fakeJobRepo struct {
	jobs   map[int64]*Job
	nextID int64
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int64]*Job{}, nextID: 1}
}

func (f *fakeJobRepo) Get(_ context.Context, companyID, id int64) (*Job, error) {
	j, ok := f.jobs[id]
	if !ok || j.CompanyID != companyID {
		return nil, httpx.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) List(_ context.Context, _ ListJobsRequest) ([]Job, int, error) {
	return nil, 0, nil
}

func (f *fakeJobRepo) Insert(_ context.Context, j Job) (int64, error) {
	j.ID = f.nextID
	f.nextID++
	j.CreatedAt = time.Now()
	f.jobs[j.ID] = &j
	return j.ID, nil
}

func (f *fakeJobRepo) Reschedule(_ context.Context, companyID, id int64, at time.Time, duration *string) error {
	j, ok := f.jobs[id]
	if !ok || j.CompanyID != companyID || !j.Open() {
		return httpx.ErrInvalidStatus
	}
	j.ScheduledAt = at
	if duration != nil {
		j.Duration = *duration
	}
	return nil
}

func (f *fakeJobRepo) Assign(_ context.Context, companyID, id int64, cleanerID *int64) error {
	j, ok := f.jobs[id]
	if !ok || j.CompanyID != companyID || !j.Open() {
		return httpx.ErrInvalidStatus
	}
	j.CleanerID = cleanerID
	return nil
}

func (f *fakeJobRepo) UpdateStatus(_ context.Context, companyID, id int64, from, to Status) error {
	j, ok := f.jobs[id]
	if !ok || j.CompanyID != companyID || j.Status != from {
		return httpx.ErrInvalidStatus
	}
	j.Status = to
	return nil
}

func (f *fakeJobRepo) AddPhotos(_ context.Context, companyID, id int64, phase string, urls []string) error {
	j, ok := f.jobs[id]
	if !ok || j.CompanyID != companyID || !j.Open() {
		return httpx.ErrInvalidStatus
	}
	if phase == "before" {
		j.BeforePhotos = append(j.BeforePhotos, urls...)
	} else {
		j.AfterPhotos = append(j.AfterPhotos, urls...)
	}
	return nil
}

func (f *fakeJobRepo) Complete(_ context.Context, j *Job, _ string) error {
	stored, ok := f.jobs[j.ID]
	if !ok || stored.CompanyID != j.CompanyID || !stored.Open() {
		return httpx.ErrInvalidStatus
	}
	now := time.Now()
	stored.Status = StatusCompleted
	stored.Checklist = j.Checklist
	stored.Notes = j.Notes
	stored.PaymentMethod = j.PaymentMethod
	stored.PaymentAmount = j.PaymentAmount
	stored.CashReceiver = j.CashReceiver
	stored.CompletedAt = &now
	return nil
}

type fakeConfig struct {
	settings company.Settings
	catalog  []string
}

func (f *fakeConfig) Settings(_ context.Context, companyID int64) (*company.Settings, error) {
	s := f.settings
	s.CompanyID = companyID
	return &s, nil
}

func (f *fakeConfig) Checklist(_ context.Context, _ int64, _ bool) ([]company.ChecklistItem, error) {
	items := make([]company.ChecklistItem, 0, len(f.catalog))
	for i, name := range f.catalog {
		items = append(items, company.ChecklistItem{ID: int64(i + 1), Name: name, Active: true})
	}
	return items, nil
}

type fakeConverter struct {
	estimate  *estimates.Estimate
	converted []int64
}

func (f *fakeConverter) Get(_ context.Context, _, id int64) (*estimates.Estimate, error) {
	if f.estimate == nil || f.estimate.ID != id {
		return nil, httpx.ErrNotFound
	}
	return f.estimate, nil
}

func (f *fakeConverter) MarkConverted(_ context.Context, _, id int64) error {
	f.converted = append(f.converted, id)
	return nil
}

type fakeEnqueuer struct {
	jobIDs []int64
}

func (f *fakeEnqueuer) EnqueueInvoiceGenerate(_ context.Context, _, jobID int64) error {
	f.jobIDs = append(f.jobIDs, jobID)
	return nil
}

type memActivityRepo struct {
	entries []activity.Entry
}

func (m *memActivityRepo) Insert(_ context.Context, e activity.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memActivityRepo) List(_ context.Context, _ activity.ListRequest) ([]activity.Entry, int, error) {
	return m.entries, len(m.entries), nil
}

func (m *memActivityRepo) actions() []activity.Action {
	out := make([]activity.Action, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type scheduleFixture struct {
	svc       *Service
	repo      *fakeJobRepo
	config    *fakeConfig
	converter *fakeConverter
	enqueuer  *fakeEnqueuer
	log       *memActivityRepo
}

func newFixture(mode company.InvoiceMode) *scheduleFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &scheduleFixture{
		repo: newFakeJobRepo(),
		config: &fakeConfig{
			settings: company.Settings{HourlyRate: 50, TaxRatePercent: 13, InvoiceMode: mode},
			catalog:  []string{"Vacuum all floors", "Clean bathrooms"},
		},
		converter: &fakeConverter{},
		enqueuer:  &fakeEnqueuer{},
		log:       &memActivityRepo{},
	}
	f.svc = NewService(logger, f.repo, f.config, f.converter, nil, f.enqueuer,
		activity.NewRecorder(f.log, logger))
	return f
}

func actorContext(role auth.Role) context.Context {
	return auth.ContextWithActor(context.Background(), auth.Actor{
		ID: 7, Name: "Casey Cleaner", Role: role, CompanyID: 1,
	})
}

func seedJob(f *scheduleFixture, status Status) int64 {
	id, _ := f.repo.Insert(context.Background(), Job{
		CompanyID:   1,
		ClientID:    10,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Duration:    "2h30m",
		Status:      status,
		CreatedBy:   2,
	})
	return id
}

func TestCompleteSnapshotsChecklistAndRecordsPayment(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	id := seedJob(f, StatusInProgress)

	job, err := f.svc.Complete(actorContext(auth.RoleCleaner), 1, id, CompleteJobRequest{
		PaymentMethod: PaymentETransfer,
		PaymentAmount: 180,
		Checklist:     []ChecklistResult{{Name: "Clean bathrooms", Done: true}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	require.NotNil(t, job.PaymentMethod)
	assert.Equal(t, PaymentETransfer, *job.PaymentMethod)

	// The full catalog is snapshotted, not just the submitted items.
	require.Len(t, job.Checklist, 2)
	assert.Equal(t, ChecklistEntry{Name: "Vacuum all floors", Done: false}, job.Checklist[0])
	assert.Equal(t, ChecklistEntry{Name: "Clean bathrooms", Done: true}, job.Checklist[1])

	assert.Contains(t, f.log.actions(), activity.ActionJobCompleted)
	assert.Contains(t, f.log.actions(), activity.ActionPaymentRecorded)
	assert.Empty(t, f.enqueuer.jobIDs, "manual mode must not enqueue invoicing")
}

func TestCompleteRejectsClosedJob(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	id := seedJob(f, StatusCompleted)

	_, err := f.svc.Complete(actorContext(auth.RoleCleaner), 1, id, CompleteJobRequest{
		PaymentMethod: PaymentETransfer,
		PaymentAmount: 100,
	})
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}

func TestCompleteRejectsInvalidPayment(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	id := seedJob(f, StatusScheduled)

	_, err := f.svc.Complete(actorContext(auth.RoleCleaner), 1, id, CompleteJobRequest{
		PaymentMethod: PaymentCash,
		PaymentAmount: 100,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, StatusScheduled, f.repo.jobs[id].Status, "validation failure must not touch the job")
}

func TestCompleteAutoModeEnqueuesInvoiceForETransfer(t *testing.T) {
	f := newFixture(company.InvoiceModeAutomatic)
	id := seedJob(f, StatusInProgress)

	_, err := f.svc.Complete(actorContext(auth.RoleCleaner), 1, id, CompleteJobRequest{
		PaymentMethod: PaymentETransfer,
		PaymentAmount: 220,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, f.enqueuer.jobIDs)
}

func TestCompleteAutoModeNeverInvoicesCash(t *testing.T) {
	f := newFixture(company.InvoiceModeAutomatic)
	id := seedJob(f, StatusInProgress)

	receiver := ReceiverCleaner
	job, err := f.svc.Complete(actorContext(auth.RoleCleaner), 1, id, CompleteJobRequest{
		PaymentMethod: PaymentCash,
		PaymentAmount: 140,
		CashReceiver:  &receiver,
	})
	require.NoError(t, err)
	require.NotNil(t, job.CashReceiver)
	assert.Equal(t, ReceiverCleaner, *job.CashReceiver)

	assert.Empty(t, f.enqueuer.jobIDs, "cash is settled through collections, never invoiced")
	assert.Contains(t, f.log.actions(), activity.ActionCashCollected)
}

func TestCreateFromEstimateRequiresAccepted(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	f.converter.estimate = &estimates.Estimate{ID: 4, CompanyID: 1, Status: estimates.StatusDraft}
	estimateID := int64(4)

	_, err := f.svc.Create(actorContext(auth.RoleManager), 1, 2, CreateJobRequest{
		ClientID:    10,
		EstimateID:  &estimateID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Duration:    "3h",
	})
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
	assert.Empty(t, f.converter.converted)
}

func TestCreateFromAcceptedEstimateMarksConverted(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	f.converter.estimate = &estimates.Estimate{ID: 4, CompanyID: 1, Status: estimates.StatusAccepted}
	estimateID := int64(4)

	job, err := f.svc.Create(actorContext(auth.RoleManager), 1, 2, CreateJobRequest{
		ClientID:    10,
		EstimateID:  &estimateID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Duration:    "3h",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, job.Status)
	assert.Equal(t, []int64{4}, f.converter.converted)
}

func TestCancelRequiresOpenJob(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	id := seedJob(f, StatusCancelled)

	_, err := f.svc.Cancel(actorContext(auth.RoleAdmin), 1, id)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}

func TestStartTransitionsScheduledOnly(t *testing.T) {
	f := newFixture(company.InvoiceModeManual)
	id := seedJob(f, StatusScheduled)

	job, err := f.svc.Start(actorContext(auth.RoleCleaner), 1, id)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, job.Status)

	_, err = f.svc.Start(actorContext(auth.RoleCleaner), 1, id)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}
