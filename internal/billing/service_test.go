package billing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/schedule"
)

type memInvoiceRepo struct {
	invoices  map[int64]*Invoice // by id
	byJob     map[int64]int64    // job id -> invoice id
	completed []BillableJob
	nextID    int64
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[int64]*Invoice{}, byJob: map[int64]int64{}, nextID: 1}
}

func (m *memInvoiceRepo) Get(_ context.Context, companyID, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, httpx.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) GetByJob(_ context.Context, companyID, jobID int64) (*Invoice, error) {
	id, ok := m.byJob[jobID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return m.Get(context.Background(), companyID, id)
}

func (m *memInvoiceRepo) List(_ context.Context, _ ListInvoicesRequest) ([]Invoice, int, error) {
	return nil, 0, nil
}

func (m *memInvoiceRepo) InsertIfAbsent(_ context.Context, inv Invoice) (int64, bool, error) {
	if _, exists := m.byJob[inv.JobID]; exists {
		return 0, false, nil
	}
	inv.ID = m.nextID
	m.nextID++
	inv.CreatedAt = time.Now()
	m.invoices[inv.ID] = &inv
	m.byJob[inv.JobID] = inv.ID
	return inv.ID, true, nil
}

func (m *memInvoiceRepo) UpdateStatus(_ context.Context, companyID, id int64, from, to Status) error {
	inv, ok := m.invoices[id]
	if !ok || inv.CompanyID != companyID || inv.Status != from {
		return httpx.ErrInvalidStatus
	}
	now := time.Now()
	inv.Status = to
	switch to {
	case StatusSent:
		inv.SentAt = &now
	case StatusPaid:
		inv.PaidAt = &now
	}
	return nil
}

func (m *memInvoiceRepo) CompletedJobs(_ context.Context, _ int64, _, _ *time.Time, ids []int64) ([]BillableJob, error) {
	selected := map[int64]bool{}
	for _, id := range ids {
		selected[id] = true
	}
	var out []BillableJob
	for _, b := range m.completed {
		if len(ids) > 0 && !selected[b.JobID] {
			continue
		}
		_, b.Invoiced = m.byJob[b.JobID]
		out = append(out, b)
	}
	return out, nil
}

type fakeSettings struct {
	settings company.Settings
}

func (f *fakeSettings) Settings(_ context.Context, companyID int64) (*company.Settings, error) {
	s := f.settings
	s.CompanyID = companyID
	return &s, nil
}

type fakeJobSource struct {
	jobs map[int64]*schedule.Job
}

func (f *fakeJobSource) Get(_ context.Context, _, id int64) (*schedule.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return j, nil
}

type fakeNotifier struct {
	messages []notify.Message
}

func (f *fakeNotifier) EnqueueNotify(_ context.Context, msg notify.Message) error {
	f.messages = append(f.messages, msg)
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

type billingFixture struct {
	svc      *Service
	repo     *memInvoiceRepo
	jobs     *fakeJobSource
	notifier *fakeNotifier
	log      *memActivityRepo
}

func newBillingFixture() *billingFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &billingFixture{
		repo:     newMemInvoiceRepo(),
		jobs:     &fakeJobSource{jobs: map[int64]*schedule.Job{}},
		notifier: &fakeNotifier{},
		log:      &memActivityRepo{},
	}
	f.svc = NewService(logger, f.repo,
		&fakeSettings{settings: company.Settings{HourlyRate: 50, TaxRatePercent: 13}},
		f.jobs, f.notifier, nil, activity.NewRecorder(f.log, logger))
	return f
}

func completedJob(id int64, method schedule.PaymentMethod, duration string) *schedule.Job {
	m := method
	amount := 180.0
	done := time.Now().Add(-time.Hour)
	return &schedule.Job{
		ID: id, CompanyID: 1, ClientID: 10, Duration: duration,
		Status: schedule.StatusCompleted, PaymentMethod: &m, PaymentAmount: &amount,
		CompletedAt: &done, CreatedBy: 2,
	}
}

func TestGenerateForJobCreatesOnceThenReportsExisting(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "2:30")
	ctx := context.Background()

	inv, created, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, 2.5, inv.HoursBilled)
	assert.Equal(t, 125.0, inv.Subtotal)
	assert.Equal(t, 16.25, inv.TaxAmount)
	assert.Equal(t, 141.25, inv.Total)
	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, inv.IssuedAt.AddDate(0, 0, PaymentTermDays), inv.DueAt)

	again, created, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, inv.ID, again.ID)
	assert.Equal(t, inv.Number, again.Number)

	// Only the creating call notifies.
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, notify.KindInvoiceCreated, f.notifier.messages[0].Kind)
	assert.Equal(t, int64(2), f.notifier.messages[0].UserID)
}

func TestGenerateForJobRejectsCashPayment(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentCash, "2h")

	_, _, err := f.svc.GenerateForJob(context.Background(), 1, 5)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Empty(t, f.repo.invoices)
}

func TestGenerateForJobRequiresCompletedJob(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = &schedule.Job{ID: 5, CompanyID: 1, ClientID: 10,
		Duration: "2h", Status: schedule.StatusInProgress, CreatedBy: 2}

	_, _, err := f.svc.GenerateForJob(context.Background(), 1, 5)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}

func TestGenerateForJobRejectsBadDuration(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "half a day")

	_, _, err := f.svc.GenerateForJob(context.Background(), 1, 5)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGenerateBatchSkipsAndCountsInsteadOfFailing(t *testing.T) {
	f := newBillingFixture()
	done := time.Now().Add(-2 * time.Hour)
	f.repo.completed = []BillableJob{
		{JobID: 1, ClientID: 10, Duration: "2:00", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 2, ClientID: 11, Duration: "garbage", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 3, ClientID: 12, Duration: "1h30m", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 4, ClientID: 13, Duration: "2h", PaymentMethod: "cash", CompletedAt: done},
	}
	ctx := context.Background()

	summary, err := f.svc.GenerateBatch(ctx, 1, GenerateBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.SkippedBadDuration)
	assert.Equal(t, 1, summary.SkippedCash)
	assert.Equal(t, 0, summary.SkippedExisting)
	assert.Len(t, summary.Invoices, 2)
}

func TestGenerateBatchRerunReportsEveryJobSkipped(t *testing.T) {
	f := newBillingFixture()
	done := time.Now().Add(-2 * time.Hour)
	f.repo.completed = []BillableJob{
		{JobID: 1, ClientID: 10, Duration: "2:00", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 2, ClientID: 11, Duration: "1h30m", PaymentMethod: "e_transfer", CompletedAt: done},
	}
	ctx := context.Background()

	first, err := f.svc.GenerateBatch(ctx, 1, GenerateBatchRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	rerun, err := f.svc.GenerateBatch(ctx, 1, GenerateBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, rerun.Created)
	assert.Equal(t, 2, rerun.SkippedExisting)
	assert.Empty(t, rerun.Invoices)
}

func TestGenerateBatchHonorsExplicitSelection(t *testing.T) {
	f := newBillingFixture()
	done := time.Now().Add(-2 * time.Hour)
	f.repo.completed = []BillableJob{
		{JobID: 1, ClientID: 10, Duration: "2:00", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 2, ClientID: 11, Duration: "1h30m", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 3, ClientID: 12, Duration: "2h", PaymentMethod: "cash", CompletedAt: done},
	}
	ctx := context.Background()

	summary, err := f.svc.GenerateBatch(ctx, 1, GenerateBatchRequest{JobIDs: []int64{1, 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.SkippedCash)
	require.Len(t, summary.Invoices, 1)
	assert.Equal(t, int64(1), summary.Invoices[0].JobID)

	// Job 2 was never selected, so it is still billable.
	billable, err := f.svc.Billable(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, billable, 1)
	assert.Equal(t, int64(2), billable[0].JobID)
}

func TestBillableExcludesCashAndInvoiced(t *testing.T) {
	f := newBillingFixture()
	done := time.Now().Add(-2 * time.Hour)
	f.repo.completed = []BillableJob{
		{JobID: 1, ClientID: 10, Duration: "2:00", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 2, ClientID: 11, Duration: "1h30m", PaymentMethod: "e_transfer", CompletedAt: done},
		{JobID: 3, ClientID: 12, Duration: "2h", PaymentMethod: "cash", CompletedAt: done},
	}
	ctx := context.Background()

	_, err := f.svc.GenerateBatch(ctx, 1, GenerateBatchRequest{JobIDs: []int64{1}})
	require.NoError(t, err)

	billable, err := f.svc.Billable(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, billable, 1)
	assert.Equal(t, int64(2), billable[0].JobID)
}

func TestInvoiceLifecycle(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "2h")
	ctx := context.Background()

	inv, _, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)

	sent, err := f.svc.Send(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	_, err = f.svc.MarkPaid(ctx, 1, inv.ID)
	require.NoError(t, err)

	paid, err := f.svc.Get(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = f.svc.Cancel(ctx, 1, inv.ID)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus, "paid invoices cannot be cancelled")
}

func TestInvoiceCannotSkipSent(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "2h")
	ctx := context.Background()

	inv, _, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(ctx, 1, inv.ID)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)

	cancelled, err := f.svc.Cancel(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}
