package payroll

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
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

type memPayrollRepo struct {
	profiles map[int64]Profile
	shifts   []WorkedShift
}

func newMemPayrollRepo() *memPayrollRepo {
	return &memPayrollRepo{profiles: map[int64]Profile{}}
}

func (m *memPayrollRepo) ListProfiles(_ context.Context, companyID int64) ([]Profile, error) {
	var out []Profile
	for _, p := range m.profiles {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayrollRepo) GetProfile(_ context.Context, companyID, cleanerID int64) (*Profile, error) {
	p, ok := m.profiles[cleanerID]
	if !ok || p.CompanyID != companyID {
		return nil, httpx.ErrNotFound
	}
	return &p, nil
}

func (m *memPayrollRepo) UpsertProfile(_ context.Context, p Profile) error {
	p.UpdatedAt = time.Now()
	m.profiles[p.CleanerID] = p
	return nil
}

func (m *memPayrollRepo) CompletedShifts(_ context.Context, _ int64, from, to time.Time) ([]WorkedShift, error) {
	var out []WorkedShift
	for _, s := range m.shifts {
		if !s.CompletedAt.Before(from) && s.CompletedAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeLedger struct {
	approvedTotal float64
	settledCount  int64
	settleCalls   []time.Time
}

func (f *fakeLedger) ApprovedTotal(_ context.Context, _, _ int64, _, _ time.Time) (float64, error) {
	return f.approvedTotal, nil
}

func (f *fakeLedger) SettleApproved(_ context.Context, _, _ int64, upTo time.Time) (int64, error) {
	f.settleCalls = append(f.settleCalls, upTo)
	return f.settledCount, nil
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

func newPayrollFixture() (*Service, *memPayrollRepo, *fakeLedger, *fakeNotifier) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemPayrollRepo()
	ledger := &fakeLedger{}
	notifier := &fakeNotifier{}
	svc := NewService(logger, repo, ledger, notifier, activity.NewRecorder(&memActivityRepo{}, logger))
	return svc, repo, ledger, notifier
}

func adminContext() context.Context {
	return auth.ContextWithActor(context.Background(), auth.Actor{
		ID: 1, Name: "Avery Admin", Role: auth.RoleAdmin, CompanyID: 1,
	})
}

func TestPreviewComputesOvertimeAndCashDeduction(t *testing.T) {
	svc, repo, ledger, _ := newPayrollFixture()
	repo.profiles[7] = Profile{CompanyID: 1, CleanerID: 7, Name: "Casey Cleaner", Province: "ON", HourlyWage: 25}
	ledger.approvedTotal = 140

	// Five 9h days in one ISO week: 44 regular + 1 overtime in Ontario.
	for d := 17; d <= 21; d++ {
		repo.shifts = append(repo.shifts, WorkedShift{
			CleanerID:   7,
			CompletedAt: time.Date(2026, 8, d, 18, 0, 0, 0, time.UTC),
			Duration:    "9h",
		})
	}

	from := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	preview, err := svc.Preview(adminContext(), 1, from, to)
	require.NoError(t, err)

	require.Len(t, preview.Lines, 1)
	line := preview.Lines[0]
	assert.Equal(t, 44.0, line.RegularHours)
	assert.Equal(t, 1.0, line.OvertimeHours)
	assert.Equal(t, 1100.0, line.RegularPay)
	assert.Equal(t, 37.5, line.OvertimePay)
	assert.Equal(t, 1137.5, line.GrossPay)
	assert.Equal(t, 140.0, line.CashHeld)
	assert.Equal(t, 997.5, line.NetPay)

	assert.Equal(t, 1137.5, preview.TotalGross)
	assert.Equal(t, 997.5, preview.TotalNet)
	assert.Zero(t, preview.SkippedDurations)
}

func TestPreviewSkipsAndCountsBadDurations(t *testing.T) {
	svc, repo, _, _ := newPayrollFixture()
	repo.profiles[7] = Profile{CompanyID: 1, CleanerID: 7, Name: "Casey Cleaner", Province: "ON", HourlyWage: 25}
	repo.shifts = []WorkedShift{
		{CleanerID: 7, CompletedAt: time.Date(2026, 8, 17, 18, 0, 0, 0, time.UTC), Duration: "4h"},
		{CleanerID: 7, CompletedAt: time.Date(2026, 8, 18, 18, 0, 0, 0, time.UTC), Duration: "around lunch"},
	}

	from := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	preview, err := svc.Preview(adminContext(), 1, from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, preview.SkippedDurations)
	require.Len(t, preview.Lines, 1)
	assert.Equal(t, 4.0, preview.Lines[0].RegularHours)
}

func TestPreviewOmitsCleanersWithoutShifts(t *testing.T) {
	svc, repo, _, _ := newPayrollFixture()
	repo.profiles[7] = Profile{CompanyID: 1, CleanerID: 7, Name: "Casey Cleaner", Province: "ON", HourlyWage: 25}
	repo.profiles[8] = Profile{CompanyID: 1, CleanerID: 8, Name: "Jordan Idle", Province: "BC", HourlyWage: 28}
	repo.shifts = []WorkedShift{
		{CleanerID: 7, CompletedAt: time.Date(2026, 8, 17, 18, 0, 0, 0, time.UTC), Duration: "3h"},
	}

	from := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	preview, err := svc.Preview(adminContext(), 1, from, to)
	require.NoError(t, err)

	require.Len(t, preview.Lines, 1)
	assert.Equal(t, int64(7), preview.Lines[0].CleanerID)
}

func TestSettleIncludesCutoffDayAndNotifies(t *testing.T) {
	svc, _, ledger, notifier := newPayrollFixture()
	ledger.settledCount = 3

	count, err := svc.Settle(adminContext(), 1, SettleRequest{CleanerID: 7, UpTo: "2026-08-21"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// The cutoff passed to the ledger is the start of the following day.
	require.Len(t, ledger.settleCalls, 1)
	assert.Equal(t, time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC), ledger.settleCalls[0])

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, notify.KindPayrollSettled, notifier.messages[0].Kind)
	assert.Equal(t, int64(7), notifier.messages[0].UserID)
}

func TestSettleWithNothingApprovedStaysSilent(t *testing.T) {
	svc, _, _, notifier := newPayrollFixture()

	count, err := svc.Settle(adminContext(), 1, SettleRequest{CleanerID: 7, UpTo: "2026-08-21"})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, notifier.messages)
}

func TestSettleRejectsBadCutoff(t *testing.T) {
	svc, _, _, _ := newPayrollFixture()
	_, err := svc.Settle(adminContext(), 1, SettleRequest{CleanerID: 7, UpTo: "21/08/2026"})
	assert.Error(t, err)
}

func TestUpsertProfileRoundTrips(t *testing.T) {
	svc, _, _, _ := newPayrollFixture()

	p, err := svc.UpsertProfile(adminContext(), 1, 7, UpsertProfileRequest{
		Name: "Casey Cleaner", Province: "AB", HourlyWage: 26.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "AB", p.Province)
	assert.Equal(t, 26.5, p.HourlyWage)

	p, err = svc.UpsertProfile(adminContext(), 1, 7, UpsertProfileRequest{
		Name: "Casey Cleaner", Province: "BC", HourlyWage: 27,
	})
	require.NoError(t, err)
	assert.Equal(t, "BC", p.Province)
}
