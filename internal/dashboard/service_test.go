package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	scheduledFrom, scheduledTo time.Time
	completedFrom              time.Time
	failPendingCash            bool
}

func (f *fakeDashboardRepo) JobsScheduledBetween(_ context.Context, _ int64, from, to time.Time) (int, error) {
	f.scheduledFrom, f.scheduledTo = from, to
	return 4, nil
}

func (f *fakeDashboardRepo) JobsCompletedBetween(_ context.Context, _ int64, from, _ time.Time) (int, error) {
	f.completedFrom = from
	return 12, nil
}

func (f *fakeDashboardRepo) EstimatesAwaiting(_ context.Context, _ int64) (int, error) {
	return 2, nil
}

func (f *fakeDashboardRepo) PendingCash(_ context.Context, _ int64) (CashSnapshot, error) {
	if f.failPendingCash {
		return CashSnapshot{}, errors.New("boom")
	}
	return CashSnapshot{PendingCount: 3, PendingAmount: 420.5}, nil
}

func (f *fakeDashboardRepo) OpenInvoices(_ context.Context, _ int64) (InvoiceSnapshot, error) {
	return InvoiceSnapshot{OpenCount: 5, OpenTotal: 1210.75}, nil
}

func TestSummaryAggregatesAllReads(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewService(repo)
	now := time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.JobsToday)
	assert.Equal(t, 12, summary.JobsCompletedWeek)
	assert.Equal(t, 2, summary.EstimatesAwaiting)
	assert.Equal(t, CashSnapshot{PendingCount: 3, PendingAmount: 420.5}, summary.Cash)
	assert.Equal(t, InvoiceSnapshot{OpenCount: 5, OpenTotal: 1210.75}, summary.Invoices)

	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), repo.scheduledFrom)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), repo.scheduledTo)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), repo.completedFrom,
		"completion window is the trailing seven days")
}

func TestSummaryPropagatesReadErrors(t *testing.T) {
	svc := NewService(&fakeDashboardRepo{failPendingCash: true})
	_, err := svc.Summary(context.Background(), 1, time.Now())
	assert.Error(t, err)
}
