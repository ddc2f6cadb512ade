package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service assembles the dashboard summary. The five reads are independent
// and fan out concurrently.
type Service struct {
	repo Repository
}

// NewService constructs the dashboard service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary loads the dashboard numbers for one tenant as of now.
func (s *Service) Summary(ctx context.Context, companyID int64, now time.Time) (*Summary, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	// The completion window is the trailing seven days, not the ISO week.
	weekStart := dayStart.AddDate(0, 0, -6)

	var summary Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.JobsScheduledBetween(ctx, companyID, dayStart, dayEnd)
		summary.JobsToday = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.JobsCompletedBetween(ctx, companyID, weekStart, dayEnd)
		summary.JobsCompletedWeek = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.EstimatesAwaiting(ctx, companyID)
		summary.EstimatesAwaiting = n
		return err
	})
	g.Go(func() error {
		snap, err := s.repo.PendingCash(ctx, companyID)
		summary.Cash = snap
		return err
	})
	g.Go(func() error {
		snap, err := s.repo.OpenInvoices(ctx, companyID)
		summary.Invoices = snap
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
