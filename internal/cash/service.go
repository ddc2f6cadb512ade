package cash

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/notify"
)

// Service owns cash collection review. Collections are opened by job
// completion; this service only moves them forward.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	notifier notify.Enqueuer
	recorder *activity.Recorder
}

// NewService constructs the cash service.
func NewService(logger *slog.Logger, repo Repository, notifier notify.Enqueuer, recorder *activity.Recorder) *Service {
	return &Service{logger: logger, repo: repo, notifier: notifier, recorder: recorder}
}

// Approve confirms a pending collection, making it eligible for payroll
// settlement.
func (s *Service) Approve(ctx context.Context, companyID, id int64) (*Collection, error) {
	actor, _ := auth.ActorFromContext(ctx)
	if err := s.repo.Approve(ctx, companyID, id, actor.ID); err != nil {
		return nil, fmt.Errorf("approve collection: %w", err)
	}
	c, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionCashApproved,
		fmt.Sprintf("$%.2f cash collection approved", c.Amount),
		activity.WithEntity("cash_collection", c.ID, ""))
	s.notifyCleaner(ctx, c, notify.KindCashApproved,
		"Cash collection approved",
		fmt.Sprintf("Your $%.2f cash collection was approved.", c.Amount))
	return c, nil
}

// Dispute rejects a pending collection with a reason.
func (s *Service) Dispute(ctx context.Context, companyID, id int64, req DisputeRequest) (*Collection, error) {
	actor, _ := auth.ActorFromContext(ctx)
	if err := s.repo.Dispute(ctx, companyID, id, actor.ID, req.Reason); err != nil {
		return nil, fmt.Errorf("dispute collection: %w", err)
	}
	c, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionCashDisputed,
		fmt.Sprintf("$%.2f cash collection disputed: %s", c.Amount, req.Reason),
		activity.WithEntity("cash_collection", c.ID, ""))
	s.notifyCleaner(ctx, c, notify.KindCashDisputed,
		"Cash collection disputed",
		fmt.Sprintf("Your $%.2f cash collection was disputed: %s", c.Amount, req.Reason))
	return c, nil
}

// Get returns a single collection.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Collection, error) {
	return s.repo.Get(ctx, companyID, id)
}

// List returns a filtered page of collections.
func (s *Service) List(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ListReceipts returns the tenant's payment receipts, newest first.
func (s *Service) ListReceipts(ctx context.Context, companyID int64, limit, offset int) ([]Receipt, int, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListReceipts(ctx, companyID, limit, offset)
}

func (s *Service) notifyCleaner(ctx context.Context, c *Collection, kind notify.Kind, title, body string) {
	if c.CleanerID == nil {
		return
	}
	err := s.notifier.EnqueueNotify(ctx, notify.Message{
		CompanyID:  c.CompanyID,
		UserID:     *c.CleanerID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		EntityType: "cash_collection",
		EntityID:   c.ID,
	})
	if err != nil {
		s.logger.Error("enqueue cash notification", slog.Any("error", err))
	}
}
