package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// Service delivers and reads in-app notifications. Deliver runs on the
// background worker; the read paths serve the HTTP API.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs the notification service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// Deliver persists one message as an in-app notification.
func (s *Service) Deliver(ctx context.Context, msg Message) error {
	if msg.CompanyID == 0 || msg.UserID == 0 {
		return fmt.Errorf("notify: message missing company or user")
	}
	id, err := s.repo.Insert(ctx, msg)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	s.logger.Info("notification delivered",
		slog.Int64("notification_id", id),
		slog.String("kind", string(msg.Kind)),
		slog.Int64("user_id", msg.UserID))
	return nil
}

// ListMine returns the caller's notifications, newest first.
func (s *Service) ListMine(ctx context.Context, companyID, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, companyID, userID, unreadOnly, limit, offset)
}

// MarkRead marks one of the caller's notifications read.
func (s *Service) MarkRead(ctx context.Context, companyID, userID, id int64) error {
	return s.repo.MarkRead(ctx, companyID, userID, id)
}

// MarkAllRead marks every unread notification of the caller read and
// returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, companyID, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, companyID, userID)
}
