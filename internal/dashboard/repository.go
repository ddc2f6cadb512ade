package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the aggregate counts behind the dashboard.
type Repository interface {
	JobsScheduledBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error)
	JobsCompletedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error)
	EstimatesAwaiting(ctx context.Context, companyID int64) (int, error)
	PendingCash(ctx context.Context, companyID int64) (CashSnapshot, error)
	OpenInvoices(ctx context.Context, companyID int64) (InvoiceSnapshot, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) JobsScheduledBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM jobs
		WHERE company_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		  AND status IN ('scheduled', 'in_progress')`,
		companyID, from, to).Scan(&n)
	return n, err
}

func (r *repository) JobsCompletedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM jobs
		WHERE company_id = $1 AND status = 'completed'
		  AND completed_at >= $2 AND completed_at < $3`,
		companyID, from, to).Scan(&n)
	return n, err
}

func (r *repository) EstimatesAwaiting(ctx context.Context, companyID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM estimates
		WHERE company_id = $1 AND status = 'sent'`, companyID).Scan(&n)
	return n, err
}

func (r *repository) PendingCash(ctx context.Context, companyID int64) (CashSnapshot, error) {
	var s CashSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM cash_collections
		WHERE company_id = $1 AND status = 'pending'`, companyID).
		Scan(&s.PendingCount, &s.PendingAmount)
	return s, err
}

func (r *repository) OpenInvoices(ctx context.Context, companyID int64) (InvoiceSnapshot, error) {
	var s InvoiceSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0) FROM invoices
		WHERE company_id = $1 AND status IN ('draft', 'sent')`, companyID).
		Scan(&s.OpenCount, &s.OpenTotal)
	return s, err
}
