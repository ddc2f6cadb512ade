package cash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists cash collections and reads payment receipts.
type Repository interface {
	Get(ctx context.Context, companyID, id int64) (*Collection, error)
	List(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error)
	Approve(ctx context.Context, companyID, id, reviewerID int64) error
	Dispute(ctx context.Context, companyID, id, reviewerID int64, reason string) error
	SettleApproved(ctx context.Context, companyID, cleanerID int64, upTo time.Time) (int64, error)
	ApprovedTotal(ctx context.Context, companyID, cleanerID int64, from, to time.Time) (float64, error)
	ListReceipts(ctx context.Context, companyID int64, limit, offset int) ([]Receipt, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const collectionColumns = `
	id, company_id, job_id, cleaner_id, amount, receiver, status,
	dispute_reason, reviewed_by, reviewed_at, settled_at, created_at, updated_at`

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Collection, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM cash_collections WHERE company_id = $1 AND id = $2`, collectionColumns),
		companyID, id)
	c, err := scanCollection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*req.Status))
		argPos++
	}
	if req.CleanerID != nil {
		conditions = append(conditions, fmt.Sprintf("cleaner_id = $%d", argPos))
		args = append(args, *req.CleanerID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM cash_collections %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM cash_collections %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		collectionColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

// Approve moves pending -> approved; any other starting state fails.
func (r *repository) Approve(ctx context.Context, companyID, id, reviewerID int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_collections
		SET status = 'approved', reviewed_by = $1, reviewed_at = NOW(), updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND status = 'pending'`,
		reviewerID, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

// Dispute moves pending -> disputed with the reviewer's reason.
func (r *repository) Dispute(ctx context.Context, companyID, id, reviewerID int64, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_collections
		SET status = 'disputed', dispute_reason = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE company_id = $3 AND id = $4 AND status = 'pending'`,
		reason, reviewerID, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

// SettleApproved marks every approved collection of the cleaner created up
// to the cutoff as settled and returns how many changed.
func (r *repository) SettleApproved(ctx context.Context, companyID, cleanerID int64, upTo time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_collections
		SET status = 'settled', settled_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND cleaner_id = $2 AND status = 'approved' AND created_at < $3`,
		companyID, cleanerID, upTo)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ApprovedTotal sums the approved cash a cleaner held in the window, where
// the cleaner kept the money at the door.
func (r *repository) ApprovedTotal(ctx context.Context, companyID, cleanerID int64, from, to time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM cash_collections
		WHERE company_id = $1 AND cleaner_id = $2 AND status = 'approved'
		  AND receiver = 'cleaner' AND created_at >= $3 AND created_at < $4`,
		companyID, cleanerID, from, to).Scan(&total)
	return total, err
}

func (r *repository) ListReceipts(ctx context.Context, companyID int64, limit, offset int) ([]Receipt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_receipts WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, job_id, method, amount, received_by, created_at
		FROM payment_receipts
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Receipt
	for rows.Next() {
		var rc Receipt
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&rc.ID, &rc.CompanyID, &rc.JobID, &rc.Method, &rc.Amount,
			&rc.ReceivedBy, &createdAt); err != nil {
			return nil, 0, err
		}
		if createdAt.Valid {
			rc.CreatedAt = createdAt.Time
		}
		result = append(result, rc)
	}
	return result, total, rows.Err()
}

func scanCollection(row pgx.Row) (Collection, error) {
	var c Collection
	var cleanerID, reviewedBy pgtype.Int8
	var reason pgtype.Text
	var reviewedAt, settledAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.JobID, &cleanerID, &c.Amount, &c.Receiver, &c.Status,
		&reason, &reviewedBy, &reviewedAt, &settledAt, &createdAt, &updatedAt)
	if err != nil {
		return Collection{}, err
	}
	if cleanerID.Valid {
		c.CleanerID = &cleanerID.Int64
	}
	if reason.Valid {
		c.DisputeReason = &reason.String
	}
	if reviewedBy.Valid {
		c.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		c.ReviewedAt = &reviewedAt.Time
	}
	if settledAt.Valid {
		c.SettledAt = &settledAt.Time
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return c, nil
}
