package billing

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

// BillableJob is a completed job as seen by the batch generator and the
// admin review list. PaymentMethod and Invoiced let the generation loop
// count cash and already-invoiced selections as skipped instead of
// silently excluding them.
type BillableJob struct {
	JobID         int64     `json:"job_id"`
	ClientID      int64     `json:"client_id"`
	CleanerID     *int64    `json:"cleaner_id,omitempty"`
	LocationID    *int64    `json:"location_id,omitempty"`
	Duration      string    `json:"duration"`
	PaymentMethod string    `json:"payment_method"`
	Invoiced      bool      `json:"invoiced"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Repository persists invoices.
type Repository interface {
	Get(ctx context.Context, companyID, id int64) (*Invoice, error)
	GetByJob(ctx context.Context, companyID, jobID int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	InsertIfAbsent(ctx context.Context, inv Invoice) (int64, bool, error)
	UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error
	CompletedJobs(ctx context.Context, companyID int64, from, to *time.Time, ids []int64) ([]BillableJob, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `
	id, company_id, job_id, client_id, cleaner_id, location_id, number,
	hours_billed, hourly_rate, subtotal, tax_rate_percent, tax_amount, total,
	status, issued_at, due_at, sent_at, paid_at, created_at, updated_at`

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM invoices WHERE company_id = $1 AND id = $2`, invoiceColumns),
		companyID, id)
	return scanOne(row)
}

func (r *repository) GetByJob(ctx context.Context, companyID, jobID int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM invoices WHERE company_id = $1 AND job_id = $2`, invoiceColumns),
		companyID, jobID)
	return scanOne(row)
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*req.Status))
		argPos++
	}
	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM invoices %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices %s ORDER BY issued_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, inv)
	}
	return result, total, rows.Err()
}

// InsertIfAbsent creates the invoice unless one already exists for the
// job. The unique index on (company_id, job_id) is the idempotency guard;
// a conflicting insert writes nothing and reports created = false.
func (r *repository) InsertIfAbsent(ctx context.Context, inv Invoice) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (company_id, job_id, client_id, cleaner_id, location_id, number,
			hours_billed, hourly_rate, subtotal, tax_rate_percent, tax_amount, total,
			status, issued_at, due_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (company_id, job_id) DO NOTHING
		RETURNING id`,
		inv.CompanyID, inv.JobID, inv.ClientID, inv.CleanerID, inv.LocationID, inv.Number,
		inv.HoursBilled, inv.HourlyRate, inv.Subtotal, inv.TaxRatePercent, inv.TaxAmount, inv.Total,
		string(inv.Status), inv.IssuedAt, inv.DueAt).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error {
	stamp := ""
	switch to {
	case StatusSent:
		stamp = ", sent_at = NOW()"
	case StatusPaid:
		stamp = ", paid_at = NOW()"
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE invoices SET status = $1, updated_at = NOW()%s
		WHERE company_id = $2 AND id = $3 AND status = $4`, stamp),
		string(to), companyID, id, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

// CompletedJobs lists completed jobs in the given completion window,
// optionally narrowed to an explicit selection, with their invoiced state.
// Cash and already-invoiced jobs are included so the caller can count them.
func (r *repository) CompletedJobs(ctx context.Context, companyID int64, from, to *time.Time, ids []int64) ([]BillableJob, error) {
	conditions := []string{
		"j.company_id = $1",
		"j.status = 'completed'",
	}
	args := []interface{}{companyID}
	argPos := 2

	if from != nil {
		conditions = append(conditions, fmt.Sprintf("j.completed_at >= $%d", argPos))
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("j.completed_at < $%d", argPos))
		args = append(args, *to)
		argPos++
	}
	if len(ids) > 0 {
		conditions = append(conditions, fmt.Sprintf("j.id = ANY($%d)", argPos))
		args = append(args, ids)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT j.id, j.client_id, j.cleaner_id, j.location_id, j.duration,
		       COALESCE(j.payment_method, ''), i.id IS NOT NULL, j.completed_at
		FROM jobs j
		LEFT JOIN invoices i ON i.company_id = j.company_id AND i.job_id = j.id
		%s
		ORDER BY j.completed_at ASC, j.id ASC`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BillableJob
	for rows.Next() {
		var b BillableJob
		var completedAt pgtype.Timestamptz
		if err := rows.Scan(&b.JobID, &b.ClientID, &b.CleanerID, &b.LocationID, &b.Duration,
			&b.PaymentMethod, &b.Invoiced, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			b.CompletedAt = completedAt.Time
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func scanOne(row pgx.Row) (*Invoice, error) {
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var sentAt, paidAt, issuedAt, dueAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.JobID, &inv.ClientID, &inv.CleanerID, &inv.LocationID, &inv.Number,
		&inv.HoursBilled, &inv.HourlyRate, &inv.Subtotal, &inv.TaxRatePercent,
		&inv.TaxAmount, &inv.Total,
		&inv.Status, &issuedAt, &dueAt, &sentAt, &paidAt, &createdAt, &updatedAt)
	if err != nil {
		return Invoice{}, err
	}
	if issuedAt.Valid {
		inv.IssuedAt = issuedAt.Time
	}
	if dueAt.Valid {
		inv.DueAt = dueAt.Time
	}
	if sentAt.Valid {
		inv.SentAt = &sentAt.Time
	}
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}
	if createdAt.Valid {
		inv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		inv.UpdatedAt = updatedAt.Time
	}
	return inv, nil
}
