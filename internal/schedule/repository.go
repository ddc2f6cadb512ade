package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/db"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists scheduled jobs and their completion records.
type Repository interface {
	Get(ctx context.Context, companyID, id int64) (*Job, error)
	List(ctx context.Context, req ListJobsRequest) ([]Job, int, error)
	Insert(ctx context.Context, j Job) (int64, error)
	Reschedule(ctx context.Context, companyID, id int64, at time.Time, duration *string) error
	Assign(ctx context.Context, companyID, id int64, cleanerID *int64) error
	UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error
	AddPhotos(ctx context.Context, companyID, id int64, phase string, urls []string) error
	Complete(ctx context.Context, j *Job, receiverName string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const jobColumns = `
	id, company_id, client_id, location_id, cleaner_id, estimate_id,
	scheduled_at, duration, status,
	checklist, before_photos, after_photos, notes,
	payment_method, payment_amount, cash_receiver,
	completed_at, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Job, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE company_id = $1 AND id = $2`, jobColumns),
		companyID, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *repository) List(ctx context.Context, req ListJobsRequest) ([]Job, int, error) {
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
	if req.CleanerID != nil {
		conditions = append(conditions, fmt.Sprintf("cleaner_id = $%d", argPos))
		args = append(args, *req.CleanerID)
		argPos++
	}
	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_at >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_at < $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM jobs %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs %s ORDER BY scheduled_at ASC, id ASC LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, j)
	}
	return result, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, j Job) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (company_id, client_id, location_id, cleaner_id, estimate_id,
			scheduled_at, duration, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`,
		j.CompanyID, j.ClientID, j.LocationID, j.CleanerID, j.EstimateID,
		j.ScheduledAt, j.Duration, string(j.Status), j.CreatedBy).Scan(&id)
	return id, err
}

func (r *repository) Reschedule(ctx context.Context, companyID, id int64, at time.Time, duration *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs SET scheduled_at = $1, duration = COALESCE($2, duration), updated_at = NOW()
		WHERE company_id = $3 AND id = $4 AND status IN ('scheduled', 'in_progress')`,
		at, duration, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, companyID, id int64, cleanerID *int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs SET cleaner_id = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND status IN ('scheduled', 'in_progress')`,
		cleanerID, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

// UpdateStatus moves the job from one state to another in a single
// statement, so two racing transitions cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs SET status = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND status = $4`,
		string(to), companyID, id, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

func (r *repository) AddPhotos(ctx context.Context, companyID, id int64, phase string, urls []string) error {
	column := "before_photos"
	if phase == "after" {
		column = "after_photos"
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE jobs SET %s = %s || $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND status IN ('scheduled', 'in_progress')`,
		column, column),
		urls, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrInvalidStatus
	}
	return nil
}

// Complete closes the job and writes its payment record in one
// transaction. A cash payment opens a pending cash collection; an
// e-transfer writes a receipt directly. The status guard makes a second
// completion of the same job fail with no partial writes.
func (r *repository) Complete(ctx context.Context, j *Job, receiverName string) error {
	checklist, err := json.Marshal(j.Checklist)
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE jobs SET status = 'completed', checklist = $1, notes = $2,
				payment_method = $3, payment_amount = $4, cash_receiver = $5,
				completed_at = NOW(), updated_at = NOW()
			WHERE company_id = $6 AND id = $7 AND status IN ('scheduled', 'in_progress')`,
			checklist, j.Notes, j.PaymentMethod, j.PaymentAmount, j.CashReceiver,
			j.CompanyID, j.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrInvalidStatus
		}

		if *j.PaymentMethod == PaymentCash {
			_, err = tx.Exec(ctx, `
				INSERT INTO cash_collections (company_id, job_id, cleaner_id, amount, receiver, status)
				VALUES ($1, $2, $3, $4, $5, 'pending')`,
				j.CompanyID, j.ID, j.CleanerID, *j.PaymentAmount, string(*j.CashReceiver))
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO payment_receipts (company_id, job_id, method, amount, received_by)
			VALUES ($1, $2, $3, $4, $5)`,
			j.CompanyID, j.ID, string(*j.PaymentMethod), *j.PaymentAmount, receiverName)
		return err
	})
}

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	var locationID, cleanerID, estimateID pgtype.Int8
	var notes, method, receiver pgtype.Text
	var amount pgtype.Float8
	var checklist []byte
	var completedAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.ClientID, &locationID, &cleanerID, &estimateID,
		&j.ScheduledAt, &j.Duration, &j.Status,
		&checklist, &j.BeforePhotos, &j.AfterPhotos, &notes,
		&method, &amount, &receiver,
		&completedAt, &j.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return Job{}, err
	}
	if locationID.Valid {
		j.LocationID = &locationID.Int64
	}
	if cleanerID.Valid {
		j.CleanerID = &cleanerID.Int64
	}
	if estimateID.Valid {
		j.EstimateID = &estimateID.Int64
	}
	if len(checklist) > 0 {
		if err := json.Unmarshal(checklist, &j.Checklist); err != nil {
			return Job{}, fmt.Errorf("decode checklist: %w", err)
		}
	}
	if notes.Valid {
		j.Notes = &notes.String
	}
	if method.Valid {
		m := PaymentMethod(method.String)
		j.PaymentMethod = &m
	}
	if amount.Valid {
		j.PaymentAmount = &amount.Float64
	}
	if receiver.Valid {
		rc := CashReceiver(receiver.String)
		j.CashReceiver = &rc
	}
	if completedAt.Valid {
		j.CompletedAt = &completedAt.Time
	}
	if createdAt.Valid {
		j.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		j.UpdatedAt = updatedAt.Time
	}
	return j, nil
}
