package company

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists tenant settings and the checklist catalog.
type Repository interface {
	GetSettings(ctx context.Context, companyID int64) (*Settings, error)
	UpdateSettings(ctx context.Context, companyID int64, updates map[string]interface{}) error
	SetLogoURL(ctx context.Context, companyID int64, url string) error

	ListChecklist(ctx context.Context, companyID int64, activeOnly bool) ([]ChecklistItem, error)
	GetChecklistItem(ctx context.Context, companyID, id int64) (*ChecklistItem, error)
	InsertChecklistItem(ctx context.Context, item ChecklistItem) (int64, error)
	UpdateChecklistItem(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	DeleteChecklistItem(ctx context.Context, companyID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetSettings(ctx context.Context, companyID int64) (*Settings, error) {
	var s Settings
	var logo pgtype.Text
	var fees []byte
	var updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
		SELECT company_id, name, logo_url, hourly_rate, tax_rate_percent, invoice_mode, extra_fees, updated_at
		FROM company_settings WHERE company_id = $1`, companyID).
		Scan(&s.CompanyID, &s.Name, &logo, &s.HourlyRate, &s.TaxRatePercent, &s.InvoiceMode, &fees, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	if logo.Valid {
		s.LogoURL = &logo.String
	}
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}
	if len(fees) > 0 {
		if err := json.Unmarshal(fees, &s.ExtraFees); err != nil {
			return nil, fmt.Errorf("company: decode extra fees: %w", err)
		}
	}
	return &s, nil
}

func (r *repository) UpdateSettings(ctx context.Context, companyID int64, updates map[string]interface{}) error {
	query := "UPDATE company_settings SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "hourly_rate", "tax_rate_percent", "invoice_mode"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	if v, ok := updates["extra_fees"]; ok {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("company: encode extra fees: %w", err)
		}
		query += fmt.Sprintf(", extra_fees = $%d", argPos)
		args = append(args, data)
		argPos++
	}

	query += fmt.Sprintf(" WHERE company_id = $%d", argPos)
	args = append(args, companyID)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetLogoURL(ctx context.Context, companyID int64, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE company_settings SET logo_url = $1, updated_at = NOW() WHERE company_id = $2`,
		url, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ListChecklist(ctx context.Context, companyID int64, activeOnly bool) ([]ChecklistItem, error) {
	query := `
		SELECT id, company_id, name, description, active, display_order, created_at, updated_at
		FROM checklist_items WHERE company_id = $1`
	if activeOnly {
		query += " AND active"
	}
	query += " ORDER BY display_order, id"

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) GetChecklistItem(ctx context.Context, companyID, id int64) (*ChecklistItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, company_id, name, description, active, display_order, created_at, updated_at
		FROM checklist_items WHERE company_id = $1 AND id = $2`, companyID, id)
	item, err := scanChecklistItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) InsertChecklistItem(ctx context.Context, item ChecklistItem) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO checklist_items (company_id, name, description, active, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.CompanyID, item.Name, item.Description, item.Active, item.DisplayOrder).Scan(&id)
	return id, err
}

func (r *repository) UpdateChecklistItem(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE checklist_items SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "description", "active", "display_order"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE company_id = $%d AND id = $%d", argPos, argPos+1)
	args = append(args, companyID, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteChecklistItem(ctx context.Context, companyID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM checklist_items WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanChecklistItem(row pgx.Row) (ChecklistItem, error) {
	var item ChecklistItem
	var description pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&item.ID, &item.CompanyID, &item.Name, &description,
		&item.Active, &item.DisplayOrder, &createdAt, &updatedAt)
	if err != nil {
		return ChecklistItem{}, err
	}
	if description.Valid {
		item.Description = &description.String
	}
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		item.UpdatedAt = updatedAt.Time
	}
	return item, nil
}
