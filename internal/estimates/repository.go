package estimates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists estimates.
type Repository interface {
	Get(ctx context.Context, companyID, id int64) (*Estimate, error)
	List(ctx context.Context, req ListEstimatesRequest) ([]Estimate, int, error)
	Insert(ctx context.Context, e Estimate) (int64, error)
	Update(ctx context.Context, e *Estimate) error
	UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const estimateColumns = `
	id, company_id, client_name, client_email, client_phone,
	square_footage, bedrooms, bathrooms, living_areas, has_kitchen,
	service_type, frequency,
	extra_pets, extra_children, extra_green, extra_fridge, extra_oven, extra_cabinets, extra_windows,
	hourly_rate, total, status, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Estimate, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM estimates WHERE company_id = $1 AND id = $2`, estimateColumns),
		companyID, id)
	e, err := scanEstimate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, req ListEstimatesRequest) ([]Estimate, int, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*req.Status))
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(client_name ILIKE $%d OR client_email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM estimates %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM estimates %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		estimateColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, e Estimate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO estimates (
			company_id, client_name, client_email, client_phone,
			square_footage, bedrooms, bathrooms, living_areas, has_kitchen,
			service_type, frequency,
			extra_pets, extra_children, extra_green, extra_fridge, extra_oven, extra_cabinets, extra_windows,
			hourly_rate, total, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING id`,
		e.CompanyID, e.ClientName, e.ClientEmail, e.ClientPhone,
		e.Property.SquareFootage, e.Property.Bedrooms, e.Property.Bathrooms,
		e.Property.LivingAreas, e.Property.HasKitchen,
		string(e.ServiceType), string(e.Frequency),
		e.Extras.Pets, e.Extras.Children, e.Extras.GreenCleaning, e.Extras.Fridge,
		e.Extras.Oven, e.Extras.Cabinets, e.Extras.Windows,
		e.HourlyRate, e.Total, string(e.Status), e.CreatedBy).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, e *Estimate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE estimates SET
			client_name = $1, client_email = $2, client_phone = $3,
			square_footage = $4, bedrooms = $5, bathrooms = $6, living_areas = $7, has_kitchen = $8,
			service_type = $9, frequency = $10,
			extra_pets = $11, extra_children = $12, extra_green = $13, extra_fridge = $14,
			extra_oven = $15, extra_cabinets = $16, extra_windows = $17,
			total = $18, updated_at = NOW()
		WHERE company_id = $19 AND id = $20`,
		e.ClientName, e.ClientEmail, e.ClientPhone,
		e.Property.SquareFootage, e.Property.Bedrooms, e.Property.Bathrooms,
		e.Property.LivingAreas, e.Property.HasKitchen,
		string(e.ServiceType), string(e.Frequency),
		e.Extras.Pets, e.Extras.Children, e.Extras.GreenCleaning, e.Extras.Fridge,
		e.Extras.Oven, e.Extras.Cabinets, e.Extras.Windows,
		e.Total, e.CompanyID, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// UpdateStatus moves the estimate from one state to another in a single
// statement, so two racing transitions cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE estimates SET status = $1, updated_at = NOW()
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

func scanEstimate(row pgx.Row) (Estimate, error) {
	var e Estimate
	var email, phone pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ClientName, &email, &phone,
		&e.Property.SquareFootage, &e.Property.Bedrooms, &e.Property.Bathrooms,
		&e.Property.LivingAreas, &e.Property.HasKitchen,
		&e.ServiceType, &e.Frequency,
		&e.Extras.Pets, &e.Extras.Children, &e.Extras.GreenCleaning, &e.Extras.Fridge,
		&e.Extras.Oven, &e.Extras.Cabinets, &e.Extras.Windows,
		&e.HourlyRate, &e.Total, &e.Status, &e.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return Estimate{}, err
	}
	if email.Valid {
		e.ClientEmail = &email.String
	}
	if phone.Valid {
		e.ClientPhone = &phone.String
	}
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		e.UpdatedAt = updatedAt.Time
	}
	return e, nil
}
