package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists clients and their locations.
type Repository interface {
	Get(ctx context.Context, companyID, id int64) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	Insert(ctx context.Context, c Client) (int64, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error

	ListLocations(ctx context.Context, clientID int64) ([]Location, error)
	GetLocation(ctx context.Context, clientID, id int64) (*Location, error)
	InsertLocation(ctx context.Context, loc Location) (int64, error)
	DeleteLocation(ctx context.Context, clientID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, company_id, name, email, phone, notes, active, created_at, updated_at
		FROM clients WHERE company_id = $1 AND id = $2`, companyID, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	if req.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *req.Active)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM clients %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, company_id, name, email, phone, notes, active, created_at, updated_at
		FROM clients %s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, c Client) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO clients (company_id, name, email, phone, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		c.CompanyID, c.Name, c.Email, c.Phone, c.Notes, c.Active).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE clients SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "notes", "active"} {
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

func (r *repository) ListLocations(ctx context.Context, clientID int64) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, label, address, city, province, postal_code, created_at
		FROM client_locations WHERE client_id = $1
		ORDER BY label, id`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (r *repository) GetLocation(ctx context.Context, clientID, id int64) (*Location, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, client_id, label, address, city, province, postal_code, created_at
		FROM client_locations WHERE client_id = $1 AND id = $2`, clientID, id)
	loc, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *repository) InsertLocation(ctx context.Context, loc Location) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO client_locations (client_id, label, address, city, province, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		loc.ClientID, loc.Label, loc.Address, loc.City, loc.Province, loc.PostalCode).Scan(&id)
	return id, err
}

func (r *repository) DeleteLocation(ctx context.Context, clientID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM client_locations WHERE client_id = $1 AND id = $2`, clientID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	var email, phone, notes pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &email, &phone, &notes,
		&c.Active, &createdAt, &updatedAt)
	if err != nil {
		return Client{}, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return c, nil
}

func scanLocation(row pgx.Row) (Location, error) {
	var loc Location
	var createdAt pgtype.Timestamptz
	err := row.Scan(&loc.ID, &loc.ClientID, &loc.Label, &loc.Address,
		&loc.City, &loc.Province, &loc.PostalCode, &createdAt)
	if err != nil {
		return Location{}, err
	}
	if createdAt.Valid {
		loc.CreatedAt = createdAt.Time
	}
	return loc, nil
}
