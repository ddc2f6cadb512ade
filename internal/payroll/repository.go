package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// WorkedShift is one completed job's hours attribution, still carrying the
// raw stored duration.
type WorkedShift struct {
	CleanerID   int64
	CompletedAt time.Time
	Duration    string
}

// Repository reads payroll inputs and manages profiles.
type Repository interface {
	ListProfiles(ctx context.Context, companyID int64) ([]Profile, error)
	GetProfile(ctx context.Context, companyID, cleanerID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
	CompletedShifts(ctx context.Context, companyID int64, from, to time.Time) ([]WorkedShift, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListProfiles(ctx context.Context, companyID int64) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_id, cleaner_id, name, province, hourly_wage, updated_at
		FROM payroll_profiles
		WHERE company_id = $1
		ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) GetProfile(ctx context.Context, companyID, cleanerID int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT company_id, cleaner_id, name, province, hourly_wage, updated_at
		FROM payroll_profiles
		WHERE company_id = $1 AND cleaner_id = $2`, companyID, cleanerID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpsertProfile(ctx context.Context, p Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payroll_profiles (company_id, cleaner_id, name, province, hourly_wage)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (company_id, cleaner_id)
		DO UPDATE SET name = $3, province = $4, hourly_wage = $5, updated_at = NOW()`,
		p.CompanyID, p.CleanerID, p.Name, p.Province, p.HourlyWage)
	return err
}

// CompletedShifts lists completed, cleaner-attributed jobs in the window.
func (r *repository) CompletedShifts(ctx context.Context, companyID int64, from, to time.Time) ([]WorkedShift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cleaner_id, completed_at, duration
		FROM jobs
		WHERE company_id = $1 AND status = 'completed' AND cleaner_id IS NOT NULL
		  AND completed_at >= $2 AND completed_at < $3
		ORDER BY completed_at ASC`, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WorkedShift
	for rows.Next() {
		var s WorkedShift
		var completedAt pgtype.Timestamptz
		if err := rows.Scan(&s.CleanerID, &completedAt, &s.Duration); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			s.CompletedAt = completedAt.Time
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	var updatedAt pgtype.Timestamptz
	err := row.Scan(&p.CompanyID, &p.CleanerID, &p.Name, &p.Province, &p.HourlyWage, &updatedAt)
	if err != nil {
		return Profile{}, err
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return p, nil
}
