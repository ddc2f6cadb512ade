package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists and queries activity entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]Entry, int, error)
}

// ListRequest filters the activity query. From/To are calendar days; the
// repository widens them to start-of-day and end-of-day so the range is
// inclusive on both ends.
type ListRequest struct {
	CompanyID int64
	Search    string
	Action    *Action
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, entry Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_logs
			(company_id, actor_id, actor_name, action, entity_type, entity_id, entity_name, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))`,
		entry.CompanyID, entry.ActorID, entry.ActorName, string(entry.Action),
		nullable(entry.EntityType), nullable(entry.EntityID), nullable(entry.EntityName),
		entry.Detail, nullableTime(entry.CreatedAt))
	return err
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Entry, int, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(detail ILIKE $%d OR actor_name ILIKE $%d OR action ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	if req.Action != nil {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argPos))
		args = append(args, string(*req.Action))
		argPos++
	}
	if req.From != nil {
		day := time.Date(req.From.Year(), req.From.Month(), req.From.Day(), 0, 0, 0, 0, req.From.Location())
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, day)
		argPos++
	}
	if req.To != nil {
		day := time.Date(req.To.Year(), req.To.Month(), req.To.Day(), 0, 0, 0, 0, req.To.Location()).AddDate(0, 0, 1)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argPos))
		args = append(args, day)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activity_logs %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, company_id, actor_id, actor_name, action,
		       entity_type, entity_id, entity_name, detail, created_at
		FROM activity_logs
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var entityType, entityID, entityName pgtype.Text
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ActorID, &e.ActorName, &e.Action,
			&entityType, &entityID, &entityName, &e.Detail, &createdAt); err != nil {
			return nil, 0, err
		}
		if entityType.Valid {
			e.EntityType = entityType.String
		}
		if entityID.Valid {
			e.EntityID = entityID.String
		}
		if entityName.Valid {
			e.EntityName = entityName.String
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func nullable(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func nullableTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
