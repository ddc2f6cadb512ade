package notify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Repository persists notifications.
type Repository interface {
	Insert(ctx context.Context, msg Message) (int64, error)
	ListForUser(ctx context.Context, companyID, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error)
	MarkRead(ctx context.Context, companyID, userID, id int64) error
	MarkAllRead(ctx context.Context, companyID, userID int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, msg Message) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (company_id, user_id, kind, title, body, entity_type, entity_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		msg.CompanyID, msg.UserID, string(msg.Kind), msg.Title, msg.Body,
		msg.EntityType, msg.EntityID).Scan(&id)
	return id, err
}

func (r *repository) ListForUser(ctx context.Context, companyID, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	where := "WHERE company_id = $1 AND user_id = $2"
	if unreadOnly {
		where += " AND read_at IS NULL"
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM notifications %s", where),
		companyID, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, company_id, user_id, kind, title, body, entity_type, entity_id, read_at, created_at
		FROM notifications %s
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`, where),
		companyID, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	return result, total, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, companyID, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE company_id = $1 AND user_id = $2 AND id = $3 AND read_at IS NULL`,
		companyID, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, companyID, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE company_id = $1 AND user_id = $2 AND read_at IS NULL`,
		companyID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	var entityType pgtype.Text
	var entityID pgtype.Int8
	var readAt, createdAt pgtype.Timestamptz
	err := row.Scan(&n.ID, &n.CompanyID, &n.UserID, &n.Kind, &n.Title, &n.Body,
		&entityType, &entityID, &readAt, &createdAt)
	if err != nil {
		return Notification{}, err
	}
	if entityType.Valid {
		n.EntityType = entityType.String
	}
	if entityID.Valid {
		n.EntityID = entityID.Int64
	}
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	if createdAt.Valid {
		n.CreatedAt = createdAt.Time
	}
	return n, nil
}
