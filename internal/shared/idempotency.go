package shared

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyStore persists processed keys so repeated submissions of the
// same operation become no-ops instead of duplicates.
type IdempotencyStore struct {
	pool *pgxpool.Pool
}

// NewIdempotencyStore constructs the store.
func NewIdempotencyStore(pool *pgxpool.Pool) *IdempotencyStore {
	return &IdempotencyStore{pool: pool}
}

// InsertIfAbsent records the key and reports whether this call inserted it.
// A false return means another request already processed the key. Conflict
// detection goes through ON CONFLICT DO NOTHING rather than interpreting a
// unique-violation error code.
func (s *IdempotencyStore) InsertIfAbsent(ctx context.Context, key, module string) (bool, error) {
	if s == nil {
		return false, errors.New("idempotency store not initialised")
	}
	if key == "" {
		return false, errors.New("idempotency key required")
	}
	if module == "" {
		return false, errors.New("idempotency module required")
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO idempotency_keys (key, module, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key, module) DO NOTHING`,
		key, module, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Cleanup removes entries older than retention.
func (s *IdempotencyStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	if s == nil {
		return nil
	}
	cutoff := time.Now().Add(-olderThan)
	_, err := s.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, cutoff)
	return err
}

// Delete removes a key, typically used to roll back failed processing.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE key=$1`, key)
	return err
}
