package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the token has no live session behind it.
var ErrSessionNotFound = errors.New("auth: session not found")

// SessionStore resolves bearer tokens against sessions written to Redis by
// the identity provider. Payload shape: {"id":..,"name":..,"role":..,
// "company_id":..}.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Resolve looks up the actor for a bearer token, sliding the session TTL on
// success.
func (s *SessionStore) Resolve(ctx context.Context, token string) (Actor, error) {
	if token == "" {
		return Actor{}, ErrSessionNotFound
	}
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Actor{}, ErrSessionNotFound
		}
		return Actor{}, err
	}
	var actor Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return Actor{}, err
	}
	if actor.ID == 0 || actor.CompanyID == 0 {
		return Actor{}, ErrSessionNotFound
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	}
	return actor, nil
}

// Put writes a session for a token. Used by tests and local tooling; in
// production the identity provider owns this keyspace.
func (s *SessionStore) Put(ctx context.Context, token string, actor Actor) error {
	data, err := json.Marshal(actor)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}
