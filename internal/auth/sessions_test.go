package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestResolveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := Actor{ID: 3, Name: "Casey Cleaner", Role: RoleCleaner, CompanyID: 1}
	require.NoError(t, store.Put(ctx, "cleaner-token", want))

	got, err := store.Resolve(ctx, "cleaner-token")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveEmptyToken(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveRejectsUnscopedSession(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("session:broken", `{"id":3,"name":"Casey","role":"cleaner"}`)

	_, err := store.Resolve(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveSlidesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok", Actor{ID: 1, Name: "A", Role: RoleAdmin, CompanyID: 1}))
	mr.SetTTL("session:tok", time.Minute)

	_, err := store.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("session:tok"))
}
