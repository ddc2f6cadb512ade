package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T) Middleware {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, time.Hour)
	require.NoError(t, store.Put(context.Background(), "admin-token",
		Actor{ID: 1, Name: "Avery Admin", Role: RoleAdmin, CompanyID: 1}))
	require.NoError(t, store.Put(context.Background(), "cleaner-token",
		Actor{ID: 3, Name: "Casey Cleaner", Role: RoleCleaner, CompanyID: 1}))
	return Middleware{Sessions: store}
}

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Actor", actor.Name)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateInjectsActor(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.Authenticate(echoActor(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Avery Admin", rec.Header().Get("X-Actor"))
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.Authenticate(echoActor(t))

	for _, header := range []string{"", "Bearer unknown-token", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestRequireRoleGates(t *testing.T) {
	m := newTestMiddleware(t)
	admin := m.Authenticate(m.RequireRole(RoleAdmin)(echoActor(t)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/generate", nil)
	req.Header.Set("Authorization", "Bearer cleaner-token")
	rec := httptest.NewRecorder()
	admin.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/invoices/generate", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutActor(t *testing.T) {
	m := newTestMiddleware(t)
	gate := m.RequireRole(RoleAdmin)(echoActor(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
