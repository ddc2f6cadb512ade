package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Middleware wires bearer-token authentication and role gates for HTTP
// handlers.
type Middleware struct {
	Sessions *SessionStore
	Logger   *slog.Logger
}

// Authenticate resolves the Authorization header and injects the actor into
// the request context. Requests without a live session get 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		actor, err := m.Sessions.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				if m.Logger != nil {
					m.Logger.Error("resolve session", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or expired session")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
	})
}

// RequireRole gates a route group to actors holding one of the given roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
