package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Handler exposes the dashboard summary over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   auth.Middleware
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes attaches the dashboard route for admins and managers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Get("/dashboard", h.summary)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	summary, err := h.service.Summary(r.Context(), actor.CompanyID, time.Now().UTC())
	if err != nil {
		h.logger.Error("load dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
