package activity

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Handler exposes the activity timeline over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   auth.Middleware
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes attaches activity routes. The log is admin/manager only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Get("/activity", h.timeline)
	})
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	filters := TimelineFilters{
		Search: q.Get("q"),
		Action: q.Get("action"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	if v := q.Get("page"); v != "" {
		filters.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("page_size"); v != "" {
		filters.PageSize, _ = strconv.Atoi(v)
	}

	result, err := h.service.Timeline(r.Context(), actor.CompanyID, filters)
	if err != nil {
		h.logger.Error("activity timeline", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
