package notify

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/shared"
)

// Handler exposes the caller's notification feed.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches notification routes. Every route is scoped to the
// authenticated user; there is no cross-user read.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Post("/notifications/{id}/read", h.markRead)
	r.Post("/notifications/read_all", h.markAllRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)
	unreadOnly := q.Get("unread") == "true"

	items, total, err := h.service.ListMine(r.Context(), actor.CompanyID, actor.ID,
		unreadOnly, paging.PerPage, paging.Offset())
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"paging":        shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid notification id")
		return
	}
	if err := h.service.MarkRead(r.Context(), actor.CompanyID, actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	count, err := h.service.MarkAllRead(r.Context(), actor.CompanyID, actor.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"marked_read": count})
}
