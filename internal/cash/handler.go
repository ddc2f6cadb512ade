package cash

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/shared"
)

// Handler exposes cash collection review over HTTP. Everything here is
// admin or manager territory; cleaners see outcomes through notifications.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    auth.Middleware
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, authz: authz}
}

// MountRoutes attaches cash routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Get("/cash", h.list)
		r.Get("/cash/{id}", h.get)
		r.Post("/cash/{id}/approve", h.approve)
		r.Post("/cash/{id}/dispute", h.dispute)
		r.Get("/receipts", h.listReceipts)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	req := ListCollectionsRequest{
		CompanyID: actor.CompanyID,
		Limit:     paging.PerPage,
		Offset:    paging.Offset(),
	}
	if v := q.Get("status"); v != "" {
		status := Status(v)
		req.Status = &status
	}
	if v := q.Get("cleaner_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CleanerID = &id
		}
	}

	collections, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list cash collections", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"collections": collections,
		"paging":      shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Approve(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) dispute(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req DisputeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Dispute(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	receipts, total, err := h.service.ListReceipts(r.Context(), actor.CompanyID, paging.PerPage, paging.Offset())
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"receipts": receipts,
		"paging":   shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid collection id")
		return 0, false
	}
	return id, true
}
