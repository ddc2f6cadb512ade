package estimates

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/shared"
)

// Handler exposes estimate pricing and lifecycle over HTTP.
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

// MountRoutes attaches estimate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/estimates/quote", h.quote)
	r.Get("/estimates", h.list)
	r.Get("/estimates/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Post("/estimates", h.create)
		r.Patch("/estimates/{id}", h.update)
		r.Post("/estimates/{id}/send", h.send)
		r.Post("/estimates/{id}/accept", h.accept)
		r.Post("/estimates/{id}/reject", h.reject)
	})
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req QuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	quote, err := h.service.Quote(r.Context(), actor.CompanyID, req)
	if err != nil {
		h.logger.Error("quote", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	req := ListEstimatesRequest{
		CompanyID: actor.CompanyID,
		Search:    q.Get("q"),
		Limit:     paging.PerPage,
		Offset:    paging.Offset(),
	}
	if v := q.Get("status"); v != "" {
		status := Status(v)
		req.Status = &status
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list estimates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"estimates": result,
		"paging":    shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	estimate, err := h.service.Get(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, estimate)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req CreateEstimateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	estimate, err := h.service.Create(r.Context(), actor.CompanyID, actor.ID, req)
	if err != nil {
		h.logger.Error("create estimate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, estimate)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateEstimateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	estimate, err := h.service.Update(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		h.logger.Error("update estimate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, estimate)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Send)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Accept)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Reject)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, companyID, id int64) (*Estimate, error)) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	estimate, err := op(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, estimate)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid estimate id")
		return 0, false
	}
	return id, true
}
