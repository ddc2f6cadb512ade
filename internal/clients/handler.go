package clients

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

// Handler exposes client management over HTTP.
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

// MountRoutes attaches client routes. Cleaners can read; admins and managers
// mutate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clients", h.list)
	r.Get("/clients/{id}", h.get)
	r.Get("/clients/{id}/locations", h.listLocations)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Post("/clients", h.create)
		r.Patch("/clients/{id}", h.update)
		r.Post("/clients/{id}/locations", h.addLocation)
		r.Delete("/clients/{id}/locations/{locationID}", h.removeLocation)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	req := ListClientsRequest{
		CompanyID: actor.CompanyID,
		Search:    q.Get("q"),
		Limit:     paging.PerPage,
		Offset:    paging.Offset(),
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		req.Active = &active
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list clients", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"clients": result,
		"paging":  shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	client, err := h.service.Get(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req CreateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	client, err := h.service.Create(r.Context(), actor.CompanyID, req)
	if err != nil {
		h.logger.Error("create client", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	var req UpdateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	client, err := h.service.Update(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		h.logger.Error("update client", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	locations, err := h.service.Locations(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"locations": locations})
}

func (h *Handler) addLocation(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	var req CreateLocationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	loc, err := h.service.AddLocation(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		h.logger.Error("add location", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, loc)
}

func (h *Handler) removeLocation(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	clientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	locationID, err := strconv.ParseInt(chi.URLParam(r, "locationID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid location id")
		return
	}
	if err := h.service.RemoveLocation(r.Context(), actor.CompanyID, clientID, locationID); err != nil {
		h.logger.Error("remove location", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
