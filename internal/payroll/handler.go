package payroll

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Handler exposes payroll over HTTP. Everything here is admin-only.
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

// MountRoutes attaches payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin))
		r.Get("/payroll/preview", h.preview)
		r.Post("/payroll/settle", h.settle)
		r.Get("/payroll/profiles", h.listProfiles)
		r.Put("/payroll/profiles/{cleanerID}", h.upsertProfile)
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM-DD")
		return
	}
	if !to.After(from) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be after from")
		return
	}
	// End of period is inclusive of the named day.
	to = to.AddDate(0, 0, 1)

	preview, err := h.service.Preview(r.Context(), actor.CompanyID, from, to)
	if err != nil {
		h.logger.Error("payroll preview", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, preview)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req SettleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	count, err := h.service.Settle(r.Context(), actor.CompanyID, req)
	if err != nil {
		h.logger.Error("payroll settle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"settled": count})
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	profiles, err := h.service.Profiles(r.Context(), actor.CompanyID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (h *Handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	cleanerID, err := strconv.ParseInt(chi.URLParam(r, "cleanerID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid cleaner id")
		return
	}
	var req UpsertProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	profile, err := h.service.UpsertProfile(r.Context(), actor.CompanyID, cleanerID, req)
	if err != nil {
		h.logger.Error("upsert payroll profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
