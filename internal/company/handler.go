package company

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Handler exposes tenant configuration over HTTP.
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

// MountRoutes attaches company routes. Reads are open to any authenticated
// role; mutation is admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings", h.getSettings)
	r.Get("/checklist", h.listChecklist)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin))
		r.Patch("/settings", h.updateSettings)
		r.Post("/settings/logo", h.uploadLogo)
		r.Post("/checklist", h.createChecklistItem)
		r.Patch("/checklist/{id}", h.updateChecklistItem)
		r.Delete("/checklist/{id}", h.deleteChecklistItem)
	})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	settings, err := h.service.Settings(r.Context(), actor.CompanyID)
	if err != nil {
		h.logger.Error("get settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req UpdateSettingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	settings, err := h.service.UpdateSettings(r.Context(), actor.CompanyID, req)
	if err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "logo file required")
		return
	}
	defer file.Close()

	url, err := h.service.UploadLogo(r.Context(), actor.CompanyID,
		filepath.Ext(header.Filename), file)
	if err != nil {
		h.logger.Error("upload logo", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) listChecklist(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.service.Checklist(r.Context(), actor.CompanyID, activeOnly)
	if err != nil {
		h.logger.Error("list checklist", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) createChecklistItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req CreateChecklistItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.CreateChecklistItem(r.Context(), actor.CompanyID, req)
	if err != nil {
		h.logger.Error("create checklist item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateChecklistItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	var req UpdateChecklistItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.UpdateChecklistItem(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		h.logger.Error("update checklist item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	if err := h.service.DeleteChecklistItem(r.Context(), actor.CompanyID, id); err != nil {
		h.logger.Error("delete checklist item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
