package schedule

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/objectstore"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/shared"
)

// Handler exposes scheduling and completion over HTTP.
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

// MountRoutes attaches job routes. Cleaners can read the schedule, start,
// photograph, and complete their visits; creating, moving, and cancelling
// jobs needs admin or manager.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/jobs", h.list)
	r.Get("/jobs/{id}", h.get)
	r.Post("/jobs/{id}/start", h.start)
	r.Post("/jobs/{id}/photos", h.uploadPhoto)
	r.Post("/jobs/{id}/complete", h.complete)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Post("/jobs", h.create)
		r.Patch("/jobs/{id}/reschedule", h.reschedule)
		r.Patch("/jobs/{id}/assign", h.assign)
		r.Post("/jobs/{id}/cancel", h.cancel)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	req := ListJobsRequest{
		CompanyID: actor.CompanyID,
		Limit:     paging.PerPage,
		Offset:    paging.Offset(),
	}
	if v := q.Get("status"); v != "" {
		status := Status(v)
		req.Status = &status
	}
	if v := q.Get("client_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.ClientID = &id
		}
	}
	if v := q.Get("cleaner_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CleanerID = &id
		}
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			req.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1)
			req.To = &end
		}
	}

	jobs, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list jobs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"jobs":   jobs,
		"paging": shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	job, err := h.service.Get(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req CreateJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	job, err := h.service.Create(r.Context(), actor.CompanyID, actor.ID, req)
	if err != nil {
		h.logger.Error("create job", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, job)
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	job, err := h.service.Reschedule(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	job, err := h.service.Assign(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Start)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Cancel)
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(objectstore.MaxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "photo file is required")
		return
	}
	defer file.Close()

	phase := r.FormValue("phase")
	ext := filepath.Ext(header.Filename)
	job, err := h.service.AttachPhoto(r.Context(), actor.CompanyID, id, phase, ext, file)
	if err != nil {
		h.logger.Error("upload job photo", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req CompleteJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	job, err := h.service.Complete(r.Context(), actor.CompanyID, id, req)
	if err != nil {
		h.logger.Error("complete job", slog.Int64("job_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, companyID, id int64) (*Job, error)) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	job, err := op(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid job id")
		return 0, false
	}
	return id, true
}
