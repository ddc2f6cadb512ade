package billing

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/shared"
)

// Handler exposes invoicing over HTTP.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	validate    *validator.Validate
	authz       auth.Middleware
	idempotency *shared.IdempotencyStore
}

// NewHandler constructs the handler. idempotency may be nil, in which case
// Idempotency-Key headers on batch generation are ignored.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate,
	authz auth.Middleware, idempotency *shared.IdempotencyStore) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, authz: authz, idempotency: idempotency}
}

// MountRoutes attaches invoice routes. Batch generation is admin-only;
// reads and single-invoice lifecycle need admin or manager.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Get("/invoices", h.list)
		r.Get("/invoices/{id}", h.get)
		r.Get("/invoices/{id}/pdf", h.pdf)
		r.Post("/jobs/{id}/invoice", h.generateForJob)
		r.Post("/invoices/{id}/send", h.send)
		r.Post("/invoices/{id}/pay", h.markPaid)
		r.Post("/invoices/{id}/cancel", h.cancel)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin))
		r.Get("/invoices/billable", h.billable)
		r.Post("/invoices/generate", h.generateBatch)
	})
}

// billable serves the review list a manual batch selection is made from.
func (h *Handler) billable(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM-DD")
			return
		}
		from = &day
	}
	if v := r.URL.Query().Get("to"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM-DD")
			return
		}
		// Inclusive day bound.
		end := day.AddDate(0, 0, 1)
		to = &end
	}

	jobs, err := h.service.Billable(r.Context(), actor.CompanyID, from, to)
	if err != nil {
		h.logger.Error("list billable jobs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	paging := shared.NewPagination(page, perPage, 0)

	req := ListInvoicesRequest{
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

	invoices, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoices": invoices,
		"paging":   shared.NewPagination(paging.Page, paging.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.Get(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	pdf, err := h.service.InvoicePDF(r.Context(), actor.CompanyID, id)
	if err != nil {
		h.logger.Error("render invoice pdf", slog.Int64("invoice_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=invoice.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) generateForJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	jobID, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, created, err := h.service.GenerateForJob(r.Context(), actor.CompanyID, jobID)
	if err != nil {
		h.logger.Error("generate invoice", slog.Int64("job_id", jobID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, inv)
}

func (h *Handler) generateBatch(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	var req GenerateBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" && h.idempotency != nil {
		inserted, err := h.idempotency.InsertIfAbsent(r.Context(), key, "billing")
		if err != nil {
			h.logger.Error("record idempotency key", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		if !inserted {
			httpx.Problem(w, http.StatusConflict, "Conflict",
				"a batch with this idempotency key was already processed")
			return
		}
	}

	summary, err := h.service.GenerateBatch(r.Context(), actor.CompanyID, req)
	if err != nil {
		// Release the key so the caller can retry the failed batch.
		if key != "" && h.idempotency != nil {
			if delErr := h.idempotency.Delete(r.Context(), key); delErr != nil {
				h.logger.Warn("release idempotency key", slog.Any("error", delErr))
			}
		}
		h.logger.Error("generate invoice batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Send)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.MarkPaid)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Cancel)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, companyID, id int64) (*Invoice, error)) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, err := op(r.Context(), actor.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}
