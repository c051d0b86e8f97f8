package project

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, d access.Decision, f access.Filters, limit, offset int) (*ListResponse, error)
	Create(ctx context.Context, d access.Decision, dto CreateProjectDTO) (*Project, error)
	Update(ctx context.Context, d access.Decision, id int64, dto UpdateProjectDTO) (*Project, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	filters, err := h.ParseFilters(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	limit, offset := h.ParsePagination(r)

	resp, err := h.Service.List(r.Context(), d, filters, limit, offset)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto CreateProjectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), d, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto UpdateProjectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), d, id, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}
