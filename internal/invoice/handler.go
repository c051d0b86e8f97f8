package invoice

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, d access.Decision, f access.Filters, limit, offset int) (*ListResponse, error)
	Create(ctx context.Context, d access.Decision, dto CreateInvoiceDTO) (*Invoice, error)
	UpdateStatus(ctx context.Context, d access.Decision, id int64, dto UpdateStatusDTO) (*Invoice, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// ListInvoices handles GET /invoices
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
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

// CreateInvoice handles POST /invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto CreateInvoiceDTO
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

// UpdateStatus handles PATCH /invoices/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), d, id, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}
