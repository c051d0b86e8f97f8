package summary

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	Totals(ctx context.Context, d access.Decision, f access.Filters) ([]Total, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// GetSummary handles GET /summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	totals, err := h.Service.Totals(r.Context(), d, filters)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, totals)
}
