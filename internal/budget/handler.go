package budget

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	Summary(ctx context.Context, d access.Decision) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// GetBudget handles GET /budget
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	summary, err := h.Service.Summary(r.Context(), d)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
