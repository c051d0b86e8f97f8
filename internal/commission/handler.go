package commission

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	Report(ctx context.Context, d access.Decision, r Range) (*Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// GetCommission handles GET /commission
func (h *Handler) GetCommission(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	rng, err := ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		h.HandleError(w, errors.NewValidationFieldError("range", "range must be one of: 3months, 6months, 1year", errors.ErrCodeValidationFailed))
		return
	}

	report, err := h.Service.Report(r.Context(), d, rng)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}
