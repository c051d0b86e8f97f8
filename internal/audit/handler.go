package audit

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Recorder *Recorder
}

func NewHandler(base *transport.BaseHandler, rec *Recorder) *Handler {
	return &Handler{BaseHandler: base, Recorder: rec}
}

// ListLogs handles GET /audit-logs, newest first.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.ParsePagination(r)
	filter := ListFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.WriteAppError(w, internal.NewValidationFieldError("user_id", "invalid user_id", internal.ErrCodeValidationFailed))
			return
		}
		filter.UserID = id
	}

	resp, err := h.Recorder.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
