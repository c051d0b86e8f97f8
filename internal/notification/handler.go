package notification

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64) ([]Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
	Stats(ctx context.Context, userID int64) (Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

// ListNotifications handles GET /notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	items, err := h.Service.List(r.Context(), caller.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Notifications: items, Unread: Summarize(items).Unread})
}

// MarkRead handles PATCH /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.Service.MarkRead(r.Context(), caller.ID, chi.URLParam(r, "id")); err != nil {
		h.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /notifications/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	stats, err := h.Service.Stats(r.Context(), caller.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
