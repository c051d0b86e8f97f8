package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
)

type ServiceAPI interface {
	Me(ctx context.Context, callerID int64) (*Profile, error)
	Get(ctx context.Context, id int64) (*Profile, error)
	UpdateProfilePicture(ctx context.Context, callerID int64, dto ProfilePictureDTO) (*Profile, error)
	List(ctx context.Context, limit, offset int) (*UserListResponse, error)
	Create(ctx context.Context, dto CreateUserDTO) (*Profile, error)
	Update(ctx context.Context, caller access.Caller, id int64, dto UpdateUserDTO) (*Profile, error)
	ChangeRole(ctx context.Context, caller access.Caller, id int64, dto ChangeRoleDTO) (*Profile, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.Me(r.Context(), caller.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfilePicture handles PATCH /users/me/profile-picture
func (h *Handler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto ProfilePictureDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.UpdateProfilePicture(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.ParsePagination(r)

	resp, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, profile)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.Update(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var dto ChangeRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	profile, err := h.Service.ChangeRole(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, _, err := h.CallerAndDecision(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		h.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
