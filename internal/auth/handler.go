package auth

import (
	"net/http"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/pkg/logger"
)

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout only checks the token; access tokens are short lived and the
// client discards them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, internal.NewDenialError(access.ReasonNoToken, "No token provided"))
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteAppError(w, internal.NewDenialError(access.ReasonInvalidToken, "Invalid token"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// AuthMiddleware verifies the bearer token and stores the caller record in
// the request context. It never consults the database.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.NewDenialError(access.ReasonNoToken, "No token provided"))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			logger.FromOr(ctx, h.Logger).WarnContext(ctx, "token validation failed", "error", err)
			h.WriteAppError(w, internal.NewDenialError(access.ReasonInvalidToken, "Invalid token"))
			return
		}

		ctx = internal.ContextWithCaller(ctx, claims.Caller())
		ctx = logger.WithLogger(ctx, logger.FromOr(ctx, h.Logger).With("user_id", claims.UserID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
