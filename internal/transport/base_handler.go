package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", appErr.StatusCode, "code", appErr.Code, "error", appErr)
	} else {
		h.Logger.Warn("http error", "status", appErr.StatusCode, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, appErr.StatusCode, appErr)
}

// WriteDenied writes the {message} body for a denied access decision.
func (h *BaseHandler) WriteDenied(w http.ResponseWriter, d access.Decision) {
	h.WriteAppError(w, internal.FromDecision(d))
}

// HandleError maps service errors onto the response taxonomy. Anything
// unrecognised is a dependency failure and gets a generic message.
func (h *BaseHandler) HandleError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteAppError(w, internal.NewDependencyError("internal server error", err))
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// DecodeJSON decodes the request body, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// ParsePagination reads limit/offset, clamping limit to (0, MaxLimit].
func (h *BaseHandler) ParsePagination(r *http.Request) (limit, offset int) {
	limit = DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= MaxLimit {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// ParseFilters reads the caller-supplied list filters shared by the
// scoped list endpoints.
func (h *BaseHandler) ParseFilters(r *http.Request) (access.Filters, error) {
	q := r.URL.Query()
	f := access.Filters{
		Status:     q.Get("status"),
		Department: q.Get("department"),
	}
	for _, p := range []struct {
		key string
		dst **time.Time
		end bool
	}{{"from", &f.From, false}, {"to", &f.To, true}} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw, p.end)
		if err != nil {
			return f, internal.NewValidationFieldError(p.key, p.key+" must be a date (YYYY-MM-DD) or RFC3339 timestamp", internal.ErrCodeInvalidDate)
		}
		*p.dst = &t
	}
	return f, nil
}

// parseDate reads an RFC3339 timestamp as given. A bare date used as an
// exclusive end bound moves to the following midnight so the whole day
// is included.
func parseDate(raw string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return t, err
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// CallerAndDecision fetches what the auth and authorization middleware
// attached to the request.
func (h *BaseHandler) CallerAndDecision(r *http.Request) (access.Caller, access.Decision, error) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		return access.Caller{}, access.Decision{}, internal.NewDenialError(access.ReasonNoToken, "No token provided")
	}
	d, ok := internal.DecisionFromContext(r.Context())
	if !ok {
		return caller, access.Decision{}, errors.New("authorization decision missing from request context")
	}
	return caller, d, nil
}
