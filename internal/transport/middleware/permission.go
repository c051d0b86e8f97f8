package middleware

import (
	"net/http"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/go-chi/chi"
)

// Authorizer runs the access evaluator once per request and attaches the
// allowed decision to the request context.
type Authorizer struct {
	*transport.BaseHandler
	evaluator *access.Evaluator
}

func NewAuthorizer(base *transport.BaseHandler, evaluator *access.Evaluator) *Authorizer {
	return &Authorizer{BaseHandler: base, evaluator: evaluator}
}

func (a *Authorizer) Require(resource access.Resource, action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req := access.Request{Resource: resource, Action: action}

			if caller, ok := internal.CallerFromContext(ctx); ok {
				req.Caller = &caller
			}

			scope, err := access.ParseScope(r.URL.Query().Get("scope"))
			if err != nil {
				a.WriteAppError(w, internal.NewDenialError(access.ReasonInvalidRequest, err.Error()))
				return
			}
			req.Scope = scope

			if resource == access.ResourceUsers {
				if id := chi.URLParam(r, "id"); id != "" {
					targetID, err := a.ParseIDParam(r, "id")
					if err != nil {
						a.HandleError(w, err)
						return
					}
					req.TargetUserID = targetID
				}
			}

			d := a.evaluator.Decide(req)
			if !d.Allowed {
				var callerID int64
				if req.Caller != nil {
					callerID = req.Caller.ID
				}
				logger.From(ctx).WarnContext(ctx, "access denied",
					"user_id", callerID,
					"resource", resource,
					"action", action,
					"scope", scope,
					"reason", d.Reason)
				a.WriteDenied(w, d)
				return
			}

			next.ServeHTTP(w, r.WithContext(internal.ContextWithDecision(ctx, d)))
		})
	}
}
