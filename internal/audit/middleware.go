package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/pkg/logger"
)

const writeTimeout = 3 * time.Second

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Middleware records "<METHOD> <uri>" for the authenticated caller once the
// handler has returned. It must sit behind the authorization middleware so
// only allowed requests are recorded. A failed write is logged and the
// response is left alone.
func Middleware(rec *Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if !mutating(r.Method) {
				return
			}
			ctx := r.Context()
			d, ok := internal.DecisionFromContext(ctx)
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
			defer cancel()

			action := r.Method + " " + r.URL.RequestURI()
			if err := rec.Record(writeCtx, d.Caller.ID, action); err != nil {
				logger.FromOr(ctx, rec.logger).ErrorContext(ctx, "audit write failed",
					"user_id", d.Caller.ID,
					"action", action,
					"error", err)
			}
		})
	}
}
