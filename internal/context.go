package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
)

type ctxKey string

const (
	ContextCallerKey   ctxKey = "caller"
	ContextDecisionKey ctxKey = "decision"
)

func ContextWithCaller(ctx context.Context, c access.Caller) context.Context {
	return context.WithValue(ctx, ContextCallerKey, c)
}

func CallerFromContext(ctx context.Context) (access.Caller, bool) {
	if ctx == nil {
		return access.Caller{}, false
	}
	c, ok := ctx.Value(ContextCallerKey).(access.Caller)
	return c, ok
}

func ContextWithDecision(ctx context.Context, d access.Decision) context.Context {
	return context.WithValue(ctx, ContextDecisionKey, d)
}

// DecisionFromContext returns the decision the authorization middleware
// attached to the request. Only allowed decisions are ever attached.
func DecisionFromContext(ctx context.Context) (access.Decision, bool) {
	if ctx == nil {
		return access.Decision{}, false
	}
	d, ok := ctx.Value(ContextDecisionKey).(access.Decision)
	return d, ok && d.Allowed
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
