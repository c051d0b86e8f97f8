package access

import (
	"fmt"
	"strings"
)

type Grade int

const (
	GradeEmployee    Grade = 1
	GradeManager     Grade = 2
	GradeFinanceHead Grade = 3
)

func (g Grade) Valid() bool {
	return g >= GradeEmployee && g <= GradeFinanceHead
}

func (g Grade) String() string {
	return fmt.Sprintf("G%d", int(g))
}

// Caller is the verified identity every decision is made for.
// Admin accounts carry no grade.
type Caller struct {
	ID         int64  `json:"id"`
	IsAdmin    bool   `json:"is_admin"`
	Grade      Grade  `json:"grade"`
	Department string `json:"department"`
}

type Resource string

const (
	ResourceTransactions  Resource = "transactions"
	ResourceInvoices      Resource = "invoices"
	ResourceBudget        Resource = "budget"
	ResourceCommission    Resource = "commission"
	ResourceProjects      Resource = "projects"
	ResourceUsers         Resource = "users"
	ResourceAuditLogs     Resource = "audit-logs"
	ResourceNotifications Resource = "notifications"
	ResourceProfile       Resource = "profile"
)

type Action string

const (
	ActionList         Action = "list"
	ActionRead         Action = "read"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionUpdateStatus Action = "update-status"
	ActionChangeRole   Action = "change-role"
	ActionDelete       Action = "delete"
)

type Scope string

const (
	ScopeUnset      Scope = ""
	ScopeSelf       Scope = "self"
	ScopeDepartment Scope = "department"
	ScopeAll        Scope = "all"
)

// ParseScope normalises the query token. "team" is an alias of "department".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ScopeUnset, nil
	case "self":
		return ScopeSelf, nil
	case "department", "team":
		return ScopeDepartment, nil
	case "all":
		return ScopeAll, nil
	}
	return ScopeUnset, fmt.Errorf("invalid scope %q", s)
}

// DefaultScope is the scope used when a graded caller asks for none.
func DefaultScope(g Grade) Scope {
	switch g {
	case GradeManager:
		return ScopeDepartment
	case GradeFinanceHead:
		return ScopeAll
	default:
		return ScopeSelf
	}
}

type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNoToken             Reason = "no-token"
	ReasonInvalidToken        Reason = "invalid-token"
	ReasonInsufficientRole    Reason = "insufficient-role"
	ReasonInsufficientGrade   Reason = "insufficient-grade"
	ReasonSelfActionForbidden Reason = "self-action-forbidden"
	ReasonScopeMismatch       Reason = "scope-mismatch"
	ReasonInvalidRequest      Reason = "invalid-request"
)

// Authentication reports whether the reason belongs to the 401 family.
func (r Reason) Authentication() bool {
	return r == ReasonNoToken || r == ReasonInvalidToken
}

// Decision is the outcome of a single evaluation.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Message  string
	Caller   Caller
	Resource Resource
	Action   Action
	Scope    Scope
}

func allow(c Caller, res Resource, act Action, scope Scope) Decision {
	return Decision{Allowed: true, Caller: c, Resource: res, Action: act, Scope: scope}
}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// DeniedError carries a denial out of code paths that return errors.
type DeniedError struct {
	Reason  Reason
	Message string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied (%s): %s", e.Reason, e.Message)
}

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason, Message: d.Message}
}
