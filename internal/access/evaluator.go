package access

import "fmt"

type Request struct {
	Caller       *Caller
	Resource     Resource
	Action       Action
	Scope        Scope
	TargetUserID int64
}

type policy int

const (
	policyGraded policy = iota
	policyAdminOnly
	policySelfService
)

var resourcePolicies = map[Resource]policy{
	ResourceTransactions:  policyGraded,
	ResourceInvoices:      policyGraded,
	ResourceBudget:        policyGraded,
	ResourceCommission:    policyGraded,
	ResourceProjects:      policyGraded,
	ResourceUsers:         policyAdminOnly,
	ResourceAuditLogs:     policyAdminOnly,
	ResourceNotifications: policySelfService,
	ResourceProfile:       policySelfService,
}

const (
	msgNoToken        = "No token provided"
	msgAdminsOnly     = "Admins only"
	msgAdminsBlocked  = "Admins cannot access this resource"
	msgSelfRole       = "You cannot change your own role"
	msgSelfDelete     = "You cannot delete your own account"
	msgNoDepartment   = "Department is required for department scope"
	msgUseScopeAll    = "Use scope=all for organisation-wide data"
	msgCreateBlocked  = "Only employees and managers can create records"
	msgUnknownRequest = "Unsupported operation for this resource"
)

// Evaluator decides whether a caller may perform an action on a resource
// and, when allowed, which slice of the data it may touch. It holds no
// state and never performs I/O.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Decide(req Request) Decision {
	if req.Caller == nil {
		return deny(ReasonNoToken, msgNoToken)
	}
	c := *req.Caller

	if req.Resource == ResourceUsers {
		if d := CheckSelfAction(c, req.TargetUserID, req.Action); !d.Allowed {
			return d
		}
	}

	if !c.IsAdmin && !c.Grade.Valid() {
		return deny(ReasonInvalidRequest, "Caller has no valid grade")
	}

	p, ok := resourcePolicies[req.Resource]
	if !ok {
		return deny(ReasonInvalidRequest, fmt.Sprintf("Unknown resource %q", req.Resource))
	}

	switch p {
	case policyAdminOnly:
		if !c.IsAdmin {
			return deny(ReasonInsufficientRole, msgAdminsOnly)
		}
		return allow(c, req.Resource, req.Action, ScopeAll)
	case policySelfService:
		return allow(c, req.Resource, req.Action, ScopeSelf)
	}

	if c.IsAdmin {
		return deny(ReasonInsufficientRole, msgAdminsBlocked)
	}

	switch req.Action {
	case ActionList, ActionRead:
		return e.decideRead(c, req)
	case ActionCreate:
		return e.decideCreate(c, req)
	case ActionUpdate:
		if req.Resource != ResourceProjects {
			return deny(ReasonInsufficientRole, msgUnknownRequest)
		}
		return e.decideProjectWrite(c, req)
	case ActionUpdateStatus:
		if req.Resource != ResourceTransactions && req.Resource != ResourceInvoices {
			return deny(ReasonInsufficientRole, msgUnknownRequest)
		}
		if c.Grade != GradeFinanceHead {
			return deny(ReasonInsufficientGrade, gradeOnly(GradeFinanceHead))
		}
		return allow(c, req.Resource, req.Action, ScopeAll)
	}

	return deny(ReasonInsufficientRole, msgUnknownRequest)
}

func (e *Evaluator) decideRead(c Caller, req Request) Decision {
	scope := req.Scope
	if scope == ScopeUnset {
		scope = DefaultScope(c.Grade)
	}

	switch scope {
	case ScopeSelf:
		return allow(c, req.Resource, req.Action, ScopeSelf)
	case ScopeDepartment:
		switch c.Grade {
		case GradeManager:
			if c.Department == "" {
				return deny(ReasonInvalidRequest, msgNoDepartment)
			}
			return allow(c, req.Resource, req.Action, ScopeDepartment)
		case GradeFinanceHead:
			return deny(ReasonScopeMismatch, msgUseScopeAll)
		default:
			return deny(ReasonInsufficientGrade, gradeOnly(GradeManager))
		}
	case ScopeAll:
		if c.Grade != GradeFinanceHead {
			return deny(ReasonInsufficientGrade, gradeOnly(GradeFinanceHead))
		}
		return allow(c, req.Resource, req.Action, ScopeAll)
	}

	return deny(ReasonInvalidRequest, fmt.Sprintf("Invalid scope %q", scope))
}

func (e *Evaluator) decideCreate(c Caller, req Request) Decision {
	switch req.Resource {
	case ResourceProjects:
		return e.decideProjectWrite(c, req)
	case ResourceTransactions, ResourceInvoices:
		if c.Grade == GradeFinanceHead {
			return deny(ReasonInsufficientRole, msgCreateBlocked)
		}
		if c.Department == "" {
			return deny(ReasonInvalidRequest, msgNoDepartment)
		}
		return allow(c, req.Resource, req.Action, ScopeDepartment)
	}
	return deny(ReasonInsufficientRole, msgUnknownRequest)
}

func (e *Evaluator) decideProjectWrite(c Caller, req Request) Decision {
	switch c.Grade {
	case GradeManager:
		if c.Department == "" {
			return deny(ReasonInvalidRequest, msgNoDepartment)
		}
		return allow(c, req.Resource, req.Action, ScopeDepartment)
	case GradeFinanceHead:
		return deny(ReasonInsufficientRole, "Project changes are made by department managers")
	default:
		return deny(ReasonInsufficientGrade, gradeOnly(GradeManager))
	}
}

// CheckSelfAction blocks a caller from changing their own role or
// deleting their own account. It applies to admins and graded users alike.
func CheckSelfAction(c Caller, targetUserID int64, action Action) Decision {
	if targetUserID == 0 || targetUserID != c.ID {
		return Decision{Allowed: true, Caller: c, Action: action}
	}
	switch action {
	case ActionChangeRole:
		return deny(ReasonSelfActionForbidden, msgSelfRole)
	case ActionDelete:
		return deny(ReasonSelfActionForbidden, msgSelfDelete)
	}
	return Decision{Allowed: true, Caller: c, Action: action}
}

func gradeOnly(g Grade) string {
	return fmt.Sprintf("Grade %d+ users only", int(g))
}
