package access

import (
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var (
	ErrNotAllowed      = errors.New("access: predicate requested for a denied decision")
	ErrMissingColumn   = errors.New("access: resource has no column for the decided scope")
	ErrEmptyDepartment = errors.New("access: department scope without a department")
)

// Columns names the storage columns a resource exposes to scoping.
// Owner may be empty for resources without a per-user owner (budget), in
// which case self scope narrows to the caller's department.
type Columns struct {
	Owner      string
	Department string
	Status     string
	Date       string
}

// Filters are caller-supplied narrowing options. They can only ever be
// ANDed onto the authorization predicate.
type Filters struct {
	Status     string
	Department string
	From       *time.Time
	To         *time.Time
}

// BuildPredicate turns an allowed decision into the storage filter that
// enforces it. ToSql on the result yields ?-placeholder SQL.
func BuildPredicate(d Decision, cols Columns) (sq.Sqlizer, error) {
	if !d.Allowed {
		return nil, ErrNotAllowed
	}

	switch d.Scope {
	case ScopeSelf:
		if cols.Owner != "" {
			return sq.Eq{cols.Owner: d.Caller.ID}, nil
		}
		return departmentPredicate(d.Caller, cols)
	case ScopeDepartment:
		return departmentPredicate(d.Caller, cols)
	case ScopeAll:
		return sq.And{}, nil
	}
	return nil, ErrNotAllowed
}

func departmentPredicate(c Caller, cols Columns) (sq.Sqlizer, error) {
	if cols.Department == "" {
		return nil, ErrMissingColumn
	}
	if c.Department == "" {
		return nil, ErrEmptyDepartment
	}
	return sq.Eq{cols.Department: c.Department}, nil
}

// Compose ANDs caller filters onto the authorization predicate. A
// department filter is honoured only under scope=all; under narrower
// scopes it must match the caller's own department or the request is
// refused with scope-mismatch.
func Compose(d Decision, cols Columns, f Filters) (sq.Sqlizer, error) {
	pred, err := BuildPredicate(d, cols)
	if err != nil {
		return nil, err
	}

	conds := sq.And{pred}

	if f.Department != "" {
		if d.Scope == ScopeAll {
			if cols.Department == "" {
				return nil, ErrMissingColumn
			}
			conds = append(conds, sq.Eq{cols.Department: f.Department})
		} else if f.Department != d.Caller.Department {
			return nil, &DeniedError{
				Reason:  ReasonScopeMismatch,
				Message: "Department filter is outside your scope",
			}
		}
	}

	if f.Status != "" && cols.Status != "" {
		conds = append(conds, sq.Eq{cols.Status: f.Status})
	}
	if f.From != nil && cols.Date != "" {
		conds = append(conds, sq.GtOrEq{cols.Date: *f.From})
	}
	if f.To != nil && cols.Date != "" {
		conds = append(conds, sq.Lt{cols.Date: *f.To})
	}

	return conds, nil
}
