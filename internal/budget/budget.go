package budget

import (
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/shopspring/decimal"
)

const (
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	warnAt     = decimal.NewFromInt(75)
	criticalAt = decimal.NewFromInt(90)
	hundred    = decimal.NewFromInt(100)
)

// Columns has no owner: self scope reads the caller's department figures.
var Columns = access.Columns{Department: "department"}

type Figures struct {
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization decimal.Decimal `json:"utilization"`
}

type DepartmentFigures struct {
	Department string `json:"department"`
	Figures
}

type Summary struct {
	FiscalYear int `json:"fiscal_year"`
	Figures
	Departments []DepartmentFigures `json:"departments,omitempty"`
}

func NewFigures(budget, spent decimal.Decimal) Figures {
	f := Figures{
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Sub(spent),
		Utilization: decimal.Zero,
	}
	if budget.IsPositive() {
		f.Utilization = spent.Div(budget).Mul(hundred).Round(1)
	}
	return f
}

// AlertPriority returns "" below the warning threshold.
func (f Figures) AlertPriority() string {
	switch {
	case f.Utilization.GreaterThanOrEqual(criticalAt):
		return PriorityHigh
	case f.Utilization.GreaterThanOrEqual(warnAt):
		return PriorityMedium
	}
	return ""
}
