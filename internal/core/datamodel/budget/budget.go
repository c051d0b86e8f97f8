package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget holds one department's figures for a fiscal year. SpentAmount is
// maintained outside this service.
type Budget struct {
	ID           int64           `gorm:"primaryKey"`
	Department   string          `gorm:"column:department;not null;uniqueIndex:idx_budget_department_year"`
	FiscalYear   int             `gorm:"column:fiscal_year;not null;uniqueIndex:idx_budget_department_year"`
	BudgetAmount decimal.Decimal `gorm:"column:budget_amount;type:numeric(16,2);not null"`
	SpentAmount  decimal.Decimal `gorm:"column:spent_amount;type:numeric(16,2);not null"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}
