package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	budgetDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/budget"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) ForYear(ctx context.Context, where sq.Sqlizer, fiscalYear int) ([]*budgetDatamodel.Budget, error) {
	clause, args, err := sq.And{where, sq.Eq{"fiscal_year": fiscalYear}}.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build budget scope: %w", err)
	}

	var rows []*budgetDatamodel.Budget
	if err := r.db.WithContext(ctx).Where(clause, args...).Order("department").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return rows, nil
}
