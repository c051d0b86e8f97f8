package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/finance-ops/internal/commission"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CommissionRepository struct {
	db *sqlx.DB
}

func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

type lineRow struct {
	UserID           int64           `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	CommissionAmount decimal.Decimal `db:"commission_amount"`
	InvoiceDate      time.Time       `db:"invoice_date"`
}

func (r *CommissionRepository) ApprovedLines(ctx context.Context, where sq.Sqlizer) ([]commission.Line, error) {
	query, args, err := sq.Select("user_id", "amount", "commission_amount", "invoice_date").
		From("invoices").
		Where(where).
		OrderBy("invoice_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build commission query: %w", err)
	}

	var rows []lineRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select commission lines: %w", err)
	}

	lines := make([]commission.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, commission.Line(row))
	}
	return lines, nil
}
