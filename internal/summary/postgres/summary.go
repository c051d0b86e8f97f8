package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/finance-ops/internal/summary"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

type totalRow struct {
	Department string          `db:"department"`
	Category   string          `db:"category"`
	Total      decimal.Decimal `db:"total"`
	Count      int64           `db:"count"`
}

func (r *SummaryRepository) Totals(ctx context.Context, where sq.Sqlizer) ([]summary.Total, error) {
	query, args, err := sq.Select("department", "category", "COALESCE(SUM(amount), 0) AS total", "COUNT(*) AS count").
		From("transactions").
		Where(where).
		GroupBy("department", "category").
		OrderBy("department", "category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}

	var rows []totalRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select transaction totals: %w", err)
	}

	totals := make([]summary.Total, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, summary.Total(row))
	}
	return totals, nil
}
