package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/finance-ops/internal/audit"
	auditDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/audit"
	"github.com/jmoiron/sqlx"
)

// AuditRepository writes through sqlx so the append path stays a single
// plain INSERT; placeholders are rebound for the active driver.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, log *auditDatamodel.AuditLog) error {
	query := r.db.Rebind(`INSERT INTO audit_logs (user_id, action, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, log.UserID, log.Action, log.CreatedAt); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]auditDatamodel.AuditLog, int64, error) {
	where := sq.And{}
	if filter.UserID > 0 {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("audit_logs").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countSQL), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	listSQL, listArgs, err := sq.Select("id", "user_id", "action", "created_at").
		From("audit_logs").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	logs := []auditDatamodel.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(listSQL), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
