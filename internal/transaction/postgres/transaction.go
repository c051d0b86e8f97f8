package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	appErrors "github.com/frahmantamala/finance-ops/internal"
	transactionDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*transactionDatamodel.Transaction, int64, error) {
	clause, args, err := where.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build transaction scope: %w", err)
	}

	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).Where(clause, args...)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var rows []*transactionDatamodel.Transaction
	if err := scoped().Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return rows, total, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	var row transactionDatamodel.Transaction
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &row, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Review(ctx context.Context, id int64, status string, reviewerID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("id = ? AND status = ?", id, "pending").
		Updates(map[string]interface{}{
			"status":       status,
			"processed_by": reviewerID,
			"processed_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("review transaction: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
