package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	appErrors "github.com/frahmantamala/finance-ops/internal"
	invoiceDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/invoice"
	"github.com/frahmantamala/finance-ops/internal/invoice"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*invoiceDatamodel.Invoice, int64, error) {
	clause, args, err := where.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build invoice scope: %w", err)
	}

	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&invoiceDatamodel.Invoice{}).Where(clause, args...)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	var rows []*invoiceDatamodel.Invoice
	if err := scoped().Order("invoice_date DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return rows, total, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*invoiceDatamodel.Invoice, error) {
	var row invoiceDatamodel.Invoice
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &row, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoiceDatamodel.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) Review(ctx context.Context, id int64, review invoice.Review) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&invoiceDatamodel.Invoice{}).
		Where("id = ? AND status = ?", id, invoice.StatusPending).
		Updates(map[string]interface{}{
			"status":           review.Status,
			"processed_by":     review.ReviewerID,
			"processed_at":     review.At,
			"rejection_reason": review.Reason,
		})
	if res.Error != nil {
		return false, fmt.Errorf("review invoice: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
