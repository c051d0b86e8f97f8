package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID               int64           `gorm:"primaryKey"`
	InvoiceNumber    string          `gorm:"column:invoice_number;uniqueIndex;not null"`
	UserID           int64           `gorm:"column:user_id;not null;index"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Description      string          `gorm:"column:description;not null"`
	Category         string          `gorm:"column:category;not null"`
	Department       string          `gorm:"column:department;not null;index"`
	CommissionRate   decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:numeric(14,2);not null"`
	Status           string          `gorm:"column:status;not null;default:pending"`
	InvoiceDate      time.Time       `gorm:"column:invoice_date;not null"`
	DueDate          *time.Time      `gorm:"column:due_date"`
	RejectionReason  *string         `gorm:"column:rejection_reason"`
	ProcessedBy      *int64          `gorm:"column:processed_by"`
	ProcessedAt      *time.Time      `gorm:"column:processed_at"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Invoice) TableName() string {
	return "invoices"
}
