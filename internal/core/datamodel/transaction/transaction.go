package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID            int64           `gorm:"primaryKey"`
	UserID        int64           `gorm:"column:user_id;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Category      string          `gorm:"column:category;not null"`
	Department    string          `gorm:"column:department;not null;index"`
	Justification string          `gorm:"column:justification;not null"`
	Status        string          `gorm:"column:status;not null;default:pending"`
	ProcessedBy   *int64          `gorm:"column:processed_by"`
	ProcessedAt   *time.Time      `gorm:"column:processed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
