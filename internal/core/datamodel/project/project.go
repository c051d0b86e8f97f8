package project

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Department  string          `gorm:"column:department;not null;index"`
	Budget      decimal.Decimal `gorm:"column:budget;type:numeric(14,2);not null"`
	Status      string          `gorm:"column:status;not null;default:active"`
	CreatedBy   int64           `gorm:"column:created_by;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
