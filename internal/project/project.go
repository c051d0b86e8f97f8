package project

import (
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	projectDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/project"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusActive, StatusOnHold, StatusCompleted, StatusCancelled}

var Columns = access.Columns{
	Owner:      "created_by",
	Department: "department",
	Status:     "status",
	Date:       "created_at",
}

type Project struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Department  string          `json:"department"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Department:  p.Department,
		Budget:      p.Budget,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
