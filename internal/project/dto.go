package project

import (
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateProjectDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Department  string          `json:"department"`
	Budget      decimal.Decimal `json:"budget"`
}

func (d CreateProjectDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(1000)
	v.Field("budget", d.Budget).
		Range(decimal.Zero, validation.MaxAmount, errors.ErrCodeInvalidAmount)
	return v.Validate()
}

// UpdateProjectDTO changes only the fields that are present. Department
// is not movable.
type UpdateProjectDTO struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	Status      *string          `json:"status"`
}

func (d UpdateProjectDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(200)
	}
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(1000)
	}
	if d.Budget != nil {
		v.Field("budget", *d.Budget).Range(decimal.Zero, validation.MaxAmount, errors.ErrCodeInvalidAmount)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).Required().OneOf(errors.ErrCodeInvalidStatus, Statuses...)
	}
	return v.Validate()
}

func (d UpdateProjectDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.Name != nil {
		fields["name"] = *d.Name
	}
	if d.Description != nil {
		fields["description"] = *d.Description
	}
	if d.Budget != nil {
		fields["budget"] = d.Budget.Round(2)
	}
	if d.Status != nil {
		fields["status"] = *d.Status
	}
	return fields
}

type ListResponse struct {
	Projects []*Project `json:"projects"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
