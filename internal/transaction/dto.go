package transaction

import (
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateTransactionDTO struct {
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Justification string          `json:"justification"`
	Department    string          `json:"department"`
}

func (d CreateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).
		Positive(errors.ErrCodeInvalidAmount).
		MaxDecimal(validation.MaxAmount, errors.ErrCodeInvalidAmount)
	v.Field("category", d.Category).Required()
	v.Field("justification", d.Justification).Required().MinLength(5).MaxLength(1000)
	return v.Validate()
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (d UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(errors.ErrCodeInvalidStatus, StatusApproved, StatusRejected)
	v.Field("reason", d.Reason).MaxLength(500)
	return v.Validate()
}

type ListResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int64          `json:"total"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}
