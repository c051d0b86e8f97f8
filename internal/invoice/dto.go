package invoice

import (
	"time"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateInvoiceDTO struct {
	Amount         decimal.Decimal  `json:"amount"`
	Description    string           `json:"description"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Category       string           `json:"category"`
	Department     string           `json:"department"`
	Date           string           `json:"date"`
	DueDate        string           `json:"due_date"`
}

func (d CreateInvoiceDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).
		Positive(errors.ErrCodeInvalidAmount).
		MaxDecimal(validation.MaxAmount, errors.ErrCodeInvalidAmount)
	v.Field("description", d.Description).Description(500)
	v.Field("category", d.Category).Required()
	if d.CommissionRate != nil {
		v.Field("commission_rate", *d.CommissionRate).
			Range(decimal.Zero, decimal.NewFromInt(100), errors.ErrCodeInvalidAmount)
	}
	v.Field("date", d.Date).Custom(dateOnly("date"))
	v.Field("due_date", d.DueDate).Custom(dateOnly("due_date"))
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if d.DueDate != "" {
		invoiceDate, _ := d.InvoiceDate(time.Now())
		due, _ := time.Parse(time.DateOnly, d.DueDate)
		if due.Before(invoiceDate) {
			return errors.NewValidationFieldError("due_date", "due_date cannot be before date", errors.ErrCodeInvalidDate)
		}
	}
	return nil
}

// InvoiceDate returns the requested date, or today when none was given.
func (d CreateInvoiceDTO) InvoiceDate(now time.Time) (time.Time, error) {
	if d.Date == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(time.DateOnly, d.Date)
}

func (d CreateInvoiceDTO) Rate() decimal.Decimal {
	if d.CommissionRate == nil {
		return DefaultCommissionRate
	}
	return *d.CommissionRate
}

func dateOnly(field string) func(interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return errors.NewValidationFieldError(field, field+" must be a date (YYYY-MM-DD)", errors.ErrCodeInvalidDate)
		}
		return nil
	}
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
	Invoices []*Invoice `json:"invoices"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
