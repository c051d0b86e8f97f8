package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	invoiceDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var DefaultCommissionRate = decimal.NewFromInt(5)

var Columns = access.Columns{
	Owner:      "user_id",
	Department: "department",
	Status:     "status",
	Date:       "invoice_date",
}

type Invoice struct {
	ID               int64           `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	UserID           int64           `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Department       string          `json:"department"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	InvoiceDate      string          `json:"date"`
	DueDate          *string         `json:"due_date,omitempty"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	ProcessedBy      *int64          `json:"processed_by,omitempty"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromDataModel(i *invoiceDatamodel.Invoice) *Invoice {
	out := &Invoice{
		ID:               i.ID,
		InvoiceNumber:    i.InvoiceNumber,
		UserID:           i.UserID,
		Amount:           i.Amount,
		Description:      i.Description,
		Category:         i.Category,
		Department:       i.Department,
		CommissionRate:   i.CommissionRate,
		CommissionAmount: i.CommissionAmount,
		Status:           i.Status,
		InvoiceDate:      i.InvoiceDate.Format(time.DateOnly),
		RejectionReason:  i.RejectionReason,
		ProcessedBy:      i.ProcessedBy,
		ProcessedAt:      i.ProcessedAt,
		CreatedAt:        i.CreatedAt,
	}
	if i.DueDate != nil {
		due := i.DueDate.Format(time.DateOnly)
		out.DueDate = &due
	}
	return out
}

// Commission is amount × rate / 100, rounded to cents.
func Commission(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// NewInvoiceNumber formats INV-YYYYMMDD-XXXXXX for the given day.
func NewInvoiceNumber(day time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("INV-%s-%s", day.Format("20060102"), suffix)
}
