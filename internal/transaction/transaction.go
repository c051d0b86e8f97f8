package transaction

import (
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	transactionDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Columns exposes the transactions table to the scope predicate builder.
var Columns = access.Columns{
	Owner:      "user_id",
	Department: "department",
	Status:     "status",
	Date:       "created_at",
}

type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Department    string          `json:"department"`
	Justification string          `json:"justification"`
	Status        string          `json:"status"`
	ProcessedBy   *int64          `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Category:      t.Category,
		Department:    t.Department,
		Justification: t.Justification,
		Status:        t.Status,
		ProcessedBy:   t.ProcessedBy,
		ProcessedAt:   t.ProcessedAt,
		CreatedAt:     t.CreatedAt,
	}
}
