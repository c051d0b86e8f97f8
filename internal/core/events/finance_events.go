package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeInvoiceApproved          = "invoice.approved"
	EventTypeInvoiceRejected          = "invoice.rejected"
	EventTypeTransactionStatusChanged = "transaction.status_changed"
	EventTypeBudgetAlert              = "budget.alert"
	EventTypeUserRoleChanged          = "user.role_changed"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type InvoiceReviewedEvent struct {
	BaseEvent
	InvoiceID     int64           `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	OwnerID       int64           `json:"owner_id"`
	ReviewerID    int64           `json:"reviewer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
}

// NewInvoiceReviewedEvent builds invoice.approved or invoice.rejected
// depending on the final status.
func NewInvoiceReviewedEvent(invoiceID int64, number string, ownerID, reviewerID int64, amount decimal.Decimal, approved bool, reason string) *InvoiceReviewedEvent {
	eventType := EventTypeInvoiceRejected
	if approved {
		eventType = EventTypeInvoiceApproved
	}
	return &InvoiceReviewedEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"invoice_id":     invoiceID,
			"invoice_number": number,
			"owner_id":       ownerID,
			"reviewer_id":    reviewerID,
			"amount":         amount.StringFixed(2),
			"reason":         reason,
		}),
		InvoiceID:     invoiceID,
		InvoiceNumber: number,
		OwnerID:       ownerID,
		ReviewerID:    reviewerID,
		Amount:        amount,
		Reason:        reason,
	}
}

type TransactionStatusChangedEvent struct {
	BaseEvent
	TransactionID int64  `json:"transaction_id"`
	OwnerID       int64  `json:"owner_id"`
	ReviewerID    int64  `json:"reviewer_id"`
	Status        string `json:"status"`
}

func NewTransactionStatusChangedEvent(transactionID, ownerID, reviewerID int64, status string) *TransactionStatusChangedEvent {
	return &TransactionStatusChangedEvent{
		BaseEvent: newBase(EventTypeTransactionStatusChanged, map[string]interface{}{
			"transaction_id": transactionID,
			"owner_id":       ownerID,
			"reviewer_id":    reviewerID,
			"status":         status,
		}),
		TransactionID: transactionID,
		OwnerID:       ownerID,
		ReviewerID:    reviewerID,
		Status:        status,
	}
}

type BudgetAlertEvent struct {
	BaseEvent
	UserID      int64           `json:"user_id"`
	Department  string          `json:"department"`
	Utilization decimal.Decimal `json:"utilization"`
	Priority    string          `json:"priority"`
}

func NewBudgetAlertEvent(userID int64, department string, utilization decimal.Decimal, priority string) *BudgetAlertEvent {
	return &BudgetAlertEvent{
		BaseEvent: newBase(EventTypeBudgetAlert, map[string]interface{}{
			"user_id":     userID,
			"department":  department,
			"utilization": utilization.StringFixed(1),
			"priority":    priority,
		}),
		UserID:      userID,
		Department:  department,
		Utilization: utilization,
		Priority:    priority,
	}
}

type UserRoleChangedEvent struct {
	BaseEvent
	UserID    int64 `json:"user_id"`
	ChangedBy int64 `json:"changed_by"`
	IsAdmin   bool  `json:"is_admin"`
	Grade     int   `json:"grade"`
}

func NewUserRoleChangedEvent(userID, changedBy int64, isAdmin bool, grade int) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseEvent: newBase(EventTypeUserRoleChanged, map[string]interface{}{
			"user_id":    userID,
			"changed_by": changedBy,
			"is_admin":   isAdmin,
			"grade":      grade,
		}),
		UserID:    userID,
		ChangedBy: changedBy,
		IsAdmin:   isAdmin,
		Grade:     grade,
	}
}
