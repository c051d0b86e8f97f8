package notification

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/core/events"
)

type Service struct {
	inbox     Inbox
	forwarder Forwarder
	logger    *slog.Logger

	alertMu sync.Mutex
}

// NewService wires the inbox and an optional forwarder.
func NewService(inbox Inbox, forwarder Forwarder, logger *slog.Logger) *Service {
	return &Service{inbox: inbox, forwarder: forwarder, logger: logger}
}

// Notify stores n and forwards it when a forwarder is configured.
// Forwarding is at most once; failures are only logged.
func (s *Service) Notify(ctx context.Context, n Notification) error {
	if err := s.inbox.Push(ctx, n); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if s.forwarder != nil {
		if err := s.forwarder.Forward(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "failed to forward notification",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"error", err)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]Notification, error) {
	items, err := s.inbox.List(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("failed to load notifications", err)
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID int64, id string) error {
	if err := s.inbox.MarkRead(ctx, userID, id); err != nil {
		if stdErrors.Is(err, errors.ErrNotificationMissing) {
			return errors.ErrNotificationMissing
		}
		return errors.NewDependencyError("failed to update notification", err)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(items), nil
}

// Subscribe registers the handlers that turn domain events into inbox
// entries for the affected user.
func (s *Service) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeInvoiceApproved, s.onInvoiceReviewed)
	bus.Subscribe(events.EventTypeInvoiceRejected, s.onInvoiceReviewed)
	bus.Subscribe(events.EventTypeTransactionStatusChanged, s.onTransactionStatusChanged)
	bus.Subscribe(events.EventTypeBudgetAlert, s.onBudgetAlert)
	bus.Subscribe(events.EventTypeUserRoleChanged, s.onUserRoleChanged)
}

func (s *Service) onInvoiceReviewed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.InvoiceReviewedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	data := map[string]interface{}{
		"invoice_id":     e.InvoiceID,
		"invoice_number": e.InvoiceNumber,
		"amount":         e.Amount.StringFixed(2),
	}
	if e.EventType() == events.EventTypeInvoiceApproved {
		return s.Notify(ctx, New(e.OwnerID, TypeInvoiceApproved, "Invoice Approved",
			fmt.Sprintf("Invoice %s for $%s has been approved.", e.InvoiceNumber, e.Amount.StringFixed(2)),
			PriorityMedium, data))
	}

	reason := e.Reason
	if reason == "" {
		reason = "not specified"
	}
	data["reason"] = e.Reason
	return s.Notify(ctx, New(e.OwnerID, TypeInvoiceRejected, "Invoice Rejected",
		fmt.Sprintf("Invoice %s has been rejected. Reason: %s", e.InvoiceNumber, reason),
		PriorityHigh, data))
}

func (s *Service) onTransactionStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TransactionStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	priority := PriorityMedium
	if e.Status == "rejected" {
		priority = PriorityHigh
	}
	return s.Notify(ctx, New(e.OwnerID, TypeTransactionReview, "Transaction "+e.Status,
		fmt.Sprintf("Transaction #%d has been %s.", e.TransactionID, e.Status),
		priority, map[string]interface{}{"transaction_id": e.TransactionID, "status": e.Status}))
}

func (s *Service) onBudgetAlert(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.BudgetAlertEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	same, err := s.sameBudgetBand(ctx, e)
	if err != nil {
		return err
	}
	if same {
		return nil
	}

	title := "Budget Alert - Warning"
	if e.Priority == PriorityHigh {
		title = "Budget Alert - Critical"
	}
	return s.Notify(ctx, New(e.UserID, TypeBudgetAlert, title,
		fmt.Sprintf("%s has used %s%% of its budget.", e.Department, e.Utilization.StringFixed(1)),
		e.Priority, map[string]interface{}{"department": e.Department, "utilization": e.Utilization.StringFixed(1)}))
}

// sameBudgetBand reports whether the recipient's newest alert for the
// department already carries this priority. Budget reads are polled, so
// only a band change produces a new entry.
func (s *Service) sameBudgetBand(ctx context.Context, e *events.BudgetAlertEvent) (bool, error) {
	items, err := s.List(ctx, e.UserID)
	if err != nil {
		return false, err
	}
	for _, n := range items {
		if n.Type != TypeBudgetAlert {
			continue
		}
		if dept, _ := n.Data["department"].(string); dept != e.Department {
			continue
		}
		return n.Priority == e.Priority, nil
	}
	return false, nil
}

func (s *Service) onUserRoleChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.UserRoleChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	role := fmt.Sprintf("grade %d", e.Grade)
	if e.IsAdmin {
		role = "administrator"
	}
	return s.Notify(ctx, New(e.UserID, TypeRoleChanged, "Role Updated",
		fmt.Sprintf("Your role is now %s.", role),
		PriorityMedium, map[string]interface{}{"is_admin": e.IsAdmin, "grade": e.Grade}))
}
