package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/finance-ops/internal/budget"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	"github.com/frahmantamala/finance-ops/internal/notification"
	notificationKafka "github.com/frahmantamala/finance-ops/internal/notification/kafka"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and inspect the notifications they produce`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long: `Publish a test event to the event bus and print the resulting notification.
Known types: invoice.approved, invoice.rejected, transaction.status_changed, budget.alert, user.role_changed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventUserID  int64
	eventBrokers []string
	eventTopic   string
)

func testEvent(eventType string, userID int64) (events.Event, error) {
	amount := decimal.NewFromInt(1500)
	switch eventType {
	case events.EventTypeInvoiceApproved:
		return events.NewInvoiceReviewedEvent(1, "INV-TEST", userID, 0, amount, true, ""), nil
	case events.EventTypeInvoiceRejected:
		return events.NewInvoiceReviewedEvent(1, "INV-TEST", userID, 0, amount, false, "sent from cli"), nil
	case events.EventTypeTransactionStatusChanged:
		return events.NewTransactionStatusChangedEvent(1, userID, 0, "approved"), nil
	case events.EventTypeBudgetAlert:
		f := budget.NewFigures(decimal.NewFromInt(10000), decimal.NewFromInt(9200))
		return events.NewBudgetAlertEvent(userID, "Finance", f.Utilization, f.AlertPriority()), nil
	case events.EventTypeUserRoleChanged:
		return events.NewUserRoleChangedEvent(userID, 0, false, 2), nil
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func publishTestEvent(ctx context.Context, eventType string) error {
	lg := logger.LoggerWrapper()

	event, err := testEvent(eventType, eventUserID)
	if err != nil {
		return err
	}

	var forwarder notification.Forwarder
	if len(eventBrokers) > 0 {
		fw := notificationKafka.NewForwarder(eventBrokers, eventTopic, lg)
		defer fw.Close()
		forwarder = fw
	}

	inbox := notification.NewMemoryInbox(notification.DefaultInboxSize)
	bus := events.NewEventBus(lg)
	notification.NewService(inbox, forwarder, lg).Subscribe(bus)

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	list, err := inbox.List(ctx, eventUserID)
	if err != nil {
		return err
	}
	for _, n := range list {
		fmt.Printf("[%s] %s: %s\n", n.Priority, n.Title, n.Message)
	}
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user", 1, "recipient user id")
	publishEventCmd.Flags().StringSliceVar(&eventBrokers, "brokers", nil, "kafka brokers to forward the notification to")
	publishEventCmd.Flags().StringVar(&eventTopic, "topic", "finance-notifications", "kafka topic")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
