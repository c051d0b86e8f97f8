package notification

import (
	"context"
	"sync"
	"time"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/google/uuid"
)

const DefaultInboxSize = 50

const (
	TypeInvoiceApproved   = "invoice_approved"
	TypeInvoiceRejected   = "invoice_rejected"
	TypeTransactionReview = "transaction_reviewed"
	TypeBudgetAlert       = "budget_alert"
	TypeRoleChanged       = "role_changed"
	TypeSystem            = "system"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Notification struct {
	ID        string                 `json:"id"`
	UserID    int64                  `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Priority  string                 `json:"priority"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

func New(userID int64, kind, title, message, priority string, data map[string]interface{}) Notification {
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
}

type Stats struct {
	Total  int            `json:"total"`
	Unread int            `json:"unread"`
	ByType map[string]int `json:"by_type"`
}

func Summarize(items []Notification) Stats {
	s := Stats{ByType: map[string]int{}}
	for _, n := range items {
		s.Total++
		if !n.Read {
			s.Unread++
		}
		s.ByType[n.Type]++
	}
	return s
}

// Inbox stores the most recent notifications per recipient, newest first.
type Inbox interface {
	Push(ctx context.Context, n Notification) error
	List(ctx context.Context, userID int64) ([]Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
}

// Forwarder hands a stored notification to an external delivery channel.
type Forwarder interface {
	Forward(ctx context.Context, n Notification) error
}

// MemoryInbox keeps inboxes in process memory. It is used when no Redis
// address is configured.
type MemoryInbox struct {
	mu    sync.RWMutex
	size  int
	items map[int64][]Notification
}

func NewMemoryInbox(size int) *MemoryInbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &MemoryInbox{size: size, items: map[int64][]Notification{}}
}

func (m *MemoryInbox) Push(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]Notification{n}, m.items[n.UserID]...)
	if len(list) > m.size {
		list = list[:m.size]
	}
	m.items[n.UserID] = list
	return nil
}

func (m *MemoryInbox) List(ctx context.Context, userID int64) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Notification, len(m.items[userID]))
	copy(out, m.items[userID])
	return out, nil
}

func (m *MemoryInbox) MarkRead(ctx context.Context, userID int64, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items[userID] {
		if m.items[userID][i].ID == id {
			m.items[userID][i].Read = true
			return nil
		}
	}
	return errors.ErrNotificationMissing
}
