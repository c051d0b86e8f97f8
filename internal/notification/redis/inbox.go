package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	appErrors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/notification"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "finance-ops:notifications:"

// Inbox keeps each recipient's notifications in a capped Redis list,
// newest at the head.
type Inbox struct {
	client *redis.Client
	size   int64
}

func NewInbox(client *redis.Client, size int) *Inbox {
	if size <= 0 {
		size = notification.DefaultInboxSize
	}
	return &Inbox{client: client, size: int64(size)}
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (i *Inbox) Push(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	k := key(n.UserID)
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, k, payload)
		pipe.LTrim(ctx, k, 0, i.size-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

func (i *Inbox) List(ctx context.Context, userID int64) ([]notification.Notification, error) {
	raw, err := i.client.LRange(ctx, key(userID), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read notifications: %w", err)
	}
	return decodeAll(raw)
}

// MarkRead rewrites the matching entry in place. The key is watched so a
// concurrent push cannot shift the index between read and write.
func (i *Inbox) MarkRead(ctx context.Context, userID int64, id string) error {
	k := key(userID)
	return i.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, k, 0, -1).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read notifications: %w", err)
		}
		items, err := decodeAll(raw)
		if err != nil {
			return err
		}

		for idx, n := range items {
			if n.ID != id {
				continue
			}
			if n.Read {
				return nil
			}
			n.Read = true
			payload, err := json.Marshal(n)
			if err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.LSet(ctx, k, int64(idx), payload)
				return nil
			})
			return err
		}
		return appErrors.ErrNotificationMissing
	}, k)
}

func decodeAll(raw []string) ([]notification.Notification, error) {
	out := make([]notification.Notification, 0, len(raw))
	for _, r := range raw {
		var n notification.Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
