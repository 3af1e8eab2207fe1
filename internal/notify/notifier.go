// Package notify publishes order-created events onto a Redis list so
// downstream consumers can react without sitting on the order-commit path.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"bookstore-order-api/internal/domain/order"
)

const queueKey = "orders:created"

// OrderCreated is the event enqueued for downstream consumers. Delivery is
// at-least-once; the event id lets consumers deduplicate.
type OrderCreated struct {
	EventID              string          `json:"event_id"`
	OrderID              int64           `json:"order_id"`
	PriceWithoutDiscount decimal.Decimal `json:"price_without_discount"`
	DiscountedPrice      decimal.Decimal `json:"discounted_price"`
	CampaignID           *int64          `json:"campaign_id,omitempty"`
	UserID               int64           `json:"user_id"`
}

// Pusher is the subset of redis commands the queue publisher uses.
type Pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

var _ order.Notifier = (*Queue)(nil)

// Queue implements order.Notifier on a Redis list. Enqueueing is retried a
// bounded number of times before the failure surfaces; by then the order is
// already committed, so the caller logs rather than rolls back.
type Queue struct {
	kv       Pusher
	attempts int
	backoff  time.Duration
}

// NewQueue creates a Queue. attempts below 1 are clamped to 1.
func NewQueue(kv Pusher, attempts int, backoff time.Duration) *Queue {
	if attempts < 1 {
		attempts = 1
	}
	return &Queue{kv: kv, attempts: attempts, backoff: backoff}
}

// OrderCreated enqueues the event for the given committed order.
func (q *Queue) OrderCreated(ctx context.Context, o *order.Order) error {
	ev := OrderCreated{
		EventID:              uuid.New().String(),
		OrderID:              o.ID,
		PriceWithoutDiscount: o.PriceWithoutDiscount,
		DiscountedPrice:      o.DiscountedPrice,
		CampaignID:           o.CampaignID,
		UserID:               o.UserID,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	var lastErr error
	for attempt := 0; attempt < q.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(q.backoff):
			}
		}
		if err := q.kv.LPush(ctx, queueKey, payload).Err(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return errors.Wrapf(lastErr, "enqueue order %d after %d attempts", o.ID, q.attempts)
}
