package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const popTimeout = 5 * time.Second

// Popper is the subset of redis commands the worker uses.
type Popper interface {
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Worker drains order-created events from the queue and logs them, standing
// in for the out-of-process consumers the queue decouples. Several workers
// may run concurrently; BRPOP hands each event to exactly one of them.
type Worker struct {
	kv Popper
	lg *zap.Logger
}

// NewWorker creates a Worker logging through lg.
func NewWorker(kv Popper, lg *zap.Logger) *Worker {
	return &Worker{kv: kv, lg: lg}
}

// Run consumes events until ctx is cancelled. Undecodable events are dropped
// with a warning; transient pop failures back off for a second.
func (w *Worker) Run(ctx context.Context) error {
	for {
		res, err := w.kv.BRPop(ctx, popTimeout, queueKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.lg.Warn("queue pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPOP returns [key, value].
		if len(res) != 2 {
			continue
		}
		var ev OrderCreated
		if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
			w.lg.Warn("dropping undecodable event", zap.Error(err))
			continue
		}

		fields := []zap.Field{
			zap.String("event_id", ev.EventID),
			zap.Int64("order_id", ev.OrderID),
			zap.Int64("user_id", ev.UserID),
			zap.String("price_without_discount", ev.PriceWithoutDiscount.String()),
			zap.String("discounted_price", ev.DiscountedPrice.String()),
		}
		if ev.CampaignID != nil {
			fields = append(fields, zap.Int64("campaign_id", *ev.CampaignID))
		}
		w.lg.Info("order created", fields...)
	}
}
