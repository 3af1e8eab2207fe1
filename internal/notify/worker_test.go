package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakePopper serves queued payloads one per call, then cancels the context so
// Run returns.
type fakePopper struct {
	payloads [][]byte
	cancel   context.CancelFunc
}

func (f *fakePopper) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx, "brpop")
	if len(f.payloads) == 0 {
		f.cancel()
		cmd.SetErr(context.Canceled)
		return cmd
	}
	payload := f.payloads[0]
	f.payloads = f.payloads[1:]
	cmd.SetVal([]string{keys[0], string(payload)})
	return cmd
}

func TestWorkerConsumesEvents(t *testing.T) {
	payload, err := json.Marshal(OrderCreated{EventID: "ev-1", OrderID: 42, UserID: 7})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.InfoLevel)
	w := NewWorker(&fakePopper{payloads: [][]byte{payload}, cancel: cancel}, zap.New(core))

	err = w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	entries := logs.FilterMessage("order created").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ev-1", fields["event_id"])
	assert.Equal(t, int64(42), fields["order_id"])
	assert.Equal(t, int64(7), fields["user_id"])
}

func TestWorkerDropsUndecodableEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.WarnLevel)
	w := NewWorker(&fakePopper{payloads: [][]byte{[]byte("{broken")}, cancel: cancel}, zap.New(core))

	_ = w.Run(ctx)

	assert.Len(t, logs.FilterMessage("dropping undecodable event").All(), 1)
}
