// Package cache provides the cache-aside layer in front of the campaign
// repository. Redis holds a serialized snapshot of the full campaign list
// under a single key with a short TTL; PostgreSQL stays authoritative.
package cache

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookstore-order-api/internal/domain/campaign"
)

const (
	campaignsKey = "campaigns"
	campaignsTTL = 30 * time.Second
)

// KV is the subset of redis commands the cache uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ campaign.Source = (*Campaigns)(nil)

// Campaigns implements campaign.Source with a cache-aside read. A corrupt
// cached payload is treated as a miss and reloaded from the repository; a
// cache outage degrades to reading the repository directly. Neither failure
// mode is surfaced to order placement.
type Campaigns struct {
	kv   KV
	repo campaign.Repository
}

// NewCampaigns creates the cache over the given Redis commands and
// authoritative repository.
func NewCampaigns(kv KV, repo campaign.Repository) *Campaigns {
	return &Campaigns{kv: kv, repo: repo}
}

// Get returns the campaign list, from cache when an intact unexpired entry
// exists, otherwise from the repository (repopulating the cache on the way
// out). The returned list may be up to the TTL stale.
func (c *Campaigns) Get(ctx context.Context) ([]campaign.Campaign, error) {
	payload, err := c.kv.Get(ctx, campaignsKey).Bytes()
	switch {
	case err == nil:
		list, derr := decodeCampaigns(payload)
		if derr == nil {
			return list, nil
		}
		zctx.From(ctx).Warn("corrupt campaign cache entry, treating as miss",
			zap.Error(derr),
		)
	case errors.Is(err, redis.Nil):
		// Miss.
	default:
		zctx.From(ctx).Warn("campaign cache unavailable, reading store",
			zap.Error(err),
		)
	}

	list, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load campaigns")
	}

	if err := c.kv.Set(ctx, campaignsKey, encodeCampaigns(list), campaignsTTL).Err(); err != nil {
		zctx.From(ctx).Warn("campaign cache set failed", zap.Error(err))
	}
	return list, nil
}

// Invalidate drops the cached list so the next read hits the store. Called
// after administrative campaign mutations.
func (c *Campaigns) Invalidate(ctx context.Context) error {
	return errors.Wrap(c.kv.Del(ctx, campaignsKey).Err(), "invalidate campaigns")
}
