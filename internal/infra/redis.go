package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

const (
	PriceCacheTTL    = 5 * time.Minute
	priceCachePrefix = "price:"
)

// PriceCache keeps public price check responses in Redis keyed by SKU.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPriceCache(rdb *redis.Client) *PriceCache {
	return &PriceCache{rdb: rdb, ttl: PriceCacheTTL}
}

// Get returns the cached response. Any Redis or decode error counts as a miss.
func (c *PriceCache) Get(ctx context.Context, sku string) (*dto.PriceCheckResponse, bool) {
	raw, err := c.rdb.Get(ctx, priceCachePrefix+sku).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.PriceCheckResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *PriceCache) Set(ctx context.Context, sku string, resp *dto.PriceCheckResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, priceCachePrefix+sku, b, c.ttl).Err()
}

func (c *PriceCache) Invalidate(ctx context.Context, skus ...string) error {
	if len(skus) == 0 {
		return nil
	}
	keys := make([]string, len(skus))
	for i, sku := range skus {
		keys[i] = priceCachePrefix + sku
	}
	return c.rdb.Del(ctx, keys...).Err()
}
