package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateCache caches per-currency exchange rates (fiat per BTC) so the rate
// oracle is not hit on every LNURL round trip. Stale entries simply expire;
// the callback tolerance band absorbs drift within the TTL.
type RateCache struct {
	client *goredis.Client
	prefix string
}

// NewRateCache creates a new Redis-backed rate cache.
func NewRateCache(client *goredis.Client) *RateCache {
	return &RateCache{
		client: client,
		prefix: "rate:",
	}
}

// Get retrieves a cached rate for a currency.
// Returns 0, false, nil when the key does not exist.
func (c *RateCache) Get(ctx context.Context, currency string) (float64, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+currency).Result()
	if err != nil {
		if err == goredis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis rate get: %w", err)
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cached rate: %w", err)
	}
	return rate, true, nil
}

// Set stores a rate for a currency with TTL.
func (c *RateCache) Set(ctx context.Context, currency string, rate float64, ttl time.Duration) error {
	val := strconv.FormatFloat(rate, 'f', -1, 64)
	if err := c.client.Set(ctx, c.prefix+currency, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis rate set: %w", err)
	}
	return nil
}
