// Package rates is the HTTP adapter for the external fiat exchange-rate
// oracle, with an optional cache so repeated LNURL round trips for the same
// currency don't each hit the oracle.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const satsPerBTC = 100_000_000

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache stores per-currency rates (fiat per BTC). Implemented by the redis
// adapter; nil disables caching.
type Cache interface {
	Get(ctx context.Context, currency string) (float64, bool, error)
	Set(ctx context.Context, currency string, rate float64, ttl time.Duration) error
}

// Client implements ports.RateService against the rate oracle's REST API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	cache      Cache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewClient creates a rate oracle client.
func NewClient(baseURL string, httpClient HTTPClient, cache Cache, cacheTTL time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// rateDTO is the oracle's response: the price of 1 BTC in the currency.
type rateDTO struct {
	Rate float64 `json:"rate"`
}

// FiatToSatoshis converts a fiat amount to satoshis at the current rate.
func (c *Client) FiatToSatoshis(ctx context.Context, amount float64, currency string) (int64, error) {
	rate, err := c.rate(ctx, currency)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(amount / rate * satsPerBTC)), nil
}

// rate returns the fiat-per-BTC rate, from cache when fresh.
func (c *Client) rate(ctx context.Context, currency string) (float64, error) {
	currency = strings.ToUpper(currency)

	if c.cache != nil {
		rate, ok, err := c.cache.Get(ctx, currency)
		if err != nil {
			c.log.Warn().Err(err).Str("currency", currency).Msg("rate cache read failed, querying oracle")
		} else if ok {
			return rate, nil
		}
	}

	url := fmt.Sprintf("%s/api/v1/rate/%s", c.baseURL, currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("get rate for %s: unexpected status %d", currency, resp.StatusCode)
	}

	var dto rateDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return 0, fmt.Errorf("decode rate: %w", err)
	}
	if dto.Rate <= 0 {
		return 0, fmt.Errorf("oracle returned non-positive rate %f for %s", dto.Rate, currency)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, currency, dto.Rate, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("currency", currency).Msg("rate cache write failed")
		}
	}

	return dto.Rate, nil
}
