package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-process Cache for tests.
type memCache struct {
	mu    sync.Mutex
	rates map[string]float64
}

func newMemCache() *memCache {
	return &memCache{rates: make(map[string]float64)}
}

func (m *memCache) Get(_ context.Context, currency string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rate, ok := m.rates[currency]
	return rate, ok, nil
}

func (m *memCache) Set(_ context.Context, currency string, rate float64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[currency] = rate
	return nil
}

func newTestClient(t *testing.T, cache Cache, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), cache, time.Minute, zerolog.Nop())
}

func TestClient_FiatToSatoshis(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/rate/USD", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]float64{"rate": 50_000})
	})

	// 5 USD at 50_000 USD/BTC -> 0.0001 BTC -> 10_000 sats.
	sats, err := client.FiatToSatoshis(context.Background(), 5, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), sats)
}

func TestClient_FiatToSatoshis_Rounds(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"rate": 60_000})
	})

	// 1 USD at 60_000 -> 1666.66... sats, rounded to nearest.
	sats, err := client.FiatToSatoshis(context.Background(), 1, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(1667), sats)
}

func TestClient_UppercasesCurrency(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/rate/EUR", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]float64{"rate": 55_000})
	})

	_, err := client.FiatToSatoshis(context.Background(), 5, "eur")
	require.NoError(t, err)
}

func TestClient_CachesRate(t *testing.T) {
	var calls int
	cache := newMemCache()
	client := newTestClient(t, cache, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]float64{"rate": 50_000})
	})

	ctx := context.Background()
	_, err := client.FiatToSatoshis(ctx, 5, "USD")
	require.NoError(t, err)
	_, err = client.FiatToSatoshis(ctx, 7, "USD")
	require.NoError(t, err)

	// Second conversion is served from cache.
	assert.Equal(t, 1, calls)
}

func TestClient_RejectsNonPositiveRate(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"rate": 0})
	})

	_, err := client.FiatToSatoshis(context.Background(), 5, "USD")
	assert.Error(t, err)
}

func TestClient_OracleError(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FiatToSatoshis(context.Background(), 5, "USD")
	assert.Error(t, err)
}
