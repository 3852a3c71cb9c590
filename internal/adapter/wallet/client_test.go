package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "service-key", srv.Client(), zerolog.Nop())
}

func TestClient_GetPayment_Settled(t *testing.T) {
	settledAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/payments/hash-1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("X-Api-Key"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment_hash": "hash-1",
			"pending":      false,
			"time":         settledAt.Unix(),
			"extra":        map[string]string{"tag": "offlineshop", "item": "item-1"},
		})
	})

	payment, err := client.GetPayment(context.Background(), "hash-1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, "hash-1", payment.Hash)
	assert.True(t, payment.Settled)
	assert.Equal(t, settledAt, payment.CreatedAt)
	assert.Equal(t, domain.CorrelationTag, payment.Extra.Tag)
	assert.Equal(t, "item-1", payment.Extra.Item)
}

func TestClient_GetPayment_Pending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment_hash": "hash-1",
			"pending":      true,
			"time":         time.Now().Unix(),
		})
	})

	payment, err := client.GetPayment(context.Background(), "hash-1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.False(t, payment.Settled)
}

func TestClient_GetPayment_Unknown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	payment, err := client.GetPayment(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, payment)
}

func TestClient_CreateInvoice(t *testing.T) {
	descriptionHash := sha256.Sum256([]byte(`[["text/plain","A cup of coffee"]]`))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payments", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("X-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wallet-1", body["wallet_id"])
		assert.Equal(t, float64(1000), body["amount"])
		assert.Equal(t, "Coffee", body["memo"])
		assert.Equal(t, hex.EncodeToString(descriptionHash[:]), body["description_hash"])

		extra := body["extra"].(map[string]interface{})
		assert.Equal(t, "offlineshop", extra["tag"])
		assert.Equal(t, "item-1", extra["item"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"payment_hash":    "hash-1",
			"payment_request": "lnbc10...",
		})
	})

	invoice, err := client.CreateInvoice(context.Background(), ports.InvoiceRequest{
		WalletID:        "wallet-1",
		AmountSats:      1000,
		Memo:            "Coffee",
		DescriptionHash: descriptionHash[:],
		Extra:           domain.PaymentExtra{Tag: domain.CorrelationTag, Item: "item-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hash-1", invoice.PaymentHash)
	assert.Equal(t, "lnbc10...", invoice.Bolt11)
}

func TestClient_CreateInvoice_UpstreamDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "wallet has no funding source"})
	})

	invoice, err := client.CreateInvoice(context.Background(), ports.InvoiceRequest{
		WalletID:   "wallet-1",
		AmountSats: 1000,
	})
	assert.Nil(t, invoice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet has no funding source")
}

func TestClient_ResolveKey_Admin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wallet", r.URL.Path)
		// The merchant's key, not the service key.
		assert.Equal(t, "merchant-key", r.Header.Get("X-Api-Key"))

		json.NewEncoder(w).Encode(map[string]string{
			"wallet_id": "wallet-1",
			"key_type":  "admin",
		})
	})

	key, err := client.ResolveKey(context.Background(), "merchant-key")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "wallet-1", key.WalletID)
	assert.True(t, key.Admin)
}

func TestClient_ResolveKey_Invoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"wallet_id": "wallet-1",
			"key_type":  "invoice",
		})
	})

	key, err := client.ResolveKey(context.Background(), "merchant-key")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.False(t, key.Admin)
}

func TestClient_ResolveKey_Unknown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	key, err := client.ResolveKey(context.Background(), "bogus")
	require.NoError(t, err)
	assert.Nil(t, key)
}
