// Package wallet is the HTTP adapter for the external Lightning wallet
// service: invoice creation, payment lookup, and API-key resolution.
package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.WalletService against the wallet service's REST API.
type Client struct {
	baseURL    string
	serviceKey string // key this service authenticates with
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a wallet service client.
func NewClient(baseURL, serviceKey string, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: httpClient,
		log:        log,
	}
}

// paymentDTO is the wallet service's payment representation.
type paymentDTO struct {
	PaymentHash string              `json:"payment_hash"`
	Pending     bool                `json:"pending"`
	Time        int64               `json:"time"` // unix seconds
	Extra       domain.PaymentExtra `json:"extra"`
}

// GetPayment fetches a payment record by hash. Returns nil, nil when the
// ledger has no record of it.
func (c *Client) GetPayment(ctx context.Context, paymentHash string) (*domain.Payment, error) {
	url := fmt.Sprintf("%s/api/v1/payments/%s", c.baseURL, paymentHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get payment: unexpected status %d", resp.StatusCode)
	}

	var dto paymentDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode payment: %w", err)
	}

	return &domain.Payment{
		Hash:      dto.PaymentHash,
		Settled:   !dto.Pending,
		CreatedAt: time.Unix(dto.Time, 0).UTC(),
		Extra:     dto.Extra,
	}, nil
}

// createInvoiceDTO is the invoice creation request body.
type createInvoiceDTO struct {
	WalletID        string              `json:"wallet_id"`
	Amount          int64               `json:"amount"` // satoshis
	Memo            string              `json:"memo"`
	DescriptionHash string              `json:"description_hash,omitempty"` // hex
	Extra           domain.PaymentExtra `json:"extra"`
}

// invoiceDTO is the invoice creation response body.
type invoiceDTO struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
}

// errorDTO carries the wallet service's failure reason.
type errorDTO struct {
	Detail string `json:"detail"`
}

// CreateInvoice asks the wallet service to issue a BOLT11 invoice.
func (c *Client) CreateInvoice(ctx context.Context, r ports.InvoiceRequest) (*ports.Invoice, error) {
	body, err := json.Marshal(createInvoiceDTO{
		WalletID:        r.WalletID,
		Amount:          r.AmountSats,
		Memo:            r.Memo,
		DescriptionHash: hex.EncodeToString(r.DescriptionHash),
		Extra:           r.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal invoice request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/payments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build invoice request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var e errorDTO
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Detail != "" {
			return nil, fmt.Errorf("create invoice: %s", e.Detail)
		}
		return nil, fmt.Errorf("create invoice: unexpected status %d", resp.StatusCode)
	}

	var dto invoiceDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}

	c.log.Debug().
		Str("wallet_id", r.WalletID).
		Str("payment_hash", dto.PaymentHash).
		Int64("amount_sats", r.AmountSats).
		Msg("invoice created")

	return &ports.Invoice{
		PaymentHash: dto.PaymentHash,
		Bolt11:      dto.PaymentRequest,
	}, nil
}

// walletKeyDTO is the key resolution response body.
type walletKeyDTO struct {
	WalletID string `json:"wallet_id"`
	KeyType  string `json:"key_type"` // "admin" or "invoice"
}

// ResolveKey maps an API key presented by a merchant to its wallet.
// Returns nil, nil for unknown keys.
func (c *Client) ResolveKey(ctx context.Context, apiKey string) (*ports.WalletKey, error) {
	url := fmt.Sprintf("%s/api/v1/wallet", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build key request: %w", err)
	}
	req.Header.Set("X-Api-Key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolve key: unexpected status %d", resp.StatusCode)
	}

	var dto walletKeyDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode wallet key: %w", err)
	}

	return &ports.WalletKey{
		WalletID: dto.WalletID,
		Admin:    dto.KeyType == "admin",
	}, nil
}
