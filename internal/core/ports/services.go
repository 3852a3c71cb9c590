package ports

import (
	"context"
	"time"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/pkg/lnurl"
)

// --- External collaborators ---

// WalletService is the external Lightning wallet/ledger. Payments are
// read-only to this service; invoices are created on its behalf.
type WalletService interface {
	// GetPayment fetches a payment by hash. Returns nil, nil when the
	// ledger has no record of it.
	GetPayment(ctx context.Context, paymentHash string) (*domain.Payment, error)
	// CreateInvoice asks the wallet to issue a BOLT11 invoice.
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
	// ResolveKey maps an API key to the wallet it belongs to. Returns
	// nil, nil for unknown keys.
	ResolveKey(ctx context.Context, apiKey string) (*WalletKey, error)
}

// InvoiceRequest holds everything the wallet needs to issue an invoice.
type InvoiceRequest struct {
	WalletID        string
	AmountSats      int64
	Memo            string
	DescriptionHash []byte // sha256 of the LNURL metadata blob
	Extra           domain.PaymentExtra
}

// Invoice is the wallet's answer to CreateInvoice.
type Invoice struct {
	PaymentHash string
	Bolt11      string
}

// WalletKey identifies the wallet behind an API key and its privilege level.
type WalletKey struct {
	WalletID string
	Admin    bool // admin key vs invoice (read) key
}

// RateService converts fiat amounts to satoshis through an external oracle.
type RateService interface {
	FiatToSatoshis(ctx context.Context, amount float64, currency string) (int64, error)
}

// --- Service ports (business logic) ---

// CodeService issues and verifies per-payment confirmation codes.
type CodeService interface {
	// GetCode returns the confirmation code for a settled payment.
	// Idempotent per payment hash within the history window.
	GetCode(shop *domain.Shop, paymentHash string) (string, error)
	// Reset discards a shop's rotation state so updated configuration
	// takes effect immediately.
	Reset(shop *domain.Shop)
}

// ShopService is the administrative surface: shop configuration and item CRUD.
type ShopService interface {
	GetOrCreateShopByWallet(ctx context.Context, wallet string) (*domain.Shop, error)
	UpdateShopMethod(ctx context.Context, wallet string, req UpdateShopRequest) (*domain.Shop, error)
	CreateItem(ctx context.Context, shopID string, req ItemRequest) (*domain.Item, error)
	UpdateItem(ctx context.Context, shopID, itemID string, req ItemRequest) (*domain.Item, error)
	DeleteItem(ctx context.Context, shopID, itemID string) error
	ListItems(ctx context.Context, shopID string) ([]domain.Item, error)
}

// UpdateShopRequest holds validated input for a shop configuration change.
type UpdateShopRequest struct {
	Method   domain.CodeMethod
	Wordlist string
}

// ItemRequest holds validated input for item create/update.
type ItemRequest struct {
	Name               string
	Description        string
	Image              string
	Price              float64
	Unit               string
	FiatBaseMultiplier int
	Enabled            *bool // nil leaves the flag unchanged (new items start enabled)
}

// LnurlService implements the two-step LNURL-pay exchange.
// Domain failures are returned as errors; the HTTP layer renders them as
// protocol error payloads, never as transport errors.
type LnurlService interface {
	PayRequest(ctx context.Context, itemID string) (*lnurl.PayResponse, error)
	Callback(ctx context.Context, itemID string, amountMsat int64) (*lnurl.PayActionResponse, error)
	// LnurlURL returns the bech32-encoded static LNURL printed on an
	// item's QR code.
	LnurlURL(itemID string) (string, error)
}

// ConfirmationService turns a payment hash into a displayable confirmation.
type ConfirmationService interface {
	Confirm(ctx context.Context, paymentHash string) (*Confirmation, error)
}

// Confirmation is the human-verifiable proof of a settled purchase.
type Confirmation struct {
	Code      string
	ItemName  string
	Price     float64
	Unit      string
	SettledAt time.Time
}
