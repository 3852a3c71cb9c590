package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"
	"lnurl-offlineshop/pkg/lnurl"

	"github.com/rs/zerolog"
)

// Fiat tolerance band for the callback amount, in millisatoshi per satoshi.
// The rate may have moved between pay-request and callback; accept a little
// below and a little more above the recomputed price.
const (
	fiatToleranceMin = 995
	fiatToleranceMax = 1010
)

// LnurlServiceImpl implements ports.LnurlService: the two-step LNURL-pay
// exchange that turns a static item QR code into a paid invoice.
type LnurlServiceImpl struct {
	shopRepo  ports.ShopRepository
	itemRepo  ports.ItemRepository
	walletSvc ports.WalletService
	rateSvc   ports.RateService
	publicURL string // externally reachable base URL, no trailing slash
	log       zerolog.Logger
}

// NewLnurlService creates a new LnurlServiceImpl.
func NewLnurlService(
	shopRepo ports.ShopRepository,
	itemRepo ports.ItemRepository,
	walletSvc ports.WalletService,
	rateSvc ports.RateService,
	publicURL string,
	log zerolog.Logger,
) *LnurlServiceImpl {
	return &LnurlServiceImpl{
		shopRepo:  shopRepo,
		itemRepo:  itemRepo,
		walletSvc: walletSvc,
		rateSvc:   rateSvc,
		publicURL: publicURL,
		log:       log,
	}
}

// PayRequest handles the first LNURL-pay step: advertise the payable amount
// and metadata for an item. Fixed-price items, so minSendable == maxSendable.
func (s *LnurlServiceImpl) PayRequest(ctx context.Context, itemID string) (*lnurl.PayResponse, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if item == nil {
		return nil, apperror.ErrNotFound("Item")
	}
	if !item.Enabled {
		return nil, apperror.ErrItemDisabled()
	}

	amountMsat, err := s.amountMsat(ctx, item)
	if err != nil {
		return nil, err
	}

	metadata, err := lnurl.Metadata(item.PayMetadata()).Encode()
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &lnurl.PayResponse{
		Callback:    s.CallbackURL(item.ID),
		MinSendable: amountMsat,
		MaxSendable: amountMsat,
		Metadata:    metadata,
		Tag:         "payRequest",
	}, nil
}

// Callback handles the second LNURL-pay step: validate the amount the wallet
// committed to, create the invoice, and wire the confirmation success action.
func (s *LnurlServiceImpl) Callback(ctx context.Context, itemID string, amountMsat int64) (*lnurl.PayActionResponse, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if item == nil {
		return nil, apperror.ErrNotFound("Item")
	}

	minMsat, maxMsat, err := s.bounds(ctx, item)
	if err != nil {
		return nil, err
	}
	if amountMsat < minMsat {
		return nil, apperror.ErrAmountOutOfBounds(amountMsat, minMsat, true)
	}
	if amountMsat > maxMsat {
		return nil, apperror.ErrAmountOutOfBounds(amountMsat, maxMsat, false)
	}

	shop, err := s.shopRepo.GetByID(ctx, item.Shop)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if shop == nil {
		return nil, apperror.ErrIntegrity(fmt.Sprintf("shop %s missing for item %s", item.Shop, item.ID))
	}

	metadata, err := lnurl.Metadata(item.PayMetadata()).Encode()
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	descriptionHash := sha256.Sum256([]byte(metadata))

	invoice, err := s.walletSvc.CreateInvoice(ctx, ports.InvoiceRequest{
		WalletID:        shop.Wallet,
		AmountSats:      amountMsat / 1000,
		Memo:            item.Name,
		DescriptionHash: descriptionHash[:],
		Extra:           domain.PaymentExtra{Tag: domain.CorrelationTag, Item: item.ID},
	})
	if err != nil {
		return nil, apperror.ErrUpstream("wallet", err)
	}

	resp := &lnurl.PayActionResponse{
		PR:     invoice.Bolt11,
		Routes: []struct{}{},
	}

	if shop.SupportsConfirmation() {
		resp.SuccessAction = &lnurl.SuccessAction{
			Tag:         "url",
			URL:         s.ConfirmationURL(invoice.PaymentHash),
			Description: "Open to get the confirmation code for your purchase.",
		}
	}

	s.log.Info().
		Str("item_id", item.ID).
		Str("payment_hash", invoice.PaymentHash).
		Int64("amount_msat", amountMsat).
		Msg("lnurl invoice created")

	return resp, nil
}

// LnurlURL returns the bech32-encoded static LNURL for an item, the content
// of its printed QR code.
func (s *LnurlServiceImpl) LnurlURL(itemID string) (string, error) {
	return lnurl.Encode(fmt.Sprintf("%s/offlineshop/lnurl/%s", s.publicURL, itemID))
}

// CallbackURL returns the plain callback URL advertised in pay-request.
func (s *LnurlServiceImpl) CallbackURL(itemID string) string {
	return fmt.Sprintf("%s/offlineshop/lnurl/cb/%s", s.publicURL, itemID)
}

// ConfirmationURL returns the success-action URL for a payment hash.
func (s *LnurlServiceImpl) ConfirmationURL(paymentHash string) string {
	return fmt.Sprintf("%s/offlineshop/confirmation/%s", s.publicURL, paymentHash)
}

// amountMsat computes the fixed item price in millisatoshi.
func (s *LnurlServiceImpl) amountMsat(ctx context.Context, item *domain.Item) (int64, error) {
	if !item.IsFiat() {
		return int64(item.Price) * 1000, nil
	}
	sats, err := s.rateSvc.FiatToSatoshis(ctx, item.Price, item.Unit)
	if err != nil {
		return 0, apperror.ErrUpstream("rate oracle", err)
	}
	return sats * 1000, nil
}

// bounds recomputes the acceptable msat range at callback time. Exact match
// for sats-priced items; a tolerance band around the fresh conversion for
// fiat-priced items.
func (s *LnurlServiceImpl) bounds(ctx context.Context, item *domain.Item) (int64, int64, error) {
	if !item.IsFiat() {
		msat := int64(item.Price) * 1000
		return msat, msat, nil
	}
	sats, err := s.rateSvc.FiatToSatoshis(ctx, item.Price, item.Unit)
	if err != nil {
		return 0, 0, apperror.ErrUpstream("rate oracle", err)
	}
	return sats * fiatToleranceMin, sats * fiatToleranceMax, nil
}
