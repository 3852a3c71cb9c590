package service

import (
	"context"
	"fmt"
	"time"

	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"

	"github.com/rs/zerolog"
)

// ConfirmationServiceImpl implements ports.ConfirmationService. It correlates
// a paid invoice back to its item and shop through the extra data attached at
// invoice creation, then asks the code issuer for the confirmation code.
type ConfirmationServiceImpl struct {
	shopRepo  ports.ShopRepository
	itemRepo  ports.ItemRepository
	walletSvc ports.WalletService
	codeSvc   ports.CodeService
	now       func() time.Time
	log       zerolog.Logger
}

// NewConfirmationService creates a new ConfirmationServiceImpl.
func NewConfirmationService(
	shopRepo ports.ShopRepository,
	itemRepo ports.ItemRepository,
	walletSvc ports.WalletService,
	codeSvc ports.CodeService,
	log zerolog.Logger,
) *ConfirmationServiceImpl {
	return &ConfirmationServiceImpl{
		shopRepo:  shopRepo,
		itemRepo:  itemRepo,
		walletSvc: walletSvc,
		codeSvc:   codeSvc,
		now:       time.Now,
		log:       log,
	}
}

// Confirm resolves a payment hash to its confirmation code. Terminal in one
// request; idempotent within the code history and the freshness window.
func (s *ConfirmationServiceImpl) Confirm(ctx context.Context, paymentHash string) (*ports.Confirmation, error) {
	payment, err := s.walletSvc.GetPayment(ctx, paymentHash)
	if err != nil {
		return nil, apperror.ErrUpstream("wallet", err)
	}
	if payment == nil {
		return nil, apperror.ErrNotFound(fmt.Sprintf("Payment %s", paymentHash))
	}
	if !payment.Settled {
		return nil, apperror.ErrNotSettled(paymentHash)
	}
	if !payment.FreshAt(s.now()) {
		return nil, apperror.ErrConfirmationExpired()
	}
	if payment.Extra.Item == "" {
		s.log.Warn().Str("payment_hash", paymentHash).Msg("settled payment without item correlation")
		return nil, apperror.ErrMissingCorrelation()
	}

	item, err := s.itemRepo.GetByID(ctx, payment.Extra.Item)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if item == nil {
		return nil, apperror.ErrIntegrity(fmt.Sprintf("item %s referenced by payment %s does not exist", payment.Extra.Item, paymentHash))
	}

	shop, err := s.shopRepo.GetByID(ctx, item.Shop)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if shop == nil {
		return nil, apperror.ErrIntegrity(fmt.Sprintf("shop %s missing for item %s", item.Shop, item.ID))
	}

	code, err := s.codeSvc.GetCode(shop, paymentHash)
	if err != nil {
		return nil, err
	}

	return &ports.Confirmation{
		Code:      code,
		ItemName:  item.Name,
		Price:     item.Price,
		Unit:      item.Unit,
		SettledAt: payment.CreatedAt,
	}, nil
}
