package service

import (
	"context"
	"math"
	"strings"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxImageKB caps embedded (base64 data URL) item images. Linked http(s)
// images are exempt.
const maxImageKB = 100

// ShopServiceImpl implements ports.ShopService: the administrative surface
// over shops and items.
type ShopServiceImpl struct {
	shopRepo ports.ShopRepository
	itemRepo ports.ItemRepository
	codeSvc  ports.CodeService
	log      zerolog.Logger
}

// NewShopService creates a new ShopServiceImpl.
func NewShopService(
	shopRepo ports.ShopRepository,
	itemRepo ports.ItemRepository,
	codeSvc ports.CodeService,
	log zerolog.Logger,
) *ShopServiceImpl {
	return &ShopServiceImpl{
		shopRepo: shopRepo,
		itemRepo: itemRepo,
		codeSvc:  codeSvc,
		log:      log,
	}
}

// GetOrCreateShopByWallet returns the wallet's shop, creating it on first
// access with the default wordlist.
func (s *ShopServiceImpl) GetOrCreateShopByWallet(ctx context.Context, wallet string) (*domain.Shop, error) {
	shop, err := s.shopRepo.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if shop != nil {
		return shop, nil
	}

	shop = &domain.Shop{
		ID:       uuid.New().String(),
		Wallet:   wallet,
		Method:   domain.CodeMethodWordlist,
		Wordlist: domain.DefaultWordlistText(),
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	s.log.Info().Str("shop_id", shop.ID).Str("wallet", wallet).Msg("shop created on first access")
	return shop, nil
}

// UpdateShopMethod changes the confirmation method and/or wordlist, then
// resets the shop's code rotation so the new configuration takes effect
// immediately.
func (s *ShopServiceImpl) UpdateShopMethod(ctx context.Context, wallet string, req ports.UpdateShopRequest) (*domain.Shop, error) {
	if req.Method == domain.CodeMethodWordlist && strings.TrimSpace(req.Wordlist) == "" {
		return nil, apperror.ErrEmptyWordlist()
	}

	shop, err := s.GetOrCreateShopByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	shop.Method = req.Method
	if req.Wordlist != "" {
		shop.Wordlist = req.Wordlist
	}
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	s.codeSvc.Reset(shop)

	s.log.Info().Str("shop_id", shop.ID).Str("method", string(shop.Method)).Msg("shop configuration updated")
	return shop, nil
}

// CreateItem validates and stores a new item. New items start enabled.
func (s *ShopServiceImpl) CreateItem(ctx context.Context, shopID string, req ports.ItemRequest) (*domain.Item, error) {
	if err := validateItemRequest(&req); err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:                 uuid.New().String(),
		Shop:               shopID,
		Name:               req.Name,
		Description:        req.Description,
		Image:              req.Image,
		Enabled:            true,
		Price:              req.Price,
		Unit:               req.Unit,
		FiatBaseMultiplier: req.FiatBaseMultiplier,
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return item, nil
}

// UpdateItem validates and applies changes to an existing item of the shop.
func (s *ShopServiceImpl) UpdateItem(ctx context.Context, shopID, itemID string, req ports.ItemRequest) (*domain.Item, error) {
	if err := validateItemRequest(&req); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if item == nil || item.Shop != shopID {
		return nil, apperror.ErrNotFound("Item")
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Image = req.Image
	item.Price = req.Price
	item.Unit = req.Unit
	item.FiatBaseMultiplier = req.FiatBaseMultiplier
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return item, nil
}

// DeleteItem removes an item from the shop.
func (s *ShopServiceImpl) DeleteItem(ctx context.Context, shopID, itemID string) error {
	if err := s.itemRepo.Delete(ctx, shopID, itemID); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	return nil
}

// ListItems returns all items of the shop.
func (s *ShopServiceImpl) ListItems(ctx context.Context, shopID string) ([]domain.Item, error) {
	items, err := s.itemRepo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return items, nil
}

// validateItemRequest enforces the price and image invariants, mutating the
// request in place where coercion applies.
func validateItemRequest(req *ports.ItemRequest) error {
	// Sats prices are whole satoshis.
	if req.Unit == domain.UnitSats {
		req.Price = math.Trunc(req.Price)
	}
	if req.FiatBaseMultiplier < 1 {
		req.FiatBaseMultiplier = 1
	}

	if req.Image != "" && !strings.HasPrefix(req.Image, "http") {
		if kb := base64SizeKB(req.Image); kb > maxImageKB {
			return apperror.ErrImageTooLarge(kb)
		}
	}
	return nil
}

// base64SizeKB estimates the decoded size of an embedded image in KB.
func base64SizeKB(image string) int {
	payload := image
	if _, rest, ok := strings.Cut(image, ","); ok {
		payload = rest
	}
	size := len(payload)*3/4 - strings.Count(payload[max(0, len(payload)-2):], "=")
	return size / 1024
}
