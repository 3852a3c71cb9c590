package ports

import (
	"context"

	"lnurl-offlineshop/internal/core/domain"
)

// ShopRepository defines persistence operations for shops.
// Get methods return nil, nil when no row matches.
type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) error
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	GetByWallet(ctx context.Context, wallet string) (*domain.Shop, error)
	Update(ctx context.Context, shop *domain.Shop) error
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	ListByShop(ctx context.Context, shopID string) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, shopID, itemID string) error
}
