package postgres

import (
	"context"
	"errors"
	"fmt"

	"lnurl-offlineshop/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ItemRepo implements ports.ItemRepository.
type ItemRepo struct {
	pool Pool
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(pool Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, i *domain.Item) error {
	query := `INSERT INTO items (id, shop, name, description, image, enabled, price, unit, fiat_base_multiplier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		i.ID, i.Shop, i.Name, i.Description, i.Image,
		i.Enabled, i.Price, i.Unit, i.FiatBaseMultiplier,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID fetches an item by id. Returns nil, nil when absent.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT id, shop, name, description, image, enabled, price, unit, fiat_base_multiplier
		FROM items WHERE id = $1`

	i := &domain.Item{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.Shop, &i.Name, &i.Description, &i.Image,
		&i.Enabled, &i.Price, &i.Unit, &i.FiatBaseMultiplier,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return i, nil
}

// ListByShop fetches all items of a shop.
func (r *ItemRepo) ListByShop(ctx context.Context, shopID string) ([]domain.Item, error) {
	query := `SELECT id, shop, name, description, image, enabled, price, unit, fiat_base_multiplier
		FROM items WHERE shop = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(
			&i.ID, &i.Shop, &i.Name, &i.Description, &i.Image,
			&i.Enabled, &i.Price, &i.Unit, &i.FiatBaseMultiplier,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Update persists changes to an item.
func (r *ItemRepo) Update(ctx context.Context, i *domain.Item) error {
	query := `UPDATE items SET name = $1, description = $2, image = $3, enabled = $4,
		price = $5, unit = $6, fiat_base_multiplier = $7 WHERE id = $8`

	tag, err := r.pool.Exec(ctx, query,
		i.Name, i.Description, i.Image, i.Enabled,
		i.Price, i.Unit, i.FiatBaseMultiplier, i.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %s", i.ID)
	}
	return nil
}

// Delete removes an item scoped to its shop.
func (r *ItemRepo) Delete(ctx context.Context, shopID, itemID string) error {
	query := `DELETE FROM items WHERE shop = $1 AND id = $2`

	_, err := r.pool.Exec(ctx, query, shopID, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
