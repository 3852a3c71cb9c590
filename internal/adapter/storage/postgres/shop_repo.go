package postgres

import (
	"context"
	"errors"
	"fmt"

	"lnurl-offlineshop/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ShopRepo implements ports.ShopRepository.
type ShopRepo struct {
	pool Pool
}

// NewShopRepo creates a new ShopRepo.
func NewShopRepo(pool Pool) *ShopRepo {
	return &ShopRepo{pool: pool}
}

// Create inserts a new shop.
func (r *ShopRepo) Create(ctx context.Context, s *domain.Shop) error {
	query := `INSERT INTO shops (id, wallet, method, wordlist)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.Wallet, string(s.Method), s.Wordlist)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

// GetByID fetches a shop by id. Returns nil, nil when absent.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	query := `SELECT id, wallet, method, wordlist FROM shops WHERE id = $1`

	s := &domain.Shop{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Wallet, &s.Method, &s.Wordlist)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop by id: %w", err)
	}
	return s, nil
}

// GetByWallet fetches the shop owned by a wallet. Returns nil, nil when absent.
func (r *ShopRepo) GetByWallet(ctx context.Context, wallet string) (*domain.Shop, error) {
	query := `SELECT id, wallet, method, wordlist FROM shops WHERE wallet = $1`

	s := &domain.Shop{}
	err := r.pool.QueryRow(ctx, query, wallet).Scan(&s.ID, &s.Wallet, &s.Method, &s.Wordlist)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop by wallet: %w", err)
	}
	return s, nil
}

// Update persists a shop's configuration.
func (r *ShopRepo) Update(ctx context.Context, s *domain.Shop) error {
	query := `UPDATE shops SET method = $1, wordlist = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, string(s.Method), s.Wordlist, s.ID)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shop not found: %s", s.ID)
	}
	return nil
}
