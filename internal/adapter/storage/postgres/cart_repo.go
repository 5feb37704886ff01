package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cartColumns = `id, buyer_id, items, created_at, updated_at`

// CartRepo implements ports.CartRepository. Items are stored as JSONB.
type CartRepo struct {
	pool Pool
}

// NewCartRepo creates a new CartRepo.
func NewCartRepo(pool Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

func (r *CartRepo) Create(ctx context.Context, c *domain.Cart) error {
	items, err := marshalItems(c.Items)
	if err != nil {
		return err
	}

	query := `INSERT INTO carts (` + cartColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, c.ID, c.BuyerID, items, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *CartRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`
	return r.getOne(ctx, "get cart", query, id)
}

func (r *CartRepo) GetByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1 AND buyer_id = $2`
	return r.getOne(ctx, "get buyer cart", query, id, buyerID)
}

// GetByBuyer returns the buyer's most recently updated cart.
func (r *CartRepo) GetByBuyer(ctx context.Context, buyerID uuid.UUID) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts
		WHERE buyer_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`
	return r.getOne(ctx, "get open cart", query, buyerID)
}

func (r *CartRepo) UpdateItems(ctx context.Context, c *domain.Cart) error {
	items, err := marshalItems(c.Items)
	if err != nil {
		return err
	}

	query := `UPDATE carts SET items = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.pool.Exec(ctx, query, items, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update cart items: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart not found: %s", c.ID)
	}
	return nil
}

func (r *CartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *CartRepo) getOne(ctx context.Context, op, query string, args ...any) (*domain.Cart, error) {
	c := &domain.Cart{}
	var items []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.BuyerID, &items, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, fmt.Errorf("%s: decode items: %w", op, err)
		}
	}
	return c, nil
}

func marshalItems(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}
	return b, nil
}
