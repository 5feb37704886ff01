package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"art-marketplace/internal/core/domain"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, buyer_id, artist_id, artwork_id, quantity, price, cart_id, reference, status, shipping, created_at, updated_at`

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts an order within a transaction. A second live order for the
// same buyer and artwork maps to apperror.ErrOrderAlreadyExists.
func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	shipping, err := marshalShipping(o.Shipping)
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.Exec(ctx, query,
		o.ID, o.BuyerID, o.ArtistID, o.ArtworkID, o.Quantity, o.Price,
		o.CartID, o.Reference, string(o.Status), shipping, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintOrdersLive) {
			return apperror.ErrOrderAlreadyExists()
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, "get order by id", query, id)
}

func (r *OrderRepo) FindActive(ctx context.Context, buyerID, artworkID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE buyer_id = $1 AND artwork_id = $2 AND status <> 'cancelled'
		LIMIT 1`
	return r.getOne(ctx, "find active order", query, buyerID, artworkID)
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, "list buyer orders", query, buyerID, limit, offset)
}

func (r *OrderRepo) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE artist_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, "list artist orders", query, artistID, limit, offset)
}

func (r *OrderRepo) ListByReference(ctx context.Context, reference string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE reference = $1
		ORDER BY created_at ASC`
	return r.list(ctx, "list orders by reference", query, reference)
}

// TransitionStatus performs a compare-and-set on status.
func (r *OrderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	tag, err := r.pool.Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transition order %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaidByReference completes the pending orders of one checkout. Orders
// already past pending are left alone, so replays change nothing.
func (r *OrderRepo) MarkPaidByReference(ctx context.Context, reference string) (int64, error) {
	query := `UPDATE orders SET status = 'completed', updated_at = NOW()
		WHERE reference = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, reference)
	if err != nil {
		return 0, fmt.Errorf("mark orders paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepo) CancelPending(ctx context.Context, tx pgx.Tx, buyerID, artworkID uuid.UUID) (int64, error) {
	query := `UPDATE orders SET status = 'cancelled', updated_at = NOW()
		WHERE buyer_id = $1 AND artwork_id = $2 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, buyerID, artworkID)
	if err != nil {
		return 0, fmt.Errorf("cancel pending orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepo) EarningsByArtist(ctx context.Context, artistID uuid.UUID) (*domain.EarningsSummary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(price), 0) FROM orders
		WHERE artist_id = $1 AND status = 'completed'`

	summary := &domain.EarningsSummary{ArtistID: artistID}
	if err := r.pool.QueryRow(ctx, query, artistID).Scan(&summary.TotalSales, &summary.Earnings); err != nil {
		return nil, fmt.Errorf("sum artist earnings: %w", err)
	}
	return summary, nil
}

func (r *OrderRepo) getOne(ctx context.Context, op, query string, args ...any) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r *OrderRepo) list(ctx context.Context, op, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	var status string
	var shipping []byte
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.ArtistID, &o.ArtworkID, &o.Quantity, &o.Price,
		&o.CartID, &o.Reference, &status, &shipping, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(shipping) > 0 {
		o.Shipping = &domain.ShippingAddress{}
		if err := json.Unmarshal(shipping, o.Shipping); err != nil {
			return nil, fmt.Errorf("decode shipping: %w", err)
		}
	}
	return o, nil
}

func marshalShipping(s *domain.ShippingAddress) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode shipping: %w", err)
	}
	return b, nil
}
