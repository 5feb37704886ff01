package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Lookups return (nil, nil) when the record does not exist.

// UserRepository defines persistence operations for marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ArtworkRepository defines persistence operations for listed artworks.
type ArtworkRepository interface {
	Create(ctx context.Context, artwork *domain.Artwork) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx lock the wallet row until the transaction ends.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)
	// GetOrCreateForUpdate inserts a zero-balance wallet when none exists and
	// returns the locked row either way.
	GetOrCreateForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, currency string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// WalletTransactionRepository persists the append-only ledger.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.WalletTransaction, error)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// FindActive returns the buyer's non-cancelled order for artworkID, if any.
	FindActive(ctx context.Context, buyerID, artworkID uuid.UUID) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]domain.Order, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]domain.Order, error)
	ListByReference(ctx context.Context, reference string) ([]domain.Order, error)
	// TransitionStatus moves the order from one status to another in a single
	// conditional update. It returns false when the order was not in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error)
	// MarkPaidByReference completes every pending order carrying reference and
	// returns how many rows changed.
	MarkPaidByReference(ctx context.Context, reference string) (int64, error)
	// CancelPending cancels the buyer's pending orders for artworkID.
	CancelPending(ctx context.Context, tx pgx.Tx, buyerID, artworkID uuid.UUID) (int64, error)
	EarningsByArtist(ctx context.Context, artistID uuid.UUID) (*domain.EarningsSummary, error)
}

// CartRepository defines persistence operations for carts.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	GetByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*domain.Cart, error)
	GetByBuyer(ctx context.Context, buyerID uuid.UUID) (*domain.Cart, error)
	UpdateItems(ctx context.Context, cart *domain.Cart) error
	// Delete removes the cart. Deleting an absent cart is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
