package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Infrastructure Ports ---

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.Role
	Email  string
}

// SignatureService verifies gateway webhook signatures.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
}

// PaymentGateway is the logical contract of the hosted payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, req GatewayInitRequest) (*GatewayInitResult, error)
	Verify(ctx context.Context, reference string) (*GatewayVerifyResult, error)
}

// PaymentMetadata travels with a gateway transaction and comes back on verify.
type PaymentMetadata struct {
	CartID  string            `json:"cart_id,omitempty"`
	BuyerID string            `json:"buyer_id,omitempty"`
	Items   []domain.CartItem `json:"items,omitempty"`
}

type GatewayInitRequest struct {
	Email       string
	AmountMinor int64 // kobo
	Reference   string
	Metadata    PaymentMetadata
}

type GatewayInitResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type GatewayVerifyResult struct {
	Status        string // "success", "failed", "abandoned", ...
	Reference     string
	AmountMinor   int64
	Metadata      PaymentMetadata
	CustomerEmail string
}

// EmailQueue hands notification emails to the mail worker.
type EmailQueue interface {
	Enqueue(ctx context.Context, msg domain.EmailMessage) error
}

// EmailSource yields queued emails to the mail worker. It returns (nil, nil)
// when nothing arrived within timeout.
type EmailSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.EmailMessage, error)
}

// MailSender delivers one email to its recipient.
type MailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// NotificationMarker records that a reference has been notified.
type NotificationMarker interface {
	// MarkNotified returns true the first time it is called for reference.
	MarkNotified(ctx context.Context, reference string) (bool, error)
}

// Notifier sends settlement notifications.
type Notifier interface {
	NotifyBuyerConfirmation(ctx context.Context, email, reference string, orders []domain.Order) error
	NotifyArtistSale(ctx context.Context, email string, order domain.Order) error
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// WalletService is the wallet ledger engine.
type WalletService interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reference string) (*domain.Wallet, error)
	// Withdraw returns false without error on insufficient funds.
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reference string) (bool, error)
	// Transfer returns false without error on insufficient funds.
	Transfer(ctx context.Context, fromUserID, toUserID uuid.UUID, amount decimal.Decimal) (bool, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.WalletTransaction, error)
}

// OrderService is the order lifecycle engine.
type OrderService interface {
	CreateOrder(ctx context.Context, buyerID uuid.UUID, req CreateOrderRequest) (*domain.Order, error)
	Ship(ctx context.Context, orderID, artistID uuid.UUID) error
	ConfirmReceipt(ctx context.Context, orderID, buyerID uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]domain.Order, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]domain.Order, error)
	Earnings(ctx context.Context, artistID uuid.UUID) (*domain.EarningsSummary, error)
}

// CreateOrderRequest holds validated input for direct order placement.
type CreateOrderRequest struct {
	ArtworkID uuid.UUID
	Quantity  int
	Shipping  *domain.ShippingAddress
	CartID    *uuid.UUID
}

// CheckoutService is the checkout and settlement orchestrator.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, buyerID, cartID uuid.UUID) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, reference string) (*SettlementResult, error)
}

type CheckoutSession struct {
	AuthorizationURL string          `json:"authorization_url"`
	AccessCode       string          `json:"access_code"`
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
	OrderIDs         []uuid.UUID     `json:"order_ids"`
}

type SettlementResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Reference     string `json:"reference"`
	OrdersUpdated int64  `json:"orders_updated"`
}

// CartService manages buyer carts.
type CartService interface {
	AddToCart(ctx context.Context, buyerID uuid.UUID, req AddToCartRequest) (*CartView, error)
	GetCart(ctx context.Context, buyerID, cartID uuid.UUID) (*CartView, error)
	DeleteCart(ctx context.Context, buyerID, cartID uuid.UUID) error
}

type AddToCartRequest struct {
	ArtworkID uuid.UUID
	Quantity  int
}

// CartView is a cart with its computed total.
type CartView struct {
	*domain.Cart
	Total decimal.Decimal `json:"total"`
}

// ArtworkService manages artwork listings.
type ArtworkService interface {
	Create(ctx context.Context, artistID uuid.UUID, req CreateArtworkRequest) (*domain.Artwork, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Artwork, error)
}

type CreateArtworkRequest struct {
	Title       string
	Price       decimal.Decimal
	Medium      string
	Dimensions  string
	Description string
	IsOriginal  bool
	ImageKey    string
}

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error)
}

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
}
