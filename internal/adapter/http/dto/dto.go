package dto

import (
	"art-marketplace/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ---- Auth ----

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
	FullName string `json:"full_name" binding:"required,min=1,max=100,safe_text"`
	Role     string `json:"role" binding:"required,oneof=buyer artist"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // Unix seconds
}

// ---- Artworks ----

type CreateArtworkRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200,safe_text"`
	Price       decimal.Decimal `json:"price" binding:"required,gt=0"`
	Medium      string          `json:"medium" binding:"max=100,safe_text"`
	Dimensions  string          `json:"dimensions" binding:"max=100,safe_text"`
	Description string          `json:"description" binding:"max=2000,safe_text"`
	IsOriginal  *bool           `json:"is_original"`
	ImageKey    string          `json:"image_key" binding:"max=512,safe_text"`
}

// ---- Cart & checkout ----

type AddToCartRequest struct {
	ArtworkID string `json:"artwork_id" binding:"required,uuid_str"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1,max=1000"`
}

type CheckoutRequest struct {
	CartID string `json:"cart_id" binding:"required,uuid_str"`
}

// ---- Orders ----

type CreateOrderRequest struct {
	ArtworkID string                  `json:"artwork_id" binding:"required,uuid_str"`
	Quantity  *int                    `json:"quantity" binding:"omitempty,min=1,max=1000"`
	CartID    string                  `json:"cart_id" binding:"omitempty,uuid_str"`
	Shipping  *domain.ShippingAddress `json:"shipping"`
}

// QuantityOr returns *q, or def when the client omitted it.
func QuantityOr(q *int, def int) int {
	if q == nil {
		return def
	}
	return *q
}

// ---- Wallet ----

// AmountRequest carries a wallet amount. Positivity is checked by the
// ledger so that it reports InvalidAmount rather than a binding error.
type AmountRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=100,safe_text"`
}

type TransferRequest struct {
	ToUserID string          `json:"to_user_id" binding:"required,uuid_str"`
	Amount   decimal.Decimal `json:"amount"`
}

type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ---- Listing ----

// ListQuery binds limit/skip query parameters.
type ListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=0"`
	Skip  int `form:"skip" binding:"omitempty,min=0"`
}

// ---- Webhook ----

type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
