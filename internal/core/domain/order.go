package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderReferencePrefix marks references generated by the marketplace.
const OrderReferencePrefix = "ord_"

// OrderStatus is a position in the order state machine.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ShippingAddress is free-form delivery data supplied by the buyer.
type ShippingAddress struct {
	FullName   string `json:"full_name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Order is one buyer's purchase of one artwork. Price is the line total.
type Order struct {
	ID        uuid.UUID        `json:"id"`
	BuyerID   uuid.UUID        `json:"buyer_id"`
	ArtistID  uuid.UUID        `json:"artist_id"`
	ArtworkID uuid.UUID        `json:"artwork_id"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	CartID    *uuid.UUID       `json:"cart_id,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Status    OrderStatus      `json:"status"`
	Shipping  *ShippingAddress `json:"shipping,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// IsActive reports whether the order counts toward the one-live-order-per-artwork rule.
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCancelled
}

// IsTerminal returns true once the order can no longer transition.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// LineTotal is unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// EarningsSummary is derived from completed orders for one artist.
type EarningsSummary struct {
	ArtistID   uuid.UUID       `json:"artist_id"`
	TotalSales int64           `json:"total_sales"`
	Earnings   decimal.Decimal `json:"earnings"`
}

// NewOrderReference returns an opaque payment reference: the prefix and 32 hex chars.
func NewOrderReference() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return OrderReferencePrefix + hex.EncodeToString(b), nil
}
