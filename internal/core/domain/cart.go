package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a staged line. Title and Price are snapshotted from the artwork.
type CartItem struct {
	ArtworkID uuid.UUID       `json:"artwork_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart is a buyer's staged purchase set.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	BuyerID   uuid.UUID  `json:"buyer_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total is the sum of price times quantity over all items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(LineTotal(item.Price, item.Quantity))
	}
	return total
}

// IsCheckoutEligible reports whether the cart has items and a positive total.
func (c *Cart) IsCheckoutEligible() bool {
	return len(c.Items) > 0 && c.Total().IsPositive()
}

// MaxQuantity caps the quantity of a single cart line or order.
const MaxQuantity = 1000

// ValidQuantity reports whether q is within 1..MaxQuantity.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

// AddItem appends item, or bumps the quantity of an existing line for the same
// artwork. It returns false and leaves the cart untouched when the resulting
// quantity would fall outside 1..MaxQuantity.
func (c *Cart) AddItem(item CartItem) bool {
	if !ValidQuantity(item.Quantity) {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ArtworkID == item.ArtworkID {
			if c.Items[i].Quantity > MaxQuantity-item.Quantity {
				return false
			}
			c.Items[i].Quantity += item.Quantity
			return true
		}
	}
	c.Items = append(c.Items, item)
	return true
}
