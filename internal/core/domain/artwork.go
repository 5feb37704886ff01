package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Artwork is a listed piece. ImageKey is an opaque object-storage key.
type Artwork struct {
	ID          uuid.UUID       `json:"id"`
	ArtistID    uuid.UUID       `json:"artist_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Medium      string          `json:"medium,omitempty"`
	Dimensions  string          `json:"dimensions,omitempty"`
	Description string          `json:"description,omitempty"`
	IsOriginal  bool            `json:"is_original"`
	ImageKey    string          `json:"image_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
