package service

import (
	"context"
	"fmt"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartServiceImpl implements ports.CartService. A buyer has at most one open
// cart; adding to it snapshots the artwork's title and price.
type CartServiceImpl struct {
	cartRepo    ports.CartRepository
	artworkRepo ports.ArtworkRepository
	log         zerolog.Logger
}

// NewCartService creates a new CartServiceImpl.
func NewCartService(cartRepo ports.CartRepository, artworkRepo ports.ArtworkRepository, log zerolog.Logger) *CartServiceImpl {
	return &CartServiceImpl{cartRepo: cartRepo, artworkRepo: artworkRepo, log: log}
}

func (s *CartServiceImpl) AddToCart(ctx context.Context, buyerID uuid.UUID, req ports.AddToCartRequest) (*ports.CartView, error) {
	if !domain.ValidQuantity(req.Quantity) {
		return nil, apperror.ErrInvalidQuantity()
	}

	artwork, err := s.artworkRepo.GetByID(ctx, req.ArtworkID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get artwork: %w", err))
	}
	if artwork == nil {
		return nil, apperror.ErrArtworkNotFound()
	}

	cart, err := s.cartRepo.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get cart: %w", err))
	}

	item := domain.CartItem{
		ArtworkID: artwork.ID,
		Title:     artwork.Title,
		Price:     artwork.Price,
		Quantity:  req.Quantity,
	}
	now := time.Now().UTC()

	if cart == nil {
		cart = &domain.Cart{
			ID:        uuid.New(),
			BuyerID:   buyerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		cart.AddItem(item)
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create cart: %w", err))
		}
	} else {
		if !cart.AddItem(item) {
			return nil, apperror.ErrInvalidQuantity()
		}
		cart.UpdatedAt = now
		if err := s.cartRepo.UpdateItems(ctx, cart); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update cart: %w", err))
		}
	}

	s.log.Debug().
		Str("cart_id", cart.ID.String()).
		Str("artwork_id", artwork.ID.String()).
		Int("quantity", req.Quantity).
		Msg("cart item added")

	return viewOf(cart), nil
}

func (s *CartServiceImpl) GetCart(ctx context.Context, buyerID, cartID uuid.UUID) (*ports.CartView, error) {
	cart, err := s.ownedCart(ctx, buyerID, cartID)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *CartServiceImpl) DeleteCart(ctx context.Context, buyerID, cartID uuid.UUID) error {
	if _, err := s.ownedCart(ctx, buyerID, cartID); err != nil {
		return err
	}
	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete cart: %w", err))
	}
	return nil
}

func (s *CartServiceImpl) ownedCart(ctx context.Context, buyerID, cartID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.GetByIDAndBuyer(ctx, cartID, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get cart: %w", err))
	}
	if cart == nil {
		return nil, apperror.ErrCartNotFound()
	}
	return cart, nil
}

func viewOf(cart *domain.Cart) *ports.CartView {
	return &ports.CartView{Cart: cart, Total: cart.Total()}
}
