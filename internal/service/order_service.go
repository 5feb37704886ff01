package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/metrics"
	"art-marketplace/pkg/pagination"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderServiceImpl implements ports.OrderService.
type OrderServiceImpl struct {
	orderRepo   ports.OrderRepository
	artworkRepo ports.ArtworkRepository
	transactor  ports.DBTransactor
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(
	orderRepo ports.OrderRepository,
	artworkRepo ports.ArtworkRepository,
	transactor ports.DBTransactor,
	m *metrics.Metrics,
	log zerolog.Logger,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		orderRepo:   orderRepo,
		artworkRepo: artworkRepo,
		transactor:  transactor,
		metrics:     m,
		log:         log,
	}
}

// CreateOrder places a direct order in processing status.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, buyerID uuid.UUID, req ports.CreateOrderRequest) (*domain.Order, error) {
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

	existing, err := s.orderRepo.FindActive(ctx, buyerID, req.ArtworkID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find active order: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrOrderAlreadyExists()
	}

	reference, err := domain.NewOrderReference()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate reference: %w", err))
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		ArtistID:  artwork.ArtistID,
		ArtworkID: artwork.ID,
		Quantity:  req.Quantity,
		Price:     domain.LineTotal(artwork.Price, req.Quantity),
		CartID:    req.CartID,
		Reference: reference,
		Status:    domain.OrderStatusProcessing,
		Shipping:  req.Shipping,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// The partial unique index still catches a concurrent duplicate here.
	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		return nil, keepAppError("create order", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}

	s.metrics.IncOrderTransition(string(order.Status))
	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("buyer_id", buyerID.String()).
		Str("artwork_id", artwork.ID.String()).
		Str("price", order.Price.String()).
		Msg("order created")

	return order, nil
}

// Ship moves a processing order to shipped on behalf of its artist.
func (s *OrderServiceImpl) Ship(ctx context.Context, orderID, artistID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := CanShip(artistID, order); err != nil {
		return err
	}
	return s.transition(ctx, order, domain.OrderStatusProcessing, domain.OrderStatusShipped)
}

// ConfirmReceipt moves a shipped order to completed on behalf of its buyer.
func (s *OrderServiceImpl) ConfirmReceipt(ctx context.Context, orderID, buyerID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := CanConfirm(buyerID, order); err != nil {
		return err
	}
	return s.transition(ctx, order, domain.OrderStatusShipped, domain.OrderStatusCompleted)
}

func (s *OrderServiceImpl) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	limit, offset = pagination.Normalize(limit, offset)
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list buyer orders: %w", err))
	}
	return orders, nil
}

func (s *OrderServiceImpl) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	limit, offset = pagination.Normalize(limit, offset)
	orders, err := s.orderRepo.ListByArtist(ctx, artistID, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list artist orders: %w", err))
	}
	return orders, nil
}

// Earnings sums the artist's completed orders.
func (s *OrderServiceImpl) Earnings(ctx context.Context, artistID uuid.UUID) (*domain.EarningsSummary, error) {
	summary, err := s.orderRepo.EarningsByArtist(ctx, artistID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("earnings: %w", err))
	}
	return summary, nil
}

func (s *OrderServiceImpl) loadOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrOrderNotFound()
	}
	return order, nil
}

// transition applies from -> to with a conditional update, so a concurrent
// writer that moved the order first wins and this call reports InvalidState.
func (s *OrderServiceImpl) transition(ctx context.Context, order *domain.Order, from, to domain.OrderStatus) error {
	ok, err := s.orderRepo.TransitionStatus(ctx, order.ID, from, to)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("transition order: %w", err))
	}
	if !ok {
		return apperror.ErrInvalidState(fmt.Sprintf("Order is no longer %s", from))
	}

	s.metrics.IncOrderTransition(string(to))
	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status changed")
	return nil
}

// keepAppError passes repository AppErrors through and wraps anything else.
func keepAppError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}
