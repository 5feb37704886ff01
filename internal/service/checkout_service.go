package service

import (
	"context"
	"fmt"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const gatewayStatusSuccess = "success"

// CheckoutServiceImpl turns carts into pending orders behind a gateway
// transaction and settles them once the gateway confirms payment.
type CheckoutServiceImpl struct {
	cartRepo    ports.CartRepository
	orderRepo   ports.OrderRepository
	artworkRepo ports.ArtworkRepository
	userRepo    ports.UserRepository
	gateway     ports.PaymentGateway
	notifier    ports.Notifier
	marker      ports.NotificationMarker
	transactor  ports.DBTransactor
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// CheckoutDeps groups the collaborators of the checkout orchestrator.
type CheckoutDeps struct {
	Carts      ports.CartRepository
	Orders     ports.OrderRepository
	Artworks   ports.ArtworkRepository
	Users      ports.UserRepository
	Gateway    ports.PaymentGateway
	Notifier   ports.Notifier
	Marker     ports.NotificationMarker
	Transactor ports.DBTransactor
	Metrics    *metrics.Metrics
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(deps CheckoutDeps, log zerolog.Logger) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		cartRepo:    deps.Carts,
		orderRepo:   deps.Orders,
		artworkRepo: deps.Artworks,
		userRepo:    deps.Users,
		gateway:     deps.Gateway,
		notifier:    deps.Notifier,
		marker:      deps.Marker,
		transactor:  deps.Transactor,
		metrics:     deps.Metrics,
		log:         log,
	}
}

// CreateCheckoutSession opens a gateway transaction for the cart and records
// one pending order per line under a shared reference.
func (s *CheckoutServiceImpl) CreateCheckoutSession(ctx context.Context, buyerID, cartID uuid.UUID) (*ports.CheckoutSession, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get cart: %w", err))
	}
	if cart == nil {
		return nil, apperror.ErrCartNotFound()
	}
	if cart.BuyerID != buyerID {
		return nil, apperror.ErrUnauthorizedAction("You cannot check out another buyer's cart.")
	}
	if len(cart.Items) == 0 {
		return nil, apperror.ErrCartEmpty()
	}
	if !cart.IsCheckoutEligible() {
		return nil, apperror.Validation("Cart total must be greater than zero")
	}

	email := s.buyerEmail(ctx, buyerID)

	artistIDs := make(map[uuid.UUID]uuid.UUID, len(cart.Items))
	for _, item := range cart.Items {
		if !domain.ValidQuantity(item.Quantity) {
			return nil, apperror.ErrInvalidQuantity()
		}
		existing, err := s.orderRepo.FindActive(ctx, buyerID, item.ArtworkID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find active order: %w", err))
		}
		// A pending order is an abandoned earlier checkout and gets superseded below.
		if existing != nil && existing.Status != domain.OrderStatusPending {
			return nil, apperror.ErrOrderAlreadyExists()
		}

		artwork, err := s.artworkRepo.GetByID(ctx, item.ArtworkID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get artwork: %w", err))
		}
		if artwork == nil {
			return nil, apperror.ErrArtworkNotFound()
		}
		artistIDs[item.ArtworkID] = artwork.ArtistID
	}

	reference, err := domain.NewOrderReference()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate reference: %w", err))
	}

	total := cart.Total()
	amountMinor, err := domain.ToMinorUnits(total)
	if err != nil {
		return nil, apperror.Validation("Cart total is too large")
	}
	initResult, err := s.gateway.Initialize(ctx, ports.GatewayInitRequest{
		Email:       email,
		AmountMinor: amountMinor,
		Reference:   reference,
		Metadata: ports.PaymentMetadata{
			CartID:  cart.ID.String(),
			BuyerID: buyerID.String(),
			Items:   cart.Items,
		},
	})
	if err != nil {
		s.metrics.IncSettlement("init_failed")
		return nil, apperror.ErrGatewayInit(err)
	}

	orders, err := s.persistPendingOrders(ctx, cart, buyerID, reference, artistIDs)
	if err != nil {
		return nil, err
	}

	session := &ports.CheckoutSession{
		AuthorizationURL: initResult.AuthorizationURL,
		AccessCode:       initResult.AccessCode,
		Reference:        reference,
		Amount:           total,
		OrderIDs:         make([]uuid.UUID, 0, len(orders)),
	}
	for _, o := range orders {
		session.OrderIDs = append(session.OrderIDs, o.ID)
	}

	s.log.Info().
		Str("buyer_id", buyerID.String()).
		Str("cart_id", cart.ID.String()).
		Str("reference", reference).
		Str("amount", total.String()).
		Int("orders", len(orders)).
		Msg("checkout session created")

	return session, nil
}

func (s *CheckoutServiceImpl) persistPendingOrders(
	ctx context.Context,
	cart *domain.Cart,
	buyerID uuid.UUID,
	reference string,
	artistIDs map[uuid.UUID]uuid.UUID,
) ([]*domain.Order, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	cartID := cart.ID
	orders := make([]*domain.Order, 0, len(cart.Items))

	for _, item := range cart.Items {
		cancelled, err := s.orderRepo.CancelPending(ctx, dbTx, buyerID, item.ArtworkID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("cancel stale orders: %w", err))
		}
		if cancelled > 0 {
			s.log.Debug().
				Str("artwork_id", item.ArtworkID.String()).
				Int64("cancelled", cancelled).
				Msg("superseded stale pending orders")
		}

		order := &domain.Order{
			ID:        uuid.New(),
			BuyerID:   buyerID,
			ArtistID:  artistIDs[item.ArtworkID],
			ArtworkID: item.ArtworkID,
			Quantity:  item.Quantity,
			Price:     domain.LineTotal(item.Price, item.Quantity),
			CartID:    &cartID,
			Reference: reference,
			Status:    domain.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
			return nil, keepAppError("create order", err)
		}
		orders = append(orders, order)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}
	return orders, nil
}

// VerifyPayment settles every pending order carrying reference. Calling it
// again for a settled reference updates nothing and sends nothing. A payment
// whose orders were all superseded by a later checkout settles nothing: the
// cart is kept and the payment is reported as orphaned.
func (s *CheckoutServiceImpl) VerifyPayment(ctx context.Context, reference string) (*ports.SettlementResult, error) {
	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.metrics.IncSettlement("verify_failed")
		return nil, apperror.ErrGatewayVerify(err)
	}
	if result.Status != gatewayStatusSuccess {
		s.metrics.IncSettlement("not_successful")
		s.log.Warn().
			Str("reference", reference).
			Str("gateway_status", result.Status).
			Msg("payment not successful")
		return nil, apperror.ErrPaymentNotSuccessful()
	}

	updated, err := s.orderRepo.MarkPaidByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark orders paid: %w", err))
	}

	orders, err := s.orderRepo.ListByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load settled orders: %w", err))
	}
	settled := completedOrders(orders)
	if len(settled) == 0 {
		s.metrics.IncSettlement("orphaned")
		s.log.Error().
			Str("reference", reference).
			Int64("amount_minor", result.AmountMinor).
			Str("cart_id", result.Metadata.CartID).
			Int("orders", len(orders)).
			Msg("payment captured for a reference with no settled orders")
		return &ports.SettlementResult{
			Success:   false,
			Message:   "Payment received but no orders were settled for this reference",
			Reference: reference,
		}, nil
	}

	if updated > 0 {
		s.metrics.IncSettlement("settled")
	} else {
		s.metrics.IncSettlement("replayed")
	}

	s.clearCart(ctx, result.Metadata.CartID)
	s.notifyOnce(ctx, reference, result.CustomerEmail, settled)

	s.log.Info().
		Str("reference", reference).
		Int64("orders_updated", updated).
		Msg("payment verified")

	return &ports.SettlementResult{
		Success:       true,
		Message:       fmt.Sprintf("Payment verified and %d orders updated", updated),
		Reference:     reference,
		OrdersUpdated: updated,
	}, nil
}

func completedOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

func (s *CheckoutServiceImpl) clearCart(ctx context.Context, rawCartID string) {
	if rawCartID == "" {
		return
	}
	cartID, err := uuid.Parse(rawCartID)
	if err != nil {
		s.log.Warn().Str("cart_id", rawCartID).Msg("gateway metadata carried an invalid cart id")
		return
	}
	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		s.log.Warn().Err(err).Str("cart_id", rawCartID).Msg("failed to delete settled cart")
	}
}

// notifyOnce sends the buyer confirmation and artist sale emails for the
// completed orders the first time a reference settles. Failures here never
// fail settlement.
func (s *CheckoutServiceImpl) notifyOnce(ctx context.Context, reference, buyerEmail string, orders []domain.Order) {
	if len(orders) == 0 {
		return
	}
	first, err := s.marker.MarkNotified(ctx, reference)
	if err != nil {
		s.log.Warn().Err(err).Str("reference", reference).Msg("notification marker unavailable, sending anyway")
		first = true
	}
	if !first {
		return
	}

	if buyerEmail == "" {
		buyerEmail = s.buyerEmail(ctx, orders[0].BuyerID)
	}
	if err := s.notifier.NotifyBuyerConfirmation(ctx, buyerEmail, reference, orders); err != nil {
		s.log.Warn().Err(err).Str("reference", reference).Msg("buyer confirmation failed")
	}

	for _, order := range orders {
		artist, err := s.userRepo.GetByID(ctx, order.ArtistID)
		if err != nil || artist == nil {
			s.log.Warn().Err(err).Str("artist_id", order.ArtistID.String()).Msg("artist email unavailable")
			continue
		}
		if err := s.notifier.NotifyArtistSale(ctx, artist.Email, order); err != nil {
			s.log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("artist sale notification failed")
		}
	}
}

func (s *CheckoutServiceImpl) buyerEmail(ctx context.Context, buyerID uuid.UUID) string {
	user, err := s.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		s.log.Warn().Err(err).Str("buyer_id", buyerID.String()).Msg("buyer lookup failed, using placeholder email")
	}
	if user != nil && user.Email != "" {
		return user.Email
	}
	return fmt.Sprintf("buyer_%s@example.com", buyerID)
}
