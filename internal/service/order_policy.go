package service

import (
	"fmt"

	"art-marketplace/internal/core/domain"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
)

// CanShip reports whether artistID may move order to shipped.
func CanShip(artistID uuid.UUID, order *domain.Order) error {
	if order.ArtistID != artistID {
		return apperror.ErrUnauthorizedAction("You cannot update another artist's order.")
	}
	if order.Status != domain.OrderStatusProcessing {
		return apperror.ErrInvalidState(fmt.Sprintf("Order cannot be shipped while %s", order.Status))
	}
	return nil
}

// CanConfirm reports whether buyerID may confirm receipt of order.
func CanConfirm(buyerID uuid.UUID, order *domain.Order) error {
	if order.BuyerID != buyerID {
		return apperror.ErrUnauthorizedAction("You cannot confirm another buyer's order.")
	}
	switch order.Status {
	case domain.OrderStatusCompleted:
		return apperror.ErrInvalidState("Order already confirmed")
	case domain.OrderStatusShipped:
		return nil
	default:
		return apperror.ErrInvalidState(fmt.Sprintf("Order cannot be confirmed while %s", order.Status))
	}
}
