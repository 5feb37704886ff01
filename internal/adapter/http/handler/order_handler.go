package handler

import (
	"net/http"

	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler exposes the order lifecycle to buyers and artists.
type OrderHandler struct {
	orderSvc ports.OrderService
}

func NewOrderHandler(orderSvc ports.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ports.CreateOrderRequest{
		ArtworkID: uuid.MustParse(req.ArtworkID),
		Quantity:  dto.QuantityOr(req.Quantity, 1),
		Shipping:  req.Shipping,
	}
	if req.CartID != "" {
		cartID := uuid.MustParse(req.CartID)
		in.CartID = &cartID
	}

	order, err := h.orderSvc.CreateOrder(c.Request.Context(), buyerID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// ListMine handles GET /api/v1/orders.
func (h *OrderHandler) ListMine(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	orders, err := h.orderSvc.ListByBuyer(c.Request.Context(), buyerID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, orders, limit, offset, len(orders))
}

// ListForArtist handles GET /api/v1/artist/orders.
func (h *OrderHandler) ListForArtist(c *gin.Context) {
	artistID, ok := callerID(c)
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	orders, err := h.orderSvc.ListByArtist(c.Request.Context(), artistID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, orders, limit, offset, len(orders))
}

// Earnings handles GET /api/v1/artist/earnings.
func (h *OrderHandler) Earnings(c *gin.Context) {
	artistID, ok := callerID(c)
	if !ok {
		return
	}
	summary, err := h.orderSvc.Earnings(c.Request.Context(), artistID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Ship handles POST /api/v1/orders/:id/ship.
func (h *OrderHandler) Ship(c *gin.Context) {
	artistID, ok := callerID(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderSvc.Ship(c.Request.Context(), orderID, artistID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OperationResponse{Success: true, Message: "Order marked as shipped"})
}

// Confirm handles POST /api/v1/orders/:id/confirm.
func (h *OrderHandler) Confirm(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderSvc.ConfirmReceipt(c.Request.Context(), orderID, buyerID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OperationResponse{Success: true, Message: "Receipt confirmed"})
}
