package handler

import (
	"net/http"

	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler serves the buyer's cart.
type CartHandler struct {
	cartSvc ports.CartService
}

func NewCartHandler(cartSvc ports.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.cartSvc.AddToCart(c.Request.Context(), buyerID, ports.AddToCartRequest{
		ArtworkID: uuid.MustParse(req.ArtworkID),
		Quantity:  dto.QuantityOr(req.Quantity, 1),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cart)
}

// Get handles GET /api/v1/cart/:id.
func (h *CartHandler) Get(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	cartID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	cart, err := h.cartSvc.GetCart(c.Request.Context(), buyerID, cartID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cart)
}

// Delete handles DELETE /api/v1/cart/:id.
func (h *CartHandler) Delete(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	cartID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.cartSvc.DeleteCart(c.Request.Context(), buyerID, cartID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OperationResponse{Success: true, Message: "Cart deleted"})
}
