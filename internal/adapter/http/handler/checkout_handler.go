package handler

import (
	"net/http"

	"art-marketplace/internal/adapter/gateway/paystack"
	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/adapter/http/middleware"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler starts checkout sessions and settles payments, either on
// buyer poll or on the gateway webhook.
type CheckoutHandler struct {
	checkoutSvc ports.CheckoutService
	log         zerolog.Logger
}

func NewCheckoutHandler(checkoutSvc ports.CheckoutService, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc, log: log}
}

// Create handles POST /api/v1/checkout.
func (h *CheckoutHandler) Create(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.checkoutSvc.CreateCheckoutSession(c.Request.Context(), buyerID, uuid.MustParse(req.CartID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Verify handles GET /api/v1/checkout/verify/:reference.
func (h *CheckoutHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		response.Error(c, apperror.Validation("reference is required"))
		return
	}
	result, err := h.checkoutSvc.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Webhook handles POST /api/v1/webhooks/paystack. The signature has already
// been checked by middleware.PaystackSignature.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	event, err := paystack.ParseWebhookEvent(middleware.RawBody(c))
	if err != nil {
		response.Error(c, apperror.Validation("invalid webhook payload"))
		return
	}

	if event.Event != paystack.EventChargeSuccess || event.Data.Reference == "" {
		h.log.Debug().Str("event", event.Event).Msg("webhook ignored")
		c.JSON(http.StatusOK, dto.WebhookAck{Success: true, Message: "Webhook received"})
		return
	}

	result, err := h.checkoutSvc.VerifyPayment(c.Request.Context(), event.Data.Reference)
	if err != nil {
		h.log.Warn().Err(err).Str("reference", event.Data.Reference).Msg("webhook settlement failed")
		response.Error(c, withBadRequest(err))
		return
	}
	c.JSON(http.StatusOK, dto.WebhookAck{Success: true, Message: result.Message})
}

// withBadRequest reports any settlement failure to the gateway as 400 while
// keeping the error code.
func withBadRequest(err error) error {
	code := apperror.CodeOf(err)
	if code == "" {
		code = "PAY_002"
	}
	return apperror.Wrap(code, "Webhook processing failed", http.StatusBadRequest, err)
}
