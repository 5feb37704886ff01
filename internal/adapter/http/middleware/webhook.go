package middleware

import (
	"bytes"
	"io"

	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	HeaderPaystackSignature = "x-paystack-signature"

	// CtxRawBody holds the verified webhook body.
	CtxRawBody = "raw_body"
)

// PaystackSignature verifies the HMAC-SHA512 signature Paystack puts on every
// webhook. The raw body is kept in the context and restored on the request.
func PaystackSignature(sigSvc ports.SignatureService, secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			AbortOnBodyError(c, err)
			return
		}

		if !sigSvc.Verify(secretKey, body, c.GetHeader(HeaderPaystackSignature)) {
			response.AbortWithError(c, apperror.ErrInvalidWebhookSignature())
			return
		}

		c.Set(CtxRawBody, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}

// RawBody returns the body stored by PaystackSignature.
func RawBody(c *gin.Context) []byte {
	if v, ok := c.Get(CtxRawBody); ok {
		if b, ok := v.([]byte); ok {
			return b
		}
	}
	return nil
}
