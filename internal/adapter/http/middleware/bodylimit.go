package middleware

import (
	"errors"
	"net/http"

	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// AbortOnBodyError writes the error envelope for a failed body read.
func AbortOnBodyError(c *gin.Context, err error) {
	response.AbortWithError(c, bodyReadError(err))
}

// bodyReadError maps a body read failure to 413 or 400.
func bodyReadError(err error) *apperror.AppError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ErrBodyTooLarge()
	}
	return apperror.Validation("cannot read request body")
}
