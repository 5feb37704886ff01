package handler

import (
	"errors"
	"net/http"

	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/adapter/http/middleware"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/pagination"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// callerID returns the authenticated user's id, writing 401 when absent.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a path parameter, writing 400 when malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds and sanitizes the request body into req.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.ErrBodyTooLarge())
			return false
		}
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				if fe.Field() == "Quantity" {
					response.Error(c, apperror.ErrInvalidQuantity())
					return false
				}
			}
		}
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(req)
	return true
}

// pageParams returns a normalized limit and offset from the query string.
func pageParams(c *gin.Context) (int, int, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return 0, 0, false
	}
	limit, offset := pagination.Normalize(q.Limit, q.Skip)
	return limit, offset, true
}
