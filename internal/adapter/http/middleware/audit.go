package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type auditTarget struct {
	action       domain.AuditAction
	resourceType string
	// idParam names the route parameter holding the resource id, if any.
	idParam string
}

// auditRoutes maps "METHOD route-template" to what gets recorded.
var auditRoutes = map[string]auditTarget{
	"POST /api/v1/auth/register":      {domain.AuditActionRegister, "user", ""},
	"POST /api/v1/auth/login":         {domain.AuditActionLogin, "session", ""},
	"POST /api/v1/wallet/deposit":     {domain.AuditActionDeposit, "wallet", ""},
	"POST /api/v1/wallet/withdraw":    {domain.AuditActionWithdraw, "wallet", ""},
	"POST /api/v1/wallet/transfer":    {domain.AuditActionTransfer, "wallet", ""},
	"POST /api/v1/orders":             {domain.AuditActionCreateOrder, "order", ""},
	"POST /api/v1/orders/:id/ship":    {domain.AuditActionShipOrder, "order", "id"},
	"POST /api/v1/orders/:id/confirm": {domain.AuditActionConfirmReceipt, "order", "id"},
	"POST /api/v1/checkout":           {domain.AuditActionCheckout, "cart", ""},
	"POST /api/v1/artworks":           {domain.AuditActionCreateArtwork, "artwork", ""},
}

// AuditLog records successful mutating requests through auditSvc.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		target, ok := auditRoutes[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}

		var actorID *uuid.UUID
		if id, ok := UserID(c); ok {
			actorID = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})

		entry := &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       target.action,
			ResourceType: target.resourceType,
			RequestID:    response.RequestID(c),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		}
		if target.idParam != "" {
			entry.ResourceID = c.Param(target.idParam)
		}

		auditSvc.Log(c.Request.Context(), entry)
	}
}
