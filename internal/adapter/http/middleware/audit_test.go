package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_RecordsRouteTemplateAndActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditSvc := mocks.NewMockAuditService(ctrl)

	actor := uuid.New()
	orderID := uuid.NewString()

	var got *domain.AuditLog
	auditSvc.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry *domain.AuditLog) {
		got = entry
	})

	r := gin.New()
	r.Use(RequestID(), AuditLog(auditSvc))
	r.POST("/api/v1/orders/:id/ship", func(c *gin.Context) {
		c.Set(CtxUserID, actor)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID+"/ship", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, domain.AuditActionShipOrder, got.Action)
	assert.Equal(t, "order", got.ResourceType)
	assert.Equal(t, orderID, got.ResourceID)
	assert.Equal(t, "req-7", got.RequestID)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, actor, *got.ActorID)
	assert.Contains(t, got.Details, `"status":200`)
}

func TestAuditLog_SkipsFailuresAndReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditSvc := mocks.NewMockAuditService(ctrl)
	auditSvc.EXPECT().Log(gomock.Any(), gomock.Any()).Times(0)

	r := gin.New()
	r.Use(AuditLog(auditSvc))
	r.POST("/api/v1/wallet/deposit", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/api/v1/wallet", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/cart/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
}
