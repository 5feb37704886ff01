package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditService_Log_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(repo, zerolog.Nop())

	actor := uuid.New()
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionShipOrder, entry.Action)
			assert.NotEqual(t, uuid.Nil, entry.ID)
			assert.False(t, entry.CreatedAt.IsZero())
			return nil
		})

	svc.Log(context.Background(), &domain.AuditLog{
		ActorID:      &actor,
		Action:       domain.AuditActionShipOrder,
		ResourceType: "order",
		ResourceID:   uuid.New().String(),
		RequestID:    "req-1",
		IPAddress:    "127.0.0.1",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	svc.Wait(ctx)
	assert.NoError(t, ctx.Err(), "audit log not persisted in time")
}

func TestAuditService_Log_RepoErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(repo, zerolog.Nop())

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	svc.Log(context.Background(), &domain.AuditLog{Action: domain.AuditActionCheckout})
	svc.Wait(context.Background())
}

func TestAuditService_Log_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, zerolog.Nop())

	svc.Log(context.Background(), &domain.AuditLog{Action: domain.AuditActionLogin, ResourceType: "session"})
	svc.Wait(context.Background())
}
