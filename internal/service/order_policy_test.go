package service

import (
	"testing"

	"art-marketplace/internal/core/domain"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanShip(t *testing.T) {
	artist := uuid.New()

	tests := []struct {
		name     string
		actor    uuid.UUID
		status   domain.OrderStatus
		wantCode string
	}{
		{"owner processing", artist, domain.OrderStatusProcessing, ""},
		{"other artist", uuid.New(), domain.OrderStatusProcessing, "ORD_005"},
		{"already shipped", artist, domain.OrderStatusShipped, "ORD_004"},
		{"awaiting payment", artist, domain.OrderStatusPending, "ORD_004"},
		{"completed", artist, domain.OrderStatusCompleted, "ORD_004"},
		{"cancelled", artist, domain.OrderStatusCancelled, "ORD_004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanShip(tt.actor, &domain.Order{ArtistID: artist, Status: tt.status})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
		})
	}
}

func TestCanConfirm(t *testing.T) {
	buyer := uuid.New()

	tests := []struct {
		name     string
		actor    uuid.UUID
		status   domain.OrderStatus
		wantCode string
		wantMsg  string
	}{
		{"owner shipped", buyer, domain.OrderStatusShipped, "", ""},
		{"other buyer", uuid.New(), domain.OrderStatusShipped, "ORD_005", ""},
		{"already confirmed", buyer, domain.OrderStatusCompleted, "ORD_004", "Order already confirmed"},
		{"not shipped yet", buyer, domain.OrderStatusProcessing, "ORD_004", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanConfirm(tt.actor, &domain.Order{BuyerID: buyer, Status: tt.status})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
