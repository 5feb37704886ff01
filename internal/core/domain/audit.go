package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister       AuditAction = "REGISTER"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionDeposit        AuditAction = "WALLET_DEPOSIT"
	AuditActionWithdraw       AuditAction = "WALLET_WITHDRAW"
	AuditActionTransfer       AuditAction = "WALLET_TRANSFER"
	AuditActionCreateOrder    AuditAction = "ORDER_CREATE"
	AuditActionShipOrder      AuditAction = "ORDER_SHIP"
	AuditActionConfirmReceipt AuditAction = "ORDER_CONFIRM"
	AuditActionCheckout       AuditAction = "CHECKOUT"
	AuditActionCreateArtwork  AuditAction = "ARTWORK_CREATE"
)

// AuditLog records a single audited action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *uuid.UUID  `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	RequestID    string      `json:"request_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
