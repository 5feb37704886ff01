package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypePayment    TransactionType = "payment"
)

// TransactionStatus represents the lifecycle state of a wallet transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// WalletTransaction is the immutable audit record of one balance mutation.
type WalletTransaction struct {
	ID              uuid.UUID         `json:"id"`
	WalletID        uuid.UUID         `json:"wallet_id"`
	Amount          decimal.Decimal   `json:"amount"`
	TransactionType TransactionType   `json:"transaction_type"`
	Status          TransactionStatus `json:"status"`
	Description     string            `json:"description"`
	Reference       string            `json:"reference,omitempty"`
	RelatedWalletID *uuid.UUID        `json:"related_wallet_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *WalletTransaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusFailed ||
		t.Status == TransactionStatusCancelled
}

// NewLedgerEntry builds a completed transaction for wallet w.
func NewLedgerEntry(w *Wallet, txType TransactionType, amount decimal.Decimal, description, reference string, now time.Time) *WalletTransaction {
	return &WalletTransaction{
		ID:              uuid.New(),
		WalletID:        w.ID,
		Amount:          amount,
		TransactionType: txType,
		Status:          TransactionStatusCompleted,
		Description:     description,
		Reference:       reference,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func DepositDescription(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("Deposit of %s %s", amount.String(), currency)
}

func WithdrawalDescription(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("Withdrawal of %s %s", amount.String(), currency)
}

func TransferOutDescription(amount decimal.Decimal, currency string, to uuid.UUID) string {
	return fmt.Sprintf("Transfer of %s %s to user %s", amount.String(), currency, to)
}

func TransferInDescription(amount decimal.Decimal, currency string, from uuid.UUID) string {
	return fmt.Sprintf("Transfer of %s %s from user %s", amount.String(), currency, from)
}
