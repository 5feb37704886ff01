package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/metrics"
	"art-marketplace/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletServiceImpl implements ports.WalletService. Every mutation runs in one
// database transaction with the affected wallet rows locked.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.WalletTransactionRepository
	transactor ports.DBTransactor
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.WalletTransactionRepository,
	transactor ports.DBTransactor,
	m *metrics.Metrics,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		metrics:    m,
		log:        log,
	}
}

// CreateWallet returns the user's wallet, creating an empty one if needed.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetOrCreateForUpdate(ctx, dbTx, userID, domain.DefaultCurrency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get or create wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}
	return wallet, nil
}

// GetWallet returns the user's wallet or nil.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}

// Deposit credits amount, creating the wallet on first use. It is not
// idempotent on reference.
func (s *WalletServiceImpl) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reference string) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetOrCreateForUpdate(ctx, dbTx, userID, domain.DefaultCurrency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}

	now := time.Now().UTC()
	entry := domain.NewLedgerEntry(wallet, domain.TransactionTypeDeposit, amount,
		domain.DepositDescription(amount, wallet.Currency), reference, now)

	if err := s.applyEntry(ctx, dbTx, wallet, wallet.Balance.Add(amount), entry); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		s.metrics.IncLedger("deposit", "error")
		return nil, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}

	s.metrics.IncLedger("deposit", "ok")
	s.log.Info().
		Str("user_id", userID.String()).
		Str("amount", amount.String()).
		Str("balance", wallet.Balance.String()).
		Msg("wallet deposit completed")

	return wallet, nil
}

// Withdraw debits amount. Insufficient funds returns false with no mutation.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reference string) (bool, error) {
	if !amount.IsPositive() {
		return false, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return false, apperror.ErrWalletNotFound()
	}

	if !wallet.CanDebit(amount) {
		s.metrics.IncLedger("withdraw", "insufficient_funds")
		return false, nil
	}

	entry := domain.NewLedgerEntry(wallet, domain.TransactionTypeWithdrawal, amount,
		domain.WithdrawalDescription(amount, wallet.Currency), reference, time.Now().UTC())

	if err := s.applyEntry(ctx, dbTx, wallet, wallet.Balance.Sub(amount), entry); err != nil {
		return false, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		s.metrics.IncLedger("withdraw", "error")
		return false, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}

	s.metrics.IncLedger("withdraw", "ok")
	s.log.Info().
		Str("user_id", userID.String()).
		Str("amount", amount.String()).
		Msg("wallet withdrawal completed")

	return true, nil
}

// Transfer moves amount between two users inside one transaction. The
// recipient wallet is created if missing. Insufficient funds returns false.
func (s *WalletServiceImpl) Transfer(ctx context.Context, fromUserID, toUserID uuid.UUID, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, apperror.ErrInvalidAmount()
	}
	if fromUserID == toUserID {
		return false, apperror.Validation("cannot transfer to your own wallet")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sender, recipient, err := s.lockTransferPair(ctx, dbTx, fromUserID, toUserID)
	if err != nil {
		return false, err
	}
	if sender.Currency != recipient.Currency {
		return false, apperror.Validation("wallet currencies do not match")
	}

	if !sender.CanDebit(amount) {
		s.metrics.IncLedger("transfer", "insufficient_funds")
		return false, nil
	}

	now := time.Now().UTC()
	out := domain.NewLedgerEntry(sender, domain.TransactionTypeTransfer, amount,
		domain.TransferOutDescription(amount, sender.Currency, toUserID), "", now)
	out.RelatedWalletID = &recipient.ID
	in := domain.NewLedgerEntry(recipient, domain.TransactionTypeTransfer, amount,
		domain.TransferInDescription(amount, recipient.Currency, fromUserID), "", now)
	in.RelatedWalletID = &sender.ID

	if err := s.applyEntry(ctx, dbTx, sender, sender.Balance.Sub(amount), out); err != nil {
		return false, err
	}
	if err := s.applyEntry(ctx, dbTx, recipient, recipient.Balance.Add(amount), in); err != nil {
		return false, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		s.metrics.IncLedger("transfer", "error")
		return false, apperror.InternalError(fmt.Errorf("commit: %w", err))
	}

	s.metrics.IncLedger("transfer", "ok")
	s.log.Info().
		Str("from_user_id", fromUserID.String()).
		Str("to_user_id", toUserID.String()).
		Str("amount", amount.String()).
		Msg("wallet transfer completed")

	return true, nil
}

// GetTransaction returns a ledger entry or nil.
func (s *WalletServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	entry, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	return entry, nil
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.WalletTransaction, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	limit, offset = pagination.Normalize(limit, offset)
	entries, err := s.txRepo.ListByWallet(ctx, wallet.ID, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return entries, nil
}

// applyEntry persists the new balance and its ledger row in dbTx.
func (s *WalletServiceImpl) applyEntry(ctx context.Context, dbTx pgx.Tx, wallet *domain.Wallet, newBalance decimal.Decimal, entry *domain.WalletTransaction) error {
	if newBalance.IsNegative() {
		return apperror.InternalError(fmt.Errorf("wallet %s balance would become %s", wallet.ID, newBalance))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	wallet.Balance = newBalance
	wallet.UpdatedAt = entry.CreatedAt
	return nil
}

// lockTransferPair locks both wallets in ascending user-id order so two
// opposite transfers cannot deadlock.
func (s *WalletServiceImpl) lockTransferPair(ctx context.Context, dbTx pgx.Tx, fromUserID, toUserID uuid.UUID) (*domain.Wallet, *domain.Wallet, error) {
	var sender, recipient *domain.Wallet

	lockSender := func() error {
		w, err := s.walletRepo.GetByUserIDForUpdate(ctx, dbTx, fromUserID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock sender wallet: %w", err))
		}
		if w == nil {
			return apperror.ErrSenderWalletNotFound()
		}
		sender = w
		return nil
	}
	lockRecipient := func() error {
		w, err := s.walletRepo.GetOrCreateForUpdate(ctx, dbTx, toUserID, domain.DefaultCurrency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock recipient wallet: %w", err))
		}
		recipient = w
		return nil
	}

	steps := []func() error{lockSender, lockRecipient}
	if bytes.Compare(fromUserID[:], toUserID[:]) > 0 {
		steps[0], steps[1] = steps[1], steps[0]
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, nil, err
		}
	}
	return sender, recipient, nil
}
