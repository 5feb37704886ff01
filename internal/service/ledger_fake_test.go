package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memLedger is an in-memory WalletRepository, WalletTransactionRepository and
// DBTransactor. Begin serializes transactions, which stands in for row locks;
// writes are staged on the memTx and applied on Commit.
type memLedger struct {
	txLock  sync.Mutex
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet // keyed by user id
	entries []domain.WalletTransaction
}

type memTx struct {
	pgx.Tx
	l       *memLedger
	wallets map[uuid.UUID]domain.Wallet
	entries []domain.WalletTransaction
	done    bool
}

func newMemLedger() *memLedger {
	return &memLedger{wallets: make(map[uuid.UUID]domain.Wallet)}
}

func (l *memLedger) Begin(_ context.Context) (pgx.Tx, error) {
	l.txLock.Lock()
	return &memTx{l: l, wallets: make(map[uuid.UUID]domain.Wallet)}, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("tx closed")
	}
	t.l.mu.Lock()
	for userID, w := range t.wallets {
		t.l.wallets[userID] = w
	}
	t.l.entries = append(t.l.entries, t.entries...)
	t.l.mu.Unlock()
	t.done = true
	t.l.txLock.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.l.txLock.Unlock()
	return nil
}

func (l *memLedger) committed(userID uuid.UUID) (domain.Wallet, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	w, ok := l.wallets[userID]
	return w, ok
}

func (l *memLedger) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	w, ok := l.committed(userID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (l *memLedger) GetByUserIDForUpdate(_ context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	t := tx.(*memTx)
	if w, ok := t.wallets[userID]; ok {
		return &w, nil
	}
	w, ok := l.committed(userID)
	if !ok {
		return nil, nil
	}
	t.wallets[userID] = w
	return &w, nil
}

func (l *memLedger) GetOrCreateForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, currency string) (*domain.Wallet, error) {
	w, err := l.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil || w != nil {
		return w, err
	}
	now := time.Now().UTC()
	created := domain.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero, Currency: currency, CreatedAt: now, UpdatedAt: now}
	tx.(*memTx).wallets[userID] = created
	return &created, nil
}

func (l *memLedger) UpdateBalance(_ context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	t := tx.(*memTx)
	for userID, w := range t.wallets {
		if w.ID == walletID {
			w.Balance = balance
			t.wallets[userID] = w
			return nil
		}
	}
	return errors.New("wallet not locked in this transaction")
}

func (l *memLedger) Create(_ context.Context, tx pgx.Tx, entry *domain.WalletTransaction) error {
	t := tx.(*memTx)
	t.entries = append(t.entries, *entry)
	return nil
}

func (l *memLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (l *memLedger) ListByWallet(_ context.Context, walletID uuid.UUID, limit, offset int) ([]domain.WalletTransaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.WalletTransaction
	for _, e := range l.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *memLedger) entriesFor(walletID uuid.UUID) []domain.WalletTransaction {
	out, _ := l.ListByWallet(context.Background(), walletID, 1<<30, 0)
	return out
}

func (l *memLedger) balance(userID uuid.UUID) decimal.Decimal {
	w, ok := l.committed(userID)
	if !ok {
		return decimal.Zero
	}
	return w.Balance
}
