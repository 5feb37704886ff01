package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports/mocks"
	"art-marketplace/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	lowUser  = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	highUser = uuid.MustParse("20000000-0000-0000-0000-000000000002")
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockWalletTransactionRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockWalletTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.txRepo, d.transactor, metrics.New(nil), zerolog.Nop())
	return d
}

func newMemWalletService(l *memLedger, m *metrics.Metrics) *WalletServiceImpl {
	return NewWalletService(l, l, l, m, zerolog.Nop())
}

// ==================== Deposit ====================

func TestWalletService_Deposit_RejectsNonPositive(t *testing.T) {
	d := setupWalletService(t)

	for _, amount := range []string{"0", "-5"} {
		_, err := d.svc.Deposit(context.Background(), lowUser, dec(amount), "")
		assertAppError(t, err, "WAL_001")
	}
}

func TestWalletService_Deposit_Success(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}
	wallet := &domain.Wallet{ID: uuid.New(), UserID: lowUser, Balance: dec("10"), Currency: "NGN"}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetOrCreateForUpdate(ctx, tx, lowUser, "NGN").Return(wallet, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, wallet.ID, dec("35")).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.WalletTransaction) error {
			assert.Equal(t, domain.TransactionTypeDeposit, entry.TransactionType)
			assert.Equal(t, domain.TransactionStatusCompleted, entry.Status)
			assert.Equal(t, "Deposit of 25 NGN", entry.Description)
			assert.Equal(t, "ref-9", entry.Reference)
			return nil
		})

	got, err := d.svc.Deposit(ctx, lowUser, dec("25"), "ref-9")
	require.NoError(t, err)
	assertDecimal(t, "35", got.Balance)
	assert.True(t, tx.committed)
}

func TestWalletService_Deposit_LedgerWriteFails_RollsBack(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}
	wallet := &domain.Wallet{ID: uuid.New(), UserID: lowUser, Balance: dec("0"), Currency: "NGN"}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetOrCreateForUpdate(ctx, tx, lowUser, "NGN").Return(wallet, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, wallet.ID, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(errors.New("disk full"))

	_, err := d.svc.Deposit(ctx, lowUser, dec("25"), "")
	assertAppError(t, err, "SYS_001")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestWalletService_Deposit_BeginFails(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(nil, errors.New("pool closed"))

	_, err := d.svc.Deposit(ctx, lowUser, dec("25"), "")
	assertAppError(t, err, "SYS_001")
}

// ==================== Withdraw ====================

func TestWalletService_Withdraw_NoWallet(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByUserIDForUpdate(ctx, tx, lowUser).Return(nil, nil)

	ok, err := d.svc.Withdraw(ctx, lowUser, dec("10"), "")
	assertAppError(t, err, "WAL_002")
	assert.False(t, ok)
}

func TestWalletService_Withdraw_InsufficientFunds_NoWrites(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}
	wallet := &domain.Wallet{ID: uuid.New(), UserID: lowUser, Balance: dec("25"), Currency: "NGN"}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByUserIDForUpdate(ctx, tx, lowUser).Return(wallet, nil)
	// UpdateBalance and Create must not be called

	ok, err := d.svc.Withdraw(ctx, lowUser, dec("100"), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tx.committed)
}

func TestWalletService_Withdraw_InvalidAmount(t *testing.T) {
	d := setupWalletService(t)

	_, err := d.svc.Withdraw(context.Background(), lowUser, dec("0"), "")
	assertAppError(t, err, "WAL_001")
}

// ==================== Transfer ====================

func TestWalletService_Transfer_ToSelf(t *testing.T) {
	d := setupWalletService(t)

	_, err := d.svc.Transfer(context.Background(), lowUser, lowUser, dec("5"))
	assertAppError(t, err, "VAL_001")
}

func TestWalletService_Transfer_SenderMissing(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}

	// lowUser sorts first, so the sender lock happens before the recipient's.
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByUserIDForUpdate(ctx, tx, lowUser).Return(nil, nil)

	ok, err := d.svc.Transfer(ctx, lowUser, highUser, dec("5"))
	assertAppError(t, err, "WAL_003")
	assert.False(t, ok)
}

func TestWalletService_Transfer_LocksInAscendingOrder(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}
	sender := &domain.Wallet{ID: uuid.New(), UserID: highUser, Balance: dec("100"), Currency: "NGN"}
	recipient := &domain.Wallet{ID: uuid.New(), UserID: lowUser, Balance: dec("0"), Currency: "NGN"}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	gomock.InOrder(
		d.walletRepo.EXPECT().GetOrCreateForUpdate(ctx, tx, lowUser, "NGN").Return(recipient, nil),
		d.walletRepo.EXPECT().GetByUserIDForUpdate(ctx, tx, highUser).Return(sender, nil),
	)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, sender.ID, dec("60")).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, recipient.ID, dec("40")).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)

	ok, err := d.svc.Transfer(ctx, highUser, lowUser, dec("40"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, tx.committed)
}

func TestWalletService_Transfer_CurrencyMismatch(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByUserIDForUpdate(ctx, tx, lowUser).
		Return(&domain.Wallet{ID: uuid.New(), Balance: dec("100"), Currency: "NGN"}, nil)
	d.walletRepo.EXPECT().GetOrCreateForUpdate(ctx, tx, highUser, "NGN").
		Return(&domain.Wallet{ID: uuid.New(), Balance: dec("0"), Currency: "USD"}, nil)

	_, err := d.svc.Transfer(ctx, lowUser, highUser, dec("5"))
	assertAppError(t, err, "VAL_001")
}

// ==================== Reads ====================

func TestWalletService_ListTransactions_NoWallet(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	d.walletRepo.EXPECT().GetByUserID(ctx, lowUser).Return(nil, nil)

	_, err := d.svc.ListTransactions(ctx, lowUser, 10, 0)
	assertAppError(t, err, "WAL_002")
}

func TestWalletService_ListTransactions_ClampsLimit(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: lowUser}

	d.walletRepo.EXPECT().GetByUserID(ctx, lowUser).Return(wallet, nil)
	d.txRepo.EXPECT().ListByWallet(ctx, wallet.ID, 100, 0).Return([]domain.WalletTransaction{}, nil)

	_, err := d.svc.ListTransactions(ctx, lowUser, 5000, -3)
	require.NoError(t, err)
}

func TestWalletService_GetTransaction_RepoError(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	id := uuid.New()

	d.txRepo.EXPECT().GetByID(ctx, id).Return(nil, errors.New("boom"))

	_, err := d.svc.GetTransaction(ctx, id)
	assertAppError(t, err, "SYS_001")
}

// ==================== Ledger properties (in-memory store) ====================

func TestLedger_TwoDepositsOnFreshUser(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	_, err := svc.Deposit(ctx, lowUser, dec("25"), "")
	require.NoError(t, err)
	w, err := svc.Deposit(ctx, lowUser, dec("25"), "")
	require.NoError(t, err)

	assertDecimal(t, "50", w.Balance)
	assertDecimal(t, "50", l.balance(lowUser))
	assert.Len(t, l.entriesFor(w.ID), 2)
}

func TestLedger_WithdrawMoreThanBalance(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	w, err := svc.Deposit(ctx, lowUser, dec("25"), "")
	require.NoError(t, err)

	ok, err := svc.Withdraw(ctx, lowUser, dec("100"), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assertDecimal(t, "25", l.balance(lowUser))
	assert.Len(t, l.entriesFor(w.ID), 1)
}

func TestLedger_TransferConservesMoney(t *testing.T) {
	l := newMemLedger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newMemWalletService(l, m)
	ctx := context.Background()

	a, err := svc.Deposit(ctx, lowUser, dec("100"), "")
	require.NoError(t, err)
	b, err := svc.Deposit(ctx, highUser, dec("50"), "")
	require.NoError(t, err)

	ok, err := svc.Transfer(ctx, lowUser, highUser, dec("25"))
	require.NoError(t, err)
	require.True(t, ok)

	assertDecimal(t, "75", l.balance(lowUser))
	assertDecimal(t, "75", l.balance(highUser))

	out := l.entriesFor(a.ID)
	in := l.entriesFor(b.ID)
	require.Len(t, out, 2)
	require.Len(t, in, 2)

	var outRow, inRow domain.WalletTransaction
	for _, e := range out {
		if e.TransactionType == domain.TransactionTypeTransfer {
			outRow = e
		}
	}
	for _, e := range in {
		if e.TransactionType == domain.TransactionTypeTransfer {
			inRow = e
		}
	}
	require.NotNil(t, outRow.RelatedWalletID)
	require.NotNil(t, inRow.RelatedWalletID)
	assert.Equal(t, b.ID, *outRow.RelatedWalletID)
	assert.Equal(t, a.ID, *inRow.RelatedWalletID)
	assertDecimal(t, "25", outRow.Amount)
	assertDecimal(t, "25", inRow.Amount)

	expected := `
# HELP wallet_ledger_operations_total Wallet ledger operations by kind and outcome.
# TYPE wallet_ledger_operations_total counter
wallet_ledger_operations_total{operation="deposit",outcome="ok"} 2
wallet_ledger_operations_total{operation="transfer",outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "wallet_ledger_operations_total"))
}

func TestLedger_TransferInsufficientFunds_NoMutation(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	_, err := svc.Deposit(ctx, lowUser, dec("20"), "")
	require.NoError(t, err)

	ok, err := svc.Transfer(ctx, lowUser, highUser, dec("25"))
	require.NoError(t, err)
	assert.False(t, ok)
	assertDecimal(t, "20", l.balance(lowUser))
	_, exists := l.committed(highUser)
	assert.False(t, exists, "recipient wallet creation must roll back with the transfer")
}

func TestLedger_TransferCreatesRecipientWallet(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	_, err := svc.Deposit(ctx, highUser, dec("30"), "")
	require.NoError(t, err)

	ok, err := svc.Transfer(ctx, highUser, lowUser, dec("30"))
	require.NoError(t, err)
	assert.True(t, ok)
	assertDecimal(t, "0", l.balance(highUser))
	assertDecimal(t, "30", l.balance(lowUser))
}

func TestLedger_ConcurrentDepositsAllApplied(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, lowUser, dec("2.5"), ""); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("deposit failed: %v", err)
	}

	assertDecimal(t, "125", l.balance(lowUser))
	w, _ := l.committed(lowUser)
	assert.Len(t, l.entriesFor(w.ID), workers)
}

func TestLedger_ConcurrentOpposingTransfersConserveTotal(t *testing.T) {
	l := newMemLedger()
	svc := newMemWalletService(l, metrics.New(nil))
	ctx := context.Background()

	_, err := svc.Deposit(ctx, lowUser, dec("100"), "")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, highUser, dec("100"), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ctx, lowUser, highUser, dec("7"))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ctx, highUser, lowUser, dec("3"))
		}()
	}
	wg.Wait()

	total := l.balance(lowUser).Add(l.balance(highUser))
	assertDecimal(t, "200", total)
	assert.False(t, l.balance(lowUser).IsNegative())
	assert.False(t, l.balance(highUser).IsNegative())
}
