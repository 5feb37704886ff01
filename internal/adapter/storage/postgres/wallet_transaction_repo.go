package postgres

import (
	"context"
	"errors"
	"fmt"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletTxColumns = `id, wallet_id, amount, transaction_type, status, description, reference, related_wallet_id, created_at, updated_at`

// WalletTransactionRepo implements ports.WalletTransactionRepository.
// Entries are only ever inserted.
type WalletTransactionRepo struct {
	pool Pool
}

// NewWalletTransactionRepo creates a new WalletTransactionRepo.
func NewWalletTransactionRepo(pool Pool) *WalletTransactionRepo {
	return &WalletTransactionRepo{pool: pool}
}

// Create inserts a ledger entry within a database transaction.
func (r *WalletTransactionRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (` + walletTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.WalletID, e.Amount, string(e.TransactionType), string(e.Status),
		e.Description, e.Reference, e.RelatedWalletID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by ID.
func (r *WalletTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `SELECT ` + walletTxColumns + ` FROM wallet_transactions WHERE id = $1`

	e, err := scanWalletTx(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet transaction: %w", err)
	}
	return e, nil
}

// ListByWallet returns a page of the wallet's entries, newest first.
func (r *WalletTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + walletTxColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var entries []domain.WalletTransaction
	for rows.Next() {
		e, err := scanWalletTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transactions: %w", err)
	}
	return entries, nil
}

func scanWalletTx(row pgx.Row) (*domain.WalletTransaction, error) {
	e := &domain.WalletTransaction{}
	var txType, status string
	err := row.Scan(
		&e.ID, &e.WalletID, &e.Amount, &txType, &status,
		&e.Description, &e.Reference, &e.RelatedWalletID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.TransactionType = domain.TransactionType(txType)
	e.Status = domain.TransactionStatus(status)
	return e, nil
}
