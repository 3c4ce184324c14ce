package wallet

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines wallet data access. Tx-suffixed methods operate
// inside a caller-owned transaction so ledger operations that touch
// several tables commit or roll back as one unit.
type Repository interface {
	Ensure(ctx context.Context, userID uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error)

	LockTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*Wallet, error)
	LockPairTx(ctx context.Context, tx *sqlx.Tx, firstID, secondID uuid.UUID) (*Wallet, *Wallet, error)
	SaveTx(ctx context.Context, tx *sqlx.Tx, w *Wallet) error
	InsertTransactionTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) error

	ListTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) ([]*Transaction, int, error)
	ListAllTransactions(ctx context.Context, txType string, limit, offset int) ([]*Transaction, int, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates wallet repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Ensure(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	var w Wallet
	err := r.db.GetContext(ctx, &w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockTx loads a wallet with a row lock held until the transaction ends
func (r *repository) LockTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*Wallet, error) {
	var w Wallet
	err := tx.GetContext(ctx, &w, `SELECT * FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockPairTx locks both wallets in a fixed order so concurrent ledger
// operations on the same pair cannot deadlock.
func (r *repository) LockPairTx(ctx context.Context, tx *sqlx.Tx, firstID, secondID uuid.UUID) (*Wallet, *Wallet, error) {
	a, b := firstID, secondID
	swapped := strings.Compare(a.String(), b.String()) > 0
	if swapped {
		a, b = b, a
	}

	wa, err := r.LockTx(ctx, tx, a)
	if err != nil {
		return nil, nil, err
	}
	wb, err := r.LockTx(ctx, tx, b)
	if err != nil {
		return nil, nil, err
	}

	if swapped {
		return wb, wa, nil
	}
	return wa, wb, nil
}

func (r *repository) SaveTx(ctx context.Context, tx *sqlx.Tx, w *Wallet) error {
	query := `
		UPDATE wallets
		SET available_balance = $1,
		    escrow_balance = $2,
		    pending_balance = $3,
		    total_earnings = $4,
		    total_withdrawals = $5,
		    updated_at = now()
		WHERE user_id = $6
	`
	res, err := tx.ExecContext(ctx, query,
		w.AvailableBalance,
		w.EscrowBalance,
		w.PendingBalance,
		w.TotalEarnings,
		w.TotalWithdrawals,
		w.UserID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *repository) InsertTransactionTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) error {
	query := `
		INSERT INTO wallet_transactions (id, transaction_id, user_id, type, amount, status, description, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	return tx.QueryRowContext(ctx, query,
		t.ID, t.TransactionID, t.UserID, t.Type, t.Amount, t.Status, t.Description, t.BalanceAfter,
	).Scan(&t.CreatedAt)
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) ([]*Transaction, int, error) {
	where := `WHERE user_id = $1 AND ($2 = '' OR type = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM wallet_transactions `+where, userID, txType); err != nil {
		return nil, 0, err
	}

	var items []*Transaction
	query := `SELECT * FROM wallet_transactions ` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &items, query, userID, txType, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListAllTransactions(ctx context.Context, txType string, limit, offset int) ([]*Transaction, int, error) {
	where := `WHERE ($1 = '' OR type = $1)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM wallet_transactions `+where, txType); err != nil {
		return nil, 0, err
	}

	var items []*Transaction
	query := `SELECT * FROM wallet_transactions ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, txType, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	query := `
		SELECT
			COALESCE(SUM(available_balance), 0) AS total_available,
			COALESCE(SUM(escrow_balance), 0) AS total_escrow,
			COALESCE(SUM(pending_balance), 0) AS total_pending,
			COUNT(*) AS wallets
		FROM wallets
	`
	if err := r.db.GetContext(ctx, &t, query); err != nil {
		return nil, err
	}
	return &t, nil
}
