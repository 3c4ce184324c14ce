package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Service handles wallet business logic
type Service struct {
	db   *sqlx.DB
	repo Repository
}

// NewService creates wallet service
func NewService(db *sqlx.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Ensure creates the wallet row for a new user if missing
func (s *Service) Ensure(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Ensure(ctx, userID)
}

// Get returns the user's wallet
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Deposit credits the available balance and records a completed
// deposit transaction, atomically.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var txn *Transaction
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		w, err := s.repo.LockTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		w.AvailableBalance = w.AvailableBalance.Add(amount)
		if err := s.repo.SaveTx(ctx, tx, w); err != nil {
			return err
		}

		txn = &Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        userID,
			Type:          TypeDeposit,
			Amount:        amount,
			Status:        StatusCompleted,
			Description:   fmt.Sprintf("Deposit of %s", amount.StringFixed(2)),
			BalanceAfter:  w.AvailableBalance,
		}
		return s.repo.InsertTransactionTx(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("amount", amount.String()).
		Str("transaction_id", txn.TransactionID).
		Msg("Deposit completed")

	return txn, nil
}

// Transactions returns a page of the user's ledger history
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) ([]*Transaction, int, error) {
	return s.repo.ListTransactions(ctx, userID, txType, limit, offset)
}

// AllTransactions returns a page over every user's ledger (admin)
func (s *Service) AllTransactions(ctx context.Context, txType string, limit, offset int) ([]*Transaction, int, error) {
	return s.repo.ListAllTransactions(ctx, txType, limit, offset)
}

// PlatformTotals aggregates balances across all wallets (admin)
func (s *Service) PlatformTotals(ctx context.Context) (*Totals, error) {
	return s.repo.Totals(ctx)
}
