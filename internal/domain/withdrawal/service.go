package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Notifier sends in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// Auditor records admin actions
type Auditor interface {
	Record(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{})
}

// Policy carries the allowed withdrawal bounds
type Policy struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Service handles withdrawal business logic
type Service struct {
	db       *sqlx.DB
	repo     Repository
	wallets  wallet.Repository
	policy   Policy
	notifier Notifier
	auditor  Auditor
}

// NewService creates withdrawal service
func NewService(db *sqlx.DB, repo Repository, wallets wallet.Repository, policy Policy, notifier Notifier, auditor Auditor) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		wallets:  wallets,
		policy:   policy,
		notifier: notifier,
		auditor:  auditor,
	}
}

// Request places a withdrawal. The amount moves from available to
// pending so it cannot be spent while an admin reviews the request.
func (s *Service) Request(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, details string) (*Withdrawal, error) {
	if amount.LessThan(s.policy.Min) {
		return nil, ErrBelowMinimum
	}
	if amount.GreaterThan(s.policy.Max) {
		return nil, ErrAboveMaximum
	}

	var wd *Withdrawal
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		w, err := s.wallets.LockTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if w.AvailableBalance.LessThan(amount) {
			return wallet.ErrInsufficientFunds
		}

		w.AvailableBalance = w.AvailableBalance.Sub(amount)
		w.PendingBalance = w.PendingBalance.Add(amount)
		if err := s.wallets.SaveTx(ctx, tx, w); err != nil {
			return err
		}

		wd = &Withdrawal{
			ID:             uuid.New(),
			WithdrawalCode: ids.New(ids.PrefixWithdrawal),
			UserID:         userID,
			Amount:         amount,
			PaymentMethod:  method,
			PaymentDetails: details,
			Status:         StatusPending,
		}
		if err := s.repo.CreateTx(ctx, tx, wd); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        userID,
			Type:          wallet.TypeWithdrawalRequest,
			Amount:        amount,
			Status:        wallet.StatusPending,
			Description:   fmt.Sprintf("Withdrawal request %s", wd.WithdrawalCode),
			BalanceAfter:  w.AvailableBalance,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("withdrawal_code", wd.WithdrawalCode).
		Str("user_id", userID.String()).
		Str("amount", amount.String()).
		Msg("Withdrawal requested")

	s.notifier.Notify(ctx, userID, "withdrawal",
		"Withdrawal requested",
		fmt.Sprintf("Your withdrawal %s of %s is pending review", wd.WithdrawalCode, amount.StringFixed(2)),
		"/withdrawals")

	return wd, nil
}

// ListMine returns the user's withdrawal history
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Withdrawal, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListPending returns pending withdrawals for admin review
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*Withdrawal, int, error) {
	return s.repo.ListByStatus(ctx, StatusPending, limit, offset)
}

// Approve pays out a pending withdrawal. The pending amount leaves
// the wallet for good and counts toward total withdrawals.
func (s *Service) Approve(ctx context.Context, adminID, withdrawalID uuid.UUID) (*Withdrawal, error) {
	var wd *Withdrawal
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		wd, err = s.repo.GetByIDTx(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if wd.Status != StatusPending {
			return ErrNotPending
		}

		w, err := s.wallets.LockTx(ctx, tx, wd.UserID)
		if err != nil {
			return err
		}
		if w.PendingBalance.LessThan(wd.Amount) {
			return wallet.ErrInsufficientFunds
		}

		w.PendingBalance = w.PendingBalance.Sub(wd.Amount)
		w.TotalWithdrawals = w.TotalWithdrawals.Add(wd.Amount)
		if err := s.wallets.SaveTx(ctx, tx, w); err != nil {
			return err
		}

		if err := s.repo.SetStatusTx(ctx, tx, wd.ID, StatusCompleted, "", adminID); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        wd.UserID,
			Type:          wallet.TypeWithdrawal,
			Amount:        wd.Amount,
			Status:        wallet.StatusCompleted,
			Description:   fmt.Sprintf("Withdrawal %s approved", wd.WithdrawalCode),
			BalanceAfter:  w.AvailableBalance,
		})
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, adminID, "withdrawal_approved", map[string]interface{}{
		"withdrawal_code": wd.WithdrawalCode,
		"user_id":         wd.UserID.String(),
		"amount":          wd.Amount.String(),
	})
	s.notifier.Notify(ctx, wd.UserID, "withdrawal",
		"Withdrawal approved",
		fmt.Sprintf("Your withdrawal %s of %s has been paid out", wd.WithdrawalCode, wd.Amount.StringFixed(2)),
		"/withdrawals")

	return s.repo.GetByID(ctx, withdrawalID)
}

// Reject returns a pending withdrawal's amount to the available
// balance and records the reason.
func (s *Service) Reject(ctx context.Context, adminID, withdrawalID uuid.UUID, reason string) (*Withdrawal, error) {
	var wd *Withdrawal
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		wd, err = s.repo.GetByIDTx(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if wd.Status != StatusPending {
			return ErrNotPending
		}

		w, err := s.wallets.LockTx(ctx, tx, wd.UserID)
		if err != nil {
			return err
		}
		if w.PendingBalance.LessThan(wd.Amount) {
			return wallet.ErrInsufficientFunds
		}

		w.PendingBalance = w.PendingBalance.Sub(wd.Amount)
		w.AvailableBalance = w.AvailableBalance.Add(wd.Amount)
		if err := s.wallets.SaveTx(ctx, tx, w); err != nil {
			return err
		}

		if err := s.repo.SetStatusTx(ctx, tx, wd.ID, StatusRejected, reason, adminID); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        wd.UserID,
			Type:          wallet.TypeWithdrawalRejected,
			Amount:        wd.Amount,
			Status:        wallet.StatusFailed,
			Description:   fmt.Sprintf("Withdrawal %s rejected: %s", wd.WithdrawalCode, reason),
			BalanceAfter:  w.AvailableBalance,
		})
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, adminID, "withdrawal_rejected", map[string]interface{}{
		"withdrawal_code": wd.WithdrawalCode,
		"user_id":         wd.UserID.String(),
		"amount":          wd.Amount.String(),
		"reason":          reason,
	})
	s.notifier.Notify(ctx, wd.UserID, "withdrawal",
		"Withdrawal rejected",
		fmt.Sprintf("Your withdrawal %s was rejected: %s", wd.WithdrawalCode, reason),
		"/withdrawals")

	return s.repo.GetByID(ctx, withdrawalID)
}
