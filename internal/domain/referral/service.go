package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Notifier sends in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// Policy carries the commission rate applied to the referred user's
// first completed order.
type Policy struct {
	CommissionPercent decimal.Decimal
}

// Service handles referral business logic
type Service struct {
	db       *sqlx.DB
	repo     Repository
	users    user.Repository
	wallets  wallet.Repository
	policy   Policy
	notifier Notifier
}

// NewService creates referral service
func NewService(db *sqlx.DB, repo Repository, users user.Repository, wallets wallet.Repository, policy Policy, notifier Notifier) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		users:    users,
		wallets:  wallets,
		policy:   policy,
		notifier: notifier,
	}
}

// Track records a referral at signup. Called fire and forget from
// registration; a bad code must not block the signup.
func (s *Service) Track(ctx context.Context, referredUserID uuid.UUID, code string) {
	if code == "" {
		return
	}

	referrer, err := s.users.GetByReferralCode(ctx, code)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			log.Error().Err(err).Str("code", code).Msg("Referral lookup failed")
		}
		return
	}
	if referrer.ID == referredUserID {
		return
	}

	ref := &Referral{
		ID:             uuid.New(),
		ReferrerID:     referrer.ID,
		ReferredUserID: referredUserID,
		Status:         StatusPending,
	}
	if err := s.repo.Create(ctx, ref); err != nil {
		if !errors.Is(err, ErrAlreadyReferred) {
			log.Error().Err(err).Str("code", code).Msg("Failed to record referral")
		}
		return
	}

	log.Info().
		Str("referrer_id", referrer.ID.String()).
		Str("referred_user_id", referredUserID.String()).
		Msg("Referral tracked")
}

// ProcessCommission pays the referrer when the referred user's first
// order completes. Runs in its own transaction; the pending to
// completed transition on the referral row guarantees the commission
// pays at most once no matter how many orders complete or retries
// happen.
func (s *Service) ProcessCommission(ctx context.Context, buyerID uuid.UUID, orderAmount decimal.Decimal) error {
	commission := orderAmount.Mul(s.policy.CommissionPercent).Div(decimal.NewFromInt(100)).Round(2)
	if commission.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	var referrerID uuid.UUID
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		referrerID, err = s.repo.ClaimCommissionTx(ctx, tx, buyerID, commission)
		if err != nil {
			return err
		}

		w, err := s.wallets.LockTx(ctx, tx, referrerID)
		if err != nil {
			return err
		}

		w.AvailableBalance = w.AvailableBalance.Add(commission)
		w.TotalEarnings = w.TotalEarnings.Add(commission)
		if err := s.wallets.SaveTx(ctx, tx, w); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        referrerID,
			Type:          wallet.TypeReferralCommission,
			Amount:        commission,
			Status:        wallet.StatusCompleted,
			Description:   fmt.Sprintf("Referral commission of %s", commission.StringFixed(2)),
			BalanceAfter:  w.AvailableBalance,
		})
	})
	if errors.Is(err, ErrReferralNotFound) {
		// No pending referral for this buyer, nothing to pay
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("referrer_id", referrerID.String()).
		Str("commission", commission.String()).
		Msg("Referral commission paid")

	s.notifier.Notify(ctx, referrerID, "payment",
		"Referral commission earned",
		fmt.Sprintf("You earned %s from a referral's first order", commission.StringFixed(2)),
		"/referrals")

	return nil
}

// Summary returns the user's referral code and history
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		ReferralCode:    u.ReferralCode,
		TotalReferred:   len(refs),
		TotalCommission: decimal.Zero,
		Referrals:       refs,
	}
	for _, ref := range refs {
		if ref.Status == StatusCompleted {
			out.TotalCompleted++
			out.TotalCommission = out.TotalCommission.Add(ref.CommissionEarned)
		}
	}
	return out, nil
}
