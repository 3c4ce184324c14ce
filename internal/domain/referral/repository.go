package referral

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Repository defines referral data access
type Repository interface {
	Create(ctx context.Context, ref *Referral) error
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*Referral, error)
	ClaimCommissionTx(ctx context.Context, tx *sqlx.Tx, referredUserID uuid.UUID, commission decimal.Decimal) (uuid.UUID, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates referral repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ref *Referral) error {
	query := `
		INSERT INTO referrals (id, referrer_id, referred_user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		ref.ID, ref.ReferrerID, ref.ReferredUserID, ref.Status,
	).Scan(&ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyReferred
		}
		return err
	}
	return nil
}

func (r *repository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*Referral, error) {
	var items []*Referral
	query := `SELECT * FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &items, query, referrerID)
	return items, err
}

// ClaimCommissionTx flips the referral from pending to completed and
// returns the referrer to credit. The conditional update is the
// idempotency guard: only the first caller gets a row back, every
// retry or concurrent attempt sees sql.ErrNoRows.
func (r *repository) ClaimCommissionTx(ctx context.Context, tx *sqlx.Tx, referredUserID uuid.UUID, commission decimal.Decimal) (uuid.UUID, error) {
	query := `
		UPDATE referrals
		SET status = 'completed', commission_earned = $2, commission_paid_at = now(), updated_at = now()
		WHERE referred_user_id = $1 AND status = 'pending'
		RETURNING referrer_id
	`
	var referrerID uuid.UUID
	err := tx.QueryRowContext(ctx, query, referredUserID, commission).Scan(&referrerID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrReferralNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return referrerID, nil
}
