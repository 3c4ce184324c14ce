package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines withdrawal data access
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, wd *Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Withdrawal, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Withdrawal, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Withdrawal, int, error)
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status, rejectionReason string, processedBy uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates withdrawal repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, wd *Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, withdrawal_code, user_id, amount, payment_method, payment_details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return tx.QueryRowContext(ctx, query,
		wd.ID, wd.WithdrawalCode, wd.UserID, wd.Amount, wd.PaymentMethod, wd.PaymentDetails, wd.Status,
	).Scan(&wd.CreatedAt, &wd.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Withdrawal, error) {
	var wd Withdrawal
	err := r.db.GetContext(ctx, &wd, `SELECT * FROM withdrawals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

// GetByIDTx loads a withdrawal with a row lock so two admins cannot
// process the same request.
func (r *repository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Withdrawal, error) {
	var wd Withdrawal
	err := tx.GetContext(ctx, &wd, `SELECT * FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Withdrawal, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM withdrawals WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	var items []*Withdrawal
	query := `SELECT * FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Withdrawal, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM withdrawals WHERE status = $1`, status); err != nil {
		return nil, 0, err
	}

	var items []*Withdrawal
	query := `SELECT * FROM withdrawals WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) SetStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status, rejectionReason string, processedBy uuid.UUID) error {
	query := `
		UPDATE withdrawals
		SET status = $1, rejection_reason = NULLIF($2, ''), processed_at = $3, processed_by = $4, updated_at = now()
		WHERE id = $5
	`
	res, err := tx.ExecContext(ctx, query, status, rejectionReason, time.Now(), processedBy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWithdrawalNotFound
	}
	return nil
}
