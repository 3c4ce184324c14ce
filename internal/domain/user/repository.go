package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	List(ctx context.Context, role string, status string, limit, offset int) ([]*User, int, error)
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	ListBySellerStatus(ctx context.Context, status SellerStatus) ([]*User, error)
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status AccountStatus) error
	UpdateSellerStatus(ctx context.Context, id uuid.UUID, role Role, status SellerStatus, rejectionReason string) error
	SetSellerApplication(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) (total, buyers, sellers, pendingSellers int, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, user_code, full_name, email, password_hash, role, account_status, referral_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.UserCode,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AccountStatus,
		user.ReferralCode,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByReferralCode(ctx context.Context, code string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE referral_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) List(ctx context.Context, role string, status string, limit, offset int) ([]*User, int, error) {
	where := `WHERE ($1 = '' OR role = $1) AND ($2 = '' OR account_status = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users `+where, role, status); err != nil {
		return nil, 0, err
	}

	var users []*User
	query := `SELECT * FROM users ` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &users, query, role, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *repository) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users WHERE role = 'admin'`)
	return ids, err
}

func (r *repository) ListBySellerStatus(ctx context.Context, status SellerStatus) ([]*User, error) {
	var users []*User
	query := `SELECT * FROM users WHERE seller_status = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &users, query, status)
	return users, err
}

func (r *repository) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status AccountStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET account_status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateSellerStatus(ctx context.Context, id uuid.UUID, role Role, status SellerStatus, rejectionReason string) error {
	query := `
		UPDATE users
		SET role = $1, seller_status = $2, rejection_reason = NULLIF($3, ''), updated_at = now()
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, role, status, rejectionReason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) SetSellerApplication(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET seller_status = 'pending', updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) CountByRole(ctx context.Context) (total, buyers, sellers, pendingSellers int, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE role = 'buyer') AS buyers,
			COUNT(*) FILTER (WHERE role = 'seller') AS sellers,
			COUNT(*) FILTER (WHERE seller_status = 'pending') AS pending_sellers
		FROM users
	`
	row := r.db.QueryRowContext(ctx, query)
	err = row.Scan(&total, &buyers, &sellers, &pendingSellers)
	return
}
