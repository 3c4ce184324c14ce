package dispute

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines dispute data access
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, d *Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Dispute, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Dispute, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Dispute, int, error)
	ResolveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, resolution Resolution, adminNotes string, resolvedBy uuid.UUID) error
	CountOpen(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates dispute repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, d *Dispute) error {
	query := `
		INSERT INTO disputes (id, dispute_code, order_id, buyer_id, seller_id, reason, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query,
		d.ID, d.DisputeCode, d.OrderID, d.BuyerID, d.SellerID, d.Reason, d.Amount, d.Status,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDisputeExists
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error) {
	var d Dispute
	err := r.db.GetContext(ctx, &d, `SELECT * FROM disputes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByIDTx loads a dispute with a row lock so it resolves exactly once
func (r *repository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Dispute, error) {
	var d Dispute
	err := tx.GetContext(ctx, &d, `SELECT * FROM disputes WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Dispute, int, error) {
	where := `WHERE buyer_id = $1 OR seller_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM disputes `+where, userID); err != nil {
		return nil, 0, err
	}

	var items []*Dispute
	query := `SELECT * FROM disputes ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Dispute, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM disputes WHERE status = $1`, status); err != nil {
		return nil, 0, err
	}

	var items []*Dispute
	query := `SELECT * FROM disputes WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ResolveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, resolution Resolution, adminNotes string, resolvedBy uuid.UUID) error {
	query := `
		UPDATE disputes
		SET status = 'resolved', resolution = $1, admin_notes = NULLIF($2, ''),
		    resolved_by = $3, resolved_at = $4, updated_at = now()
		WHERE id = $5 AND status = 'open'
	`
	res, err := tx.ExecContext(ctx, query, resolution, adminNotes, resolvedBy, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotOpen
	}
	return nil
}

func (r *repository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM disputes WHERE status = 'open'`)
	return count, err
}
