package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines review data access
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, rev *Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*Review, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, rev *Review) error {
	query := `
		INSERT INTO reviews (id, product_id, order_id, buyer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := tx.QueryRowContext(ctx, query,
		rev.ID, rev.ProductID, rev.OrderID, rev.BuyerID, rev.Rating, rev.Comment,
	).Scan(&rev.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID); err != nil {
		return nil, 0, err
	}

	var items []*Review
	query := `SELECT * FROM reviews WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, productID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
