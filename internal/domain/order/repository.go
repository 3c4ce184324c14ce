package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Repository defines order data access
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*Order, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Order, int, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, deliveryData string) error
	CompleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	SetDisputedTx(ctx context.Context, tx *sqlx.Tx, id, disputeID uuid.UUID) error
	Stats(ctx context.Context) (total, completed, disputed int, revenue decimal.Decimal, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates order repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, o *Order) error {
	query := `
		INSERT INTO orders (id, order_code, buyer_id, seller_id, product_id, quantity,
			price_per_unit, total_amount, platform_fee, seller_earnings, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	return tx.QueryRowContext(ctx, query,
		o.ID, o.OrderCode, o.BuyerID, o.SellerID, o.ProductID, o.Quantity,
		o.PricePerUnit, o.TotalAmount, o.PlatformFee, o.SellerEarnings, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByIDTx loads an order with a row lock so status transitions that
// move money happen exactly once.
func (r *repository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Order, error) {
	var o Order
	err := tx.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	return r.list(ctx, `buyer_id`, buyerID, limit, offset)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	return r.list(ctx, `seller_id`, sellerID, limit, offset)
}

func (r *repository) list(ctx context.Context, column string, userID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE `+column+` = $1`, userID); err != nil {
		return nil, 0, err
	}

	var items []*Order
	query := `SELECT * FROM orders WHERE ` + column + ` = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) MarkDelivered(ctx context.Context, id uuid.UUID, deliveryData string) error {
	query := `
		UPDATE orders
		SET status = 'delivered', delivery_data = $1, delivered_at = $2, updated_at = now()
		WHERE id = $3 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, query, deliveryData, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidStatus
	}
	return nil
}

// CompleteTx finalizes an order after its escrow has been settled
func (r *repository) CompleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = 'completed', escrow_released = true, completed_at = $1, updated_at = now()
		WHERE id = $2
	`
	res, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SetDisputedTx(ctx context.Context, tx *sqlx.Tx, id, disputeID uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = 'disputed', dispute_id = $1, updated_at = now()
		WHERE id = $2 AND status = 'delivered'
	`
	res, err := tx.ExecContext(ctx, query, disputeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidStatus
	}
	return nil
}

func (r *repository) Stats(ctx context.Context) (total, completed, disputed int, revenue decimal.Decimal, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'disputed') AS disputed,
			COALESCE(SUM(platform_fee) FILTER (WHERE status = 'completed'), 0) AS revenue
		FROM orders
	`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &completed, &disputed, &revenue)
	return
}
