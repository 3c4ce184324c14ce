package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines product data access
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Product, error)
	ListApproved(ctx context.Context, categoryID uuid.UUID, search string, limit, offset int) ([]*Product, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Product, int, error)
	ListByStatus(ctx context.Context, status Status) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status, rejectionReason string) error
	DecrementInventoryTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, quantity int64) error
	UpdateRatingTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	Count(ctx context.Context) (total, pending int, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates product repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, product_code, seller_id, category_id, name, description,
			price, inventory_type, quantity, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.ProductCode, p.SellerID, p.CategoryID, p.Name, p.Description,
		p.Price, p.InventoryType, p.Quantity, p.Status, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDTx loads a product with a row lock so inventory checks and
// decrements inside an order placement see a consistent quantity.
func (r *repository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Product, error) {
	var p Product
	err := tx.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListApproved(ctx context.Context, categoryID uuid.UUID, search string, limit, offset int) ([]*Product, int, error) {
	where := `
		WHERE status = 'approved' AND is_active = true
		AND ($1 = '00000000-0000-0000-0000-000000000000'::uuid OR category_id = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')
	`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products `+where, categoryID, search); err != nil {
		return nil, 0, err
	}

	var items []*Product
	query := `SELECT * FROM products ` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &items, query, categoryID, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Product, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products WHERE seller_id = $1`, sellerID); err != nil {
		return nil, 0, err
	}

	var items []*Product
	query := `SELECT * FROM products WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &items, query, sellerID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]*Product, error) {
	var items []*Product
	query := `SELECT * FROM products WHERE status = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &items, query, status)
	return items, err
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4,
		    inventory_type = $5, quantity = $6, is_active = $7, updated_at = now()
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		p.CategoryID, p.Name, p.Description, p.Price,
		p.InventoryType, p.Quantity, p.IsActive, p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status, rejectionReason string) error {
	query := `
		UPDATE products
		SET status = $1, rejection_reason = NULLIF($2, ''), updated_at = now()
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, status, rejectionReason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementInventoryTx reduces stock and bumps sold count for limited
// products; unlimited products only track sold count.
func (r *repository) DecrementInventoryTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, quantity int64) error {
	query := `
		UPDATE products
		SET quantity = CASE WHEN inventory_type = 'limited' THEN quantity - $1 ELSE quantity END,
		    sold_count = sold_count + $1,
		    updated_at = now()
		WHERE id = $2
		AND (inventory_type = 'unlimited' OR quantity >= $1)
	`
	res, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientInventory
	}
	return nil
}

// UpdateRatingTx recomputes the rating aggregate from reviews
func (r *repository) UpdateRatingTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `
		UPDATE products
		SET rating = COALESCE((SELECT ROUND(AVG(rating), 2) FROM reviews WHERE product_id = $1), 0),
		    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
		    updated_at = now()
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query, id)
	return err
}

func (r *repository) Count(ctx context.Context) (total, pending int, err error) {
	query := `
		SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'pending') AS pending
		FROM products
	`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &pending)
	return
}
