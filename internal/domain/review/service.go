package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shahmarket/market-api/internal/domain/order"
	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/pkg/database"
)

// Service handles review business logic
type Service struct {
	db       *sqlx.DB
	repo     Repository
	orders   order.Repository
	products product.Repository
}

// NewService creates review service
func NewService(db *sqlx.DB, repo Repository, orders order.Repository, products product.Repository) *Service {
	return &Service{db: db, repo: repo, orders: orders, products: products}
}

// Create reviews a completed order. The review insert and the product
// rating aggregate update run in one transaction; the unique order_id
// column rejects a second review.
func (s *Service) Create(ctx context.Context, buyerID, orderID uuid.UUID, rating int, comment string) (*Review, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != buyerID {
		return nil, order.ErrNotParticipant
	}
	if o.Status != order.StatusCompleted {
		return nil, order.ErrInvalidStatus
	}

	rev := &Review{
		ID:        uuid.New(),
		ProductID: o.ProductID,
		OrderID:   o.ID,
		BuyerID:   buyerID,
		Rating:    rating,
		Comment:   sql.NullString{String: comment, Valid: comment != ""},
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, rev); err != nil {
			return err
		}
		return s.products.UpdateRatingTx(ctx, tx, o.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// ListByProduct returns a page of a product's reviews
func (s *Service) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	return s.repo.ListByProduct(ctx, productID, limit, offset)
}
