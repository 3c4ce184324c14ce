package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Notifier sends in-app notifications. Satisfied by an adapter over the
// notification service; failures are the notifier's problem, not ours.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// Auditor records admin actions
type Auditor interface {
	Record(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{})
}

// CreateInput carries fields for a new listing
type CreateInput struct {
	CategoryID    uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	InventoryType InventoryType
	Quantity      int64
}

// UpdateInput carries fields for editing a listing
type UpdateInput struct {
	CategoryID    uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	InventoryType InventoryType
	Quantity      int64
	IsActive      bool
}

// Service handles product business logic
type Service struct {
	repo     Repository
	users    user.Repository
	notifier Notifier
	auditor  Auditor
}

// NewService creates product service
func NewService(repo Repository, users user.Repository, notifier Notifier, auditor Auditor) *Service {
	return &Service{repo: repo, users: users, notifier: notifier, auditor: auditor}
}

// Create lists a new product for moderation. Only approved sellers
// can list.
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, in CreateInput) (*Product, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() || seller.SellerStatus.String != string(user.SellerApproved) {
		return nil, ErrSellerNotApproved
	}

	p := &Product{
		ID:            uuid.New(),
		ProductCode:   ids.New(ids.PrefixProduct),
		SellerID:      sellerID,
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		InventoryType: in.InventoryType,
		Quantity:      in.Quantity,
		Status:        StatusPending,
		IsActive:      true,
	}
	if p.InventoryType == "" {
		p.InventoryType = InventoryUnlimited
	}
	if p.InventoryType == InventoryUnlimited {
		p.Quantity = 999999
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("product_id", p.ID.String()).
		Str("seller_id", sellerID.String()).
		Msg("Product created, awaiting approval")

	return p, nil
}

// Update edits a listing owned by the seller. Edits put the product
// back into moderation only when done outside this flow; price and
// stock changes keep the current status.
func (s *Service) Update(ctx context.Context, sellerID, productID uuid.UUID, in UpdateInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}

	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.InventoryType = in.InventoryType
	p.Quantity = in.Quantity
	p.IsActive = in.IsActive
	if p.InventoryType == InventoryUnlimited {
		p.Quantity = 999999
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a single product
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns approved, active products for the storefront
func (s *Service) List(ctx context.Context, categoryID uuid.UUID, search string, limit, offset int) ([]*Product, int, error) {
	return s.repo.ListApproved(ctx, categoryID, search, limit, offset)
}

// ListMine returns the seller's own products in any status
func (s *Service) ListMine(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Product, int, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// ListPending returns products awaiting moderation (admin)
func (s *Service) ListPending(ctx context.Context) ([]*Product, error) {
	return s.repo.ListByStatus(ctx, StatusPending)
}

// Approve marks a product approved and notifies the seller (admin)
func (s *Service) Approve(ctx context.Context, adminID, productID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.SetStatus(ctx, productID, StatusApproved, ""); err != nil {
		return err
	}

	s.auditor.Record(ctx, adminID, "product_approved", map[string]interface{}{
		"product_id":   productID.String(),
		"product_code": p.ProductCode,
	})
	s.notifier.Notify(ctx, p.SellerID, "product_approval",
		"Product approved",
		fmt.Sprintf("Your product %q is now live", p.Name),
		"/products/"+p.ID.String())

	return nil
}

// Reject marks a product rejected with a reason (admin)
func (s *Service) Reject(ctx context.Context, adminID, productID uuid.UUID, reason string) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.SetStatus(ctx, productID, StatusRejected, reason); err != nil {
		return err
	}

	s.auditor.Record(ctx, adminID, "product_rejected", map[string]interface{}{
		"product_id":   productID.String(),
		"product_code": p.ProductCode,
		"reason":       reason,
	})
	s.notifier.Notify(ctx, p.SellerID, "product_approval",
		"Product rejected",
		fmt.Sprintf("Your product %q was rejected: %s", p.Name, reason),
		"")

	return nil
}
