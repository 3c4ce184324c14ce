package product

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryType says whether a product has finite stock
type InventoryType string

const (
	InventoryUnlimited InventoryType = "unlimited"
	InventoryLimited   InventoryType = "limited"
)

// Status is the moderation state of a listing
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Product is a digital listing. Only approved and active products
// can be ordered.
type Product struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ProductCode     string          `db:"product_code" json:"product_code"`
	SellerID        uuid.UUID       `db:"seller_id" json:"seller_id"`
	CategoryID      uuid.UUID       `db:"category_id" json:"category_id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	Price           decimal.Decimal `db:"price" json:"price"`
	InventoryType   InventoryType   `db:"inventory_type" json:"inventory_type"`
	Quantity        int64           `db:"quantity" json:"quantity"`
	SoldCount       int64           `db:"sold_count" json:"sold_count"`
	Status          Status          `db:"status" json:"status"`
	RejectionReason sql.NullString  `db:"rejection_reason" json:"-"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	Rating          decimal.Decimal `db:"rating" json:"rating"`
	ReviewCount     int             `db:"review_count" json:"review_count"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Purchasable reports whether the product can be ordered right now
func (p *Product) Purchasable(quantity int64) bool {
	if p.Status != StatusApproved || !p.IsActive {
		return false
	}
	if p.InventoryType == InventoryLimited && p.Quantity < quantity {
		return false
	}
	return true
}
