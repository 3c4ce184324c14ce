package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

// Order represents a purchase with funds held in escrow until the
// buyer confirms receipt or a dispute resolves it.
type Order struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrderCode      string          `db:"order_code" json:"order_code"`
	BuyerID        uuid.UUID       `db:"buyer_id" json:"buyer_id"`
	SellerID       uuid.UUID       `db:"seller_id" json:"seller_id"`
	ProductID      uuid.UUID       `db:"product_id" json:"product_id"`
	Quantity       int64           `db:"quantity" json:"quantity"`
	PricePerUnit   decimal.Decimal `db:"price_per_unit" json:"price_per_unit"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	PlatformFee    decimal.Decimal `db:"platform_fee" json:"platform_fee"`
	SellerEarnings decimal.Decimal `db:"seller_earnings" json:"seller_earnings"`
	Status         Status          `db:"status" json:"status"`
	DeliveryData   sql.NullString  `db:"delivery_data" json:"-"`
	DeliveredAt    sql.NullTime    `db:"delivered_at" json:"delivered_at"`
	CompletedAt    sql.NullTime    `db:"completed_at" json:"completed_at"`
	EscrowReleased bool            `db:"escrow_released" json:"escrow_released"`
	DisputeID      uuid.NullUUID   `db:"dispute_id" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Participant reports whether the user is the buyer or seller
func (o *Order) Participant(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}
