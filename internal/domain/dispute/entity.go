package dispute

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the dispute lifecycle state
type Status string

const (
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

// Resolution says how an admin settled the escrowed amount
type Resolution string

const (
	ResolutionFullRefund    Resolution = "full_refund"
	ResolutionPartialRefund Resolution = "partial_refund"
	ResolutionSellerFavor   Resolution = "seller_favor"
)

// Dispute freezes an order's escrow until an admin resolves it.
// One dispute per order.
type Dispute struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	DisputeCode string          `db:"dispute_code" json:"dispute_code"`
	OrderID     uuid.UUID       `db:"order_id" json:"order_id"`
	BuyerID     uuid.UUID       `db:"buyer_id" json:"buyer_id"`
	SellerID    uuid.UUID       `db:"seller_id" json:"seller_id"`
	Reason      string          `db:"reason" json:"reason"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      Status          `db:"status" json:"status"`
	Resolution  sql.NullString  `db:"resolution" json:"resolution,omitempty"`
	AdminNotes  sql.NullString  `db:"admin_notes" json:"-"`
	ResolvedBy  uuid.NullUUID   `db:"resolved_by" json:"-"`
	ResolvedAt  sql.NullTime    `db:"resolved_at" json:"resolved_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
