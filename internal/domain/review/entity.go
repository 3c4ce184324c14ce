package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a completed order. One per order.
type Review struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	ProductID uuid.UUID      `db:"product_id" json:"product_id"`
	OrderID   uuid.UUID      `db:"order_id" json:"order_id"`
	BuyerID   uuid.UUID      `db:"buyer_id" json:"buyer_id"`
	Rating    int            `db:"rating" json:"rating"`
	Comment   sql.NullString `db:"comment" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
