package notification

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type categorizes a notification (matches notifications.type)
type Type string

const (
	TypeOrder           Type = "order"
	TypePayment         Type = "payment"
	TypeSellerApproval  Type = "seller_approval"
	TypeProductApproval Type = "product_approval"
	TypeDispute         Type = "dispute"
	TypeWithdrawal      Type = "withdrawal"
	TypeSystem          Type = "system"
)

// Notification represents an in-app notification
type Notification struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Type      Type           `db:"type" json:"type"`
	Title     string         `db:"title" json:"title"`
	Message   string         `db:"message" json:"message"`
	Link      sql.NullString `db:"link" json:"-"`
	IsRead    bool           `db:"is_read" json:"is_read"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// View is the JSON shape returned to clients
type View struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToView converts a notification to its client representation
func (n *Notification) ToView() View {
	return View{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link.String,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
