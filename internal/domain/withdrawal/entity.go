package withdrawal

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the withdrawal lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// Withdrawal is a payout request. The amount sits in the pending
// balance until an admin approves or rejects it.
type Withdrawal struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	WithdrawalCode  string          `db:"withdrawal_code" json:"withdrawal_code"`
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	PaymentDetails  string          `db:"payment_details" json:"payment_details"`
	Status          Status          `db:"status" json:"status"`
	RejectionReason sql.NullString  `db:"rejection_reason" json:"-"`
	ProcessedAt     sql.NullTime    `db:"processed_at" json:"processed_at"`
	ProcessedBy     uuid.NullUUID   `db:"processed_by" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}
