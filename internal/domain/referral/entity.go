package referral

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the referral lifecycle state. A referral completes when
// the commission for the referred user's first completed order is
// paid; the transition happens at most once.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Referral links a referred user to their referrer
type Referral struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	ReferrerID       uuid.UUID       `db:"referrer_id" json:"referrer_id"`
	ReferredUserID   uuid.UUID       `db:"referred_user_id" json:"referred_user_id"`
	Status           Status          `db:"status" json:"status"`
	CommissionEarned decimal.Decimal `db:"commission_earned" json:"commission_earned"`
	CommissionPaidAt sql.NullTime    `db:"commission_paid_at" json:"commission_paid_at"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// Summary is the referral overview returned to a user
type Summary struct {
	ReferralCode    string          `json:"referral_code"`
	TotalReferred   int             `json:"total_referred"`
	TotalCompleted  int             `json:"total_completed"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Referrals       []*Referral     `json:"referrals"`
}
