package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Log is an immutable record of an admin action
type Log struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	AdminID   uuid.UUID      `db:"admin_id" json:"admin_id"`
	Action    string         `db:"action" json:"action"`
	Details   types.JSONText `db:"details" json:"details"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Setting is a key/value platform parameter
type Setting struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	Description sql.NullString `db:"description" json:"-"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Well-known setting keys
const (
	SettingPlatformFeePercent = "platform_fee_percentage"
	SettingReferralCommission = "referral_commission_rate"
	SettingMinimumWithdrawal  = "minimum_withdrawal"
	SettingMaximumWithdrawal  = "maximum_withdrawal"
)

// Dashboard aggregates the platform overview
type Dashboard struct {
	Users struct {
		Total          int `json:"total"`
		Buyers         int `json:"buyers"`
		Sellers        int `json:"sellers"`
		PendingSellers int `json:"pending_sellers"`
	} `json:"users"`
	Products struct {
		Total   int `json:"total"`
		Pending int `json:"pending"`
	} `json:"products"`
	Orders struct {
		Total     int             `json:"total"`
		Completed int             `json:"completed"`
		Disputed  int             `json:"disputed"`
		Revenue   decimal.Decimal `json:"revenue"`
	} `json:"orders"`
	Wallets struct {
		TotalAvailable decimal.Decimal `json:"total_available"`
		TotalEscrow    decimal.Decimal `json:"total_escrow"`
		TotalPending   decimal.Decimal `json:"total_pending"`
	} `json:"wallets"`
	OpenDisputes int `json:"open_disputes"`
}
