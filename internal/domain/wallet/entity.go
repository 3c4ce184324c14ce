package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's balances. All amounts are non-negative;
// the schema enforces this with CHECK constraints and the services
// verify before writing.
type Wallet struct {
	UserID           uuid.UUID       `db:"user_id" json:"user_id"`
	AvailableBalance decimal.Decimal `db:"available_balance" json:"available_balance"`
	EscrowBalance    decimal.Decimal `db:"escrow_balance" json:"escrow_balance"`
	PendingBalance   decimal.Decimal `db:"pending_balance" json:"pending_balance"`
	TotalEarnings    decimal.Decimal `db:"total_earnings" json:"total_earnings"`
	TotalWithdrawals decimal.Decimal `db:"total_withdrawals" json:"total_withdrawals"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// TransactionType identifies a ledger movement
type TransactionType string

const (
	TypeDeposit            TransactionType = "deposit"
	TypeWithdrawal         TransactionType = "withdrawal"
	TypeWithdrawalRequest  TransactionType = "withdrawal_request"
	TypeWithdrawalRejected TransactionType = "withdrawal_rejected"
	TypeEscrowHold         TransactionType = "escrow_hold"
	TypeEscrowRelease      TransactionType = "escrow_release"
	TypeReferralCommission TransactionType = "referral_commission"
	TypeDisputeRefund      TransactionType = "dispute_refund"
	TypeDisputePayment     TransactionType = "dispute_payment"
)

// TransactionStatus is the lifecycle state of a transaction record
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry. BalanceAfter snapshots
// the owner's available balance at write time.
type Transaction struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	TransactionID string            `db:"transaction_id" json:"transaction_id"`
	UserID        uuid.UUID         `db:"user_id" json:"user_id"`
	Type          TransactionType   `db:"type" json:"type"`
	Amount        decimal.Decimal   `db:"amount" json:"amount"`
	Status        TransactionStatus `db:"status" json:"status"`
	Description   string            `db:"description" json:"description"`
	BalanceAfter  decimal.Decimal   `db:"balance_after" json:"balance_after"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// Totals aggregates balances across all wallets (admin overview)
type Totals struct {
	TotalAvailable decimal.Decimal `db:"total_available" json:"total_available"`
	TotalEscrow    decimal.Decimal `db:"total_escrow" json:"total_escrow"`
	TotalPending   decimal.Decimal `db:"total_pending" json:"total_pending"`
	Wallets        int             `db:"wallets" json:"wallets"`
}
