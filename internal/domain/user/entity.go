package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role (matches users.role)
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// AccountStatus represents account standing (matches users.account_status)
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusFrozen    AccountStatus = "frozen"
)

// SellerStatus tracks a seller application
type SellerStatus string

const (
	SellerPending  SellerStatus = "pending"
	SellerApproved SellerStatus = "approved"
	SellerRejected SellerStatus = "rejected"
)

// User represents a marketplace account
type User struct {
	ID              uuid.UUID      `db:"id"`
	UserCode        string         `db:"user_code"`
	FullName        string         `db:"full_name"`
	Email           string         `db:"email"`
	PasswordHash    string         `db:"password_hash"`
	Role            Role           `db:"role"`
	AccountStatus   AccountStatus  `db:"account_status"`
	ReferralCode    string         `db:"referral_code"`
	SellerStatus    sql.NullString `db:"seller_status"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// IsSeller returns true if user can list products
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsFrozen returns true if the account is frozen
func (u *User) IsFrozen() bool {
	return u.AccountStatus == StatusFrozen
}
