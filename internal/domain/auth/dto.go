package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahmarket/market-api/internal/domain/user"
)

// RegisterRequest is the signup payload
type RegisterRequest struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=40"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public user shape
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	UserCode      string    `json:"user_code"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	AccountStatus string    `json:"account_status"`
	ReferralCode  string    `json:"referral_code"`
	SellerStatus  string    `json:"seller_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthResponse carries the token and the authenticated user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a user entity to its public shape
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		UserCode:      u.UserCode,
		FullName:      u.FullName,
		Email:         u.Email,
		Role:          string(u.Role),
		AccountStatus: string(u.AccountStatus),
		ReferralCode:  u.ReferralCode,
		SellerStatus:  u.SellerStatus.String,
		CreatedAt:     u.CreatedAt,
	}
}
