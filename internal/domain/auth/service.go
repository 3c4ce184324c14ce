package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/pkg/ids"
	"github.com/shahmarket/market-api/internal/pkg/jwt"
	"github.com/shahmarket/market-api/internal/pkg/password"
)

// WalletCreator provisions the wallet row for a new user
type WalletCreator interface {
	Ensure(ctx context.Context, userID uuid.UUID) error
}

// ReferralTracker records who referred a new signup. Fire and forget;
// a bad code never blocks registration.
type ReferralTracker interface {
	Track(ctx context.Context, referredUserID uuid.UUID, code string)
}

// Service handles registration and login
type Service struct {
	users     user.Repository
	wallets   WalletCreator
	referrals ReferralTracker
	tokens    *jwt.Service
}

// NewService creates auth service
func NewService(users user.Repository, wallets WalletCreator, referrals ReferralTracker, tokens *jwt.Service) *Service {
	return &Service{users: users, wallets: wallets, referrals: referrals, tokens: tokens}
}

// Register creates a buyer account with a fresh wallet and referral code
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:            uuid.New(),
		UserCode:      ids.New(ids.PrefixUser),
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          user.RoleBuyer,
		AccountStatus: user.StatusActive,
		ReferralCode:  ids.New(ids.PrefixReferral),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.wallets.Ensure(ctx, u.ID); err != nil {
		return nil, err
	}

	s.referrals.Track(ctx, u.ID, req.ReferralCode)

	log.Info().
		Str("user_id", u.ID.String()).
		Str("email", u.Email).
		Msg("User registered")

	return s.issue(u)
}

// Login verifies credentials and issues a token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, user.ErrInvalidCredentials
	}

	return s.issue(u)
}

// Me returns the authenticated user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := NewUserResponse(u)
	return &resp, nil
}

// ApplySeller puts the account into the seller review queue
func (s *Service) ApplySeller(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsSeller() || u.SellerStatus.String == string(user.SellerPending) {
		return nil
	}
	return s.users.SetSellerApplication(ctx, userID)
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(u.ID, string(u.Role), string(u.AccountStatus))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
		User:      NewUserResponse(u),
	}, nil
}
