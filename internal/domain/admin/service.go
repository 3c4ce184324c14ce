package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/dispute"
	"github.com/shahmarket/market-api/internal/domain/order"
	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/domain/wallet"
)

// Notifier sends in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// Service handles admin business logic and assembles the dashboard
type Service struct {
	repo     Repository
	users    user.Repository
	products product.Repository
	orders   order.Repository
	wallets  wallet.Repository
	disputes dispute.Repository
	notifier Notifier
}

// NewService creates admin service
func NewService(repo Repository, users user.Repository, products product.Repository, orders order.Repository, wallets wallet.Repository, disputes dispute.Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		products: products,
		orders:   orders,
		wallets:  wallets,
		disputes: disputes,
		notifier: notifier,
	}
}

// Record writes an audit log entry. Failures are logged and swallowed
// so an audit write never fails the action it describes.
func (s *Service) Record(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{}) {
	if err := s.repo.InsertLog(ctx, adminID, action, details); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to write admin log")
	}
}

// Dashboard returns the platform overview
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	d.Users.Total, d.Users.Buyers, d.Users.Sellers, d.Users.PendingSellers, err = s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	d.Products.Total, d.Products.Pending, err = s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	d.Orders.Total, d.Orders.Completed, d.Orders.Disputed, d.Orders.Revenue, err = s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.wallets.Totals(ctx)
	if err != nil {
		return nil, err
	}
	d.Wallets.TotalAvailable = totals.TotalAvailable
	d.Wallets.TotalEscrow = totals.TotalEscrow
	d.Wallets.TotalPending = totals.TotalPending

	d.OpenDisputes, err = s.disputes.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// ListUsers returns a filtered page of users
func (s *Service) ListUsers(ctx context.Context, role, status string, limit, offset int) ([]*user.User, int, error) {
	return s.users.List(ctx, role, status, limit, offset)
}

// FreezeUser blocks a user's access while keeping their data
func (s *Service) FreezeUser(ctx context.Context, adminID, userID uuid.UUID, reason string) error {
	if err := s.users.UpdateAccountStatus(ctx, userID, user.StatusFrozen); err != nil {
		return err
	}
	s.Record(ctx, adminID, "user_frozen", map[string]interface{}{
		"user_id": userID.String(),
		"reason":  reason,
	})
	return nil
}

// UnfreezeUser restores a frozen account
func (s *Service) UnfreezeUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.users.UpdateAccountStatus(ctx, userID, user.StatusActive); err != nil {
		return err
	}
	s.Record(ctx, adminID, "user_unfrozen", map[string]interface{}{
		"user_id": userID.String(),
	})
	s.notifier.Notify(ctx, userID, "system",
		"Account restored",
		"Your account has been unfrozen, welcome back",
		"")
	return nil
}

// PendingSellers returns seller applications awaiting review
func (s *Service) PendingSellers(ctx context.Context) ([]*user.User, error) {
	return s.users.ListBySellerStatus(ctx, user.SellerPending)
}

// ApproveSeller promotes a user to seller
func (s *Service) ApproveSeller(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.users.UpdateSellerStatus(ctx, userID, user.RoleSeller, user.SellerApproved, ""); err != nil {
		return err
	}
	s.Record(ctx, adminID, "seller_approved", map[string]interface{}{
		"user_id": userID.String(),
	})
	s.notifier.Notify(ctx, userID, "seller_approval",
		"Seller application approved",
		"You can now list products for sale",
		"/products/mine")
	return nil
}

// RejectSeller declines a seller application with a reason
func (s *Service) RejectSeller(ctx context.Context, adminID, userID uuid.UUID, reason string) error {
	if err := s.users.UpdateSellerStatus(ctx, userID, user.RoleBuyer, user.SellerRejected, reason); err != nil {
		return err
	}
	s.Record(ctx, adminID, "seller_rejected", map[string]interface{}{
		"user_id": userID.String(),
		"reason":  reason,
	})
	s.notifier.Notify(ctx, userID, "seller_approval",
		"Seller application rejected",
		fmt.Sprintf("Your application was rejected: %s", reason),
		"")
	return nil
}

// Settings returns the stored platform settings
func (s *Service) Settings(ctx context.Context) ([]*Setting, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateSetting stores a platform setting and audits the change.
// Values feed the policy loaded at startup; a restart applies them.
func (s *Service) UpdateSetting(ctx context.Context, adminID uuid.UUID, key, value string) error {
	if err := s.repo.UpsertSetting(ctx, key, value); err != nil {
		return err
	}
	s.Record(ctx, adminID, "setting_updated", map[string]interface{}{
		"key":   key,
		"value": value,
	})
	return nil
}

// Logs returns a page of the audit trail
func (s *Service) Logs(ctx context.Context, limit, offset int) ([]*Log, int, error) {
	return s.repo.ListLogs(ctx, limit, offset)
}
