package dispute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/order"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Notifier sends in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// Auditor records admin actions
type Auditor interface {
	Record(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{})
}

// AdminLister returns the admin user ids to notify about new disputes
type AdminLister interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service handles dispute business logic
type Service struct {
	db       *sqlx.DB
	repo     Repository
	orders   order.Repository
	wallets  wallet.Repository
	admins   AdminLister
	notifier Notifier
	auditor  Auditor
}

// NewService creates dispute service
func NewService(db *sqlx.DB, repo Repository, orders order.Repository, wallets wallet.Repository, admins AdminLister, notifier Notifier, auditor Auditor) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		orders:   orders,
		wallets:  wallets,
		admins:   admins,
		notifier: notifier,
		auditor:  auditor,
	}
}

// Open files a dispute on a delivered order. The order moves to
// disputed, which blocks escrow release until an admin resolves it.
func (s *Service) Open(ctx context.Context, buyerID, orderID uuid.UUID, reason string) (*Dispute, error) {
	var d *Dispute
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		o, err := s.orders.GetByIDTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.BuyerID != buyerID {
			return order.ErrNotParticipant
		}
		if o.Status != order.StatusDelivered {
			return order.ErrInvalidStatus
		}

		d = &Dispute{
			ID:          uuid.New(),
			DisputeCode: ids.New(ids.PrefixDispute),
			OrderID:     o.ID,
			BuyerID:     o.BuyerID,
			SellerID:    o.SellerID,
			Reason:      reason,
			Amount:      o.TotalAmount,
			Status:      StatusOpen,
		}
		if err := s.repo.CreateTx(ctx, tx, d); err != nil {
			return err
		}

		return s.orders.SetDisputedTx(ctx, tx, o.ID, d.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dispute_code", d.DisputeCode).
		Str("order_id", orderID.String()).
		Msg("Dispute opened")

	s.notifier.Notify(ctx, d.SellerID, "dispute",
		"Dispute opened",
		fmt.Sprintf("A dispute %s was opened against your order", d.DisputeCode),
		"/disputes/"+d.ID.String())

	if adminIDs, err := s.admins.ListAdminIDs(ctx); err == nil {
		for _, adminID := range adminIDs {
			s.notifier.Notify(ctx, adminID, "dispute",
				"New dispute",
				fmt.Sprintf("Dispute %s needs review", d.DisputeCode),
				"/admin/disputes/"+d.ID.String())
		}
	}

	return d, nil
}

// Get returns a dispute visible to its participants
func (s *Service) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, disputeID uuid.UUID) (*Dispute, error) {
	d, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && d.BuyerID != userID && d.SellerID != userID {
		return nil, order.ErrNotParticipant
	}
	return d, nil
}

// ListMine returns disputes the user participates in
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Dispute, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListOpen returns open disputes for admin review
func (s *Service) ListOpen(ctx context.Context, limit, offset int) ([]*Dispute, int, error) {
	return s.repo.ListByStatus(ctx, StatusOpen, limit, offset)
}

// Resolve settles an open dispute's escrow in one transaction.
// full_refund returns the whole amount to the buyer, partial_refund
// splits it evenly, seller_favor pays the seller as if the buyer had
// confirmed receipt. The order completes in all three cases.
func (s *Service) Resolve(ctx context.Context, adminID, disputeID uuid.UUID, resolution Resolution, adminNotes string) (*Dispute, error) {
	switch resolution {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionSellerFavor:
	default:
		return nil, ErrInvalidResolution
	}

	var d *Dispute
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		d, err = s.repo.GetByIDTx(ctx, tx, disputeID)
		if err != nil {
			return err
		}
		if d.Status != StatusOpen {
			return ErrNotOpen
		}

		o, err := s.orders.GetByIDTx(ctx, tx, d.OrderID)
		if err != nil {
			return err
		}

		buyer, seller, err := s.wallets.LockPairTx(ctx, tx, d.BuyerID, d.SellerID)
		if err != nil {
			return err
		}
		if buyer.EscrowBalance.LessThan(o.TotalAmount) || seller.EscrowBalance.LessThan(o.TotalAmount) {
			return wallet.ErrInsufficientFunds
		}

		buyer.EscrowBalance = buyer.EscrowBalance.Sub(o.TotalAmount)
		seller.EscrowBalance = seller.EscrowBalance.Sub(o.TotalAmount)

		var txns []*wallet.Transaction
		switch resolution {
		case ResolutionFullRefund:
			buyer.AvailableBalance = buyer.AvailableBalance.Add(o.TotalAmount)
			txns = append(txns, &wallet.Transaction{
				UserID:       d.BuyerID,
				Type:         wallet.TypeDisputeRefund,
				Amount:       o.TotalAmount,
				Description:  fmt.Sprintf("Full refund for dispute %s", d.DisputeCode),
				BalanceAfter: buyer.AvailableBalance,
			})

		case ResolutionPartialRefund:
			buyerHalf, sellerHalf := order.SplitHalf(o.TotalAmount)
			buyer.AvailableBalance = buyer.AvailableBalance.Add(buyerHalf)
			seller.AvailableBalance = seller.AvailableBalance.Add(sellerHalf)
			txns = append(txns,
				&wallet.Transaction{
					UserID:       d.BuyerID,
					Type:         wallet.TypeDisputeRefund,
					Amount:       buyerHalf,
					Description:  fmt.Sprintf("Partial refund for dispute %s", d.DisputeCode),
					BalanceAfter: buyer.AvailableBalance,
				},
				&wallet.Transaction{
					UserID:       d.SellerID,
					Type:         wallet.TypeDisputePayment,
					Amount:       sellerHalf,
					Description:  fmt.Sprintf("Partial payment for dispute %s", d.DisputeCode),
					BalanceAfter: seller.AvailableBalance,
				},
			)

		case ResolutionSellerFavor:
			seller.AvailableBalance = seller.AvailableBalance.Add(o.SellerEarnings)
			seller.TotalEarnings = seller.TotalEarnings.Add(o.SellerEarnings)
			txns = append(txns, &wallet.Transaction{
				UserID:       d.SellerID,
				Type:         wallet.TypeDisputePayment,
				Amount:       o.SellerEarnings,
				Description:  fmt.Sprintf("Payment for dispute %s resolved in seller favor", d.DisputeCode),
				BalanceAfter: seller.AvailableBalance,
			})
		}

		if err := s.wallets.SaveTx(ctx, tx, buyer); err != nil {
			return err
		}
		if err := s.wallets.SaveTx(ctx, tx, seller); err != nil {
			return err
		}

		for _, txn := range txns {
			txn.ID = uuid.New()
			txn.TransactionID = ids.New(ids.PrefixTransaction)
			txn.Status = wallet.StatusCompleted
			if err := s.wallets.InsertTransactionTx(ctx, tx, txn); err != nil {
				return err
			}
		}

		if err := s.repo.ResolveTx(ctx, tx, d.ID, resolution, adminNotes, adminID); err != nil {
			return err
		}

		return s.orders.CompleteTx(ctx, tx, o.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dispute_code", d.DisputeCode).
		Str("resolution", string(resolution)).
		Msg("Dispute resolved")

	s.auditor.Record(ctx, adminID, "dispute_resolved", map[string]interface{}{
		"dispute_code": d.DisputeCode,
		"resolution":   string(resolution),
		"amount":       d.Amount.String(),
	})
	s.notifier.Notify(ctx, d.BuyerID, "dispute",
		"Dispute resolved",
		fmt.Sprintf("Dispute %s was resolved: %s", d.DisputeCode, resolution),
		"/disputes/"+d.ID.String())
	s.notifier.Notify(ctx, d.SellerID, "dispute",
		"Dispute resolved",
		fmt.Sprintf("Dispute %s was resolved: %s", d.DisputeCode, resolution),
		"/disputes/"+d.ID.String())

	return s.repo.GetByID(ctx, disputeID)
}
