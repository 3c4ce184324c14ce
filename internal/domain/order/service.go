package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/ids"
)

// Notifier sends in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string)
}

// ReferralProcessor pays the referral commission for a buyer's first
// completed order. Idempotent; calling it again is a no-op.
type ReferralProcessor interface {
	ProcessCommission(ctx context.Context, buyerID uuid.UUID, orderAmount decimal.Decimal) error
}

// Policy carries the platform fee applied at order placement
type Policy struct {
	PlatformFeePercent decimal.Decimal
}

// Service handles order business logic. Every operation that moves
// money runs in a single database transaction with the affected
// wallet rows locked.
type Service struct {
	db        *sqlx.DB
	repo      Repository
	wallets   wallet.Repository
	products  product.Repository
	policy    Policy
	notifier  Notifier
	referrals ReferralProcessor
}

// NewService creates order service
func NewService(db *sqlx.DB, repo Repository, wallets wallet.Repository, products product.Repository, policy Policy, notifier Notifier, referrals ReferralProcessor) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		wallets:   wallets,
		products:  products,
		policy:    policy,
		notifier:  notifier,
		referrals: referrals,
	}
}

// Create places an order. The buyer's available balance funds the
// full amount, which moves into escrow on both sides until the buyer
// confirms receipt.
func (s *Service) Create(ctx context.Context, buyerID, productID uuid.UUID, quantity int64) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var o *Order
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		p, err := s.products.GetByIDTx(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p.SellerID == buyerID {
			return ErrOwnProduct
		}
		if !p.Purchasable(quantity) {
			if p.InventoryType == product.InventoryLimited && p.Quantity < quantity {
				return product.ErrInsufficientInventory
			}
			return product.ErrProductUnavailable
		}

		pricing := ComputePricing(p.Price, quantity, s.policy.PlatformFeePercent)

		buyer, seller, err := s.wallets.LockPairTx(ctx, tx, buyerID, p.SellerID)
		if err != nil {
			return err
		}
		if buyer.AvailableBalance.LessThan(pricing.Total) {
			return wallet.ErrInsufficientFunds
		}

		buyer.AvailableBalance = buyer.AvailableBalance.Sub(pricing.Total)
		buyer.EscrowBalance = buyer.EscrowBalance.Add(pricing.Total)
		seller.EscrowBalance = seller.EscrowBalance.Add(pricing.Total)

		if err := s.wallets.SaveTx(ctx, tx, buyer); err != nil {
			return err
		}
		if err := s.wallets.SaveTx(ctx, tx, seller); err != nil {
			return err
		}

		if err := s.products.DecrementInventoryTx(ctx, tx, p.ID, quantity); err != nil {
			return err
		}

		o = &Order{
			ID:             uuid.New(),
			OrderCode:      ids.New(ids.PrefixOrder),
			BuyerID:        buyerID,
			SellerID:       p.SellerID,
			ProductID:      p.ID,
			Quantity:       quantity,
			PricePerUnit:   p.Price,
			TotalAmount:    pricing.Total,
			PlatformFee:    pricing.Fee,
			SellerEarnings: pricing.Earnings,
			Status:         StatusPending,
		}
		if err := s.repo.CreateTx(ctx, tx, o); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        buyerID,
			Type:          wallet.TypeEscrowHold,
			Amount:        pricing.Total,
			Status:        wallet.StatusCompleted,
			Description:   fmt.Sprintf("Escrow hold for order %s", o.OrderCode),
			BalanceAfter:  buyer.AvailableBalance,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_code", o.OrderCode).
		Str("buyer_id", buyerID.String()).
		Str("total", o.TotalAmount.String()).
		Msg("Order placed, funds held in escrow")

	s.notifier.Notify(ctx, o.SellerID, "order",
		"New order received",
		fmt.Sprintf("Order %s is waiting for delivery", o.OrderCode),
		"/orders/"+o.ID.String())

	return o, nil
}

// Get returns an order visible to one of its participants
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Participant(userID) {
		return nil, ErrNotParticipant
	}
	return o, nil
}

// ListPurchases returns the buyer's orders
func (s *Service) ListPurchases(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	return s.repo.ListByBuyer(ctx, buyerID, limit, offset)
}

// ListSales returns the seller's orders
func (s *Service) ListSales(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// Deliver records the delivery payload and moves the order to
// delivered. Only the seller of a pending order can deliver.
func (s *Service) Deliver(ctx context.Context, sellerID, orderID uuid.UUID, deliveryData string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, ErrNotParticipant
	}
	if o.Status != StatusPending {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.MarkDelivered(ctx, orderID, deliveryData); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, o.BuyerID, "order",
		"Order delivered",
		fmt.Sprintf("Order %s has been delivered, please confirm receipt", o.OrderCode),
		"/orders/"+o.ID.String())

	return s.repo.GetByID(ctx, orderID)
}

// ConfirmReceipt releases the escrow. The held amount leaves both
// escrow balances, the seller is credited with their earnings and the
// platform keeps the fee. Runs once per order; the row lock and the
// escrow_released flag make repeats fail cleanly.
func (s *Service) ConfirmReceipt(ctx context.Context, buyerID, orderID uuid.UUID) (*Order, error) {
	var o *Order
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		o, err = s.repo.GetByIDTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.BuyerID != buyerID {
			return ErrNotParticipant
		}
		if o.Status != StatusDelivered {
			return ErrInvalidStatus
		}
		if o.EscrowReleased {
			return ErrAlreadyReleased
		}

		buyer, seller, err := s.wallets.LockPairTx(ctx, tx, o.BuyerID, o.SellerID)
		if err != nil {
			return err
		}
		if buyer.EscrowBalance.LessThan(o.TotalAmount) || seller.EscrowBalance.LessThan(o.TotalAmount) {
			return wallet.ErrInsufficientFunds
		}

		buyer.EscrowBalance = buyer.EscrowBalance.Sub(o.TotalAmount)
		seller.EscrowBalance = seller.EscrowBalance.Sub(o.TotalAmount)
		seller.AvailableBalance = seller.AvailableBalance.Add(o.SellerEarnings)
		seller.TotalEarnings = seller.TotalEarnings.Add(o.SellerEarnings)

		if err := s.wallets.SaveTx(ctx, tx, buyer); err != nil {
			return err
		}
		if err := s.wallets.SaveTx(ctx, tx, seller); err != nil {
			return err
		}

		if err := s.repo.CompleteTx(ctx, tx, o.ID); err != nil {
			return err
		}

		return s.wallets.InsertTransactionTx(ctx, tx, &wallet.Transaction{
			ID:            uuid.New(),
			TransactionID: ids.New(ids.PrefixTransaction),
			UserID:        o.SellerID,
			Type:          wallet.TypeEscrowRelease,
			Amount:        o.SellerEarnings,
			Status:        wallet.StatusCompleted,
			Description:   fmt.Sprintf("Escrow release for order %s", o.OrderCode),
			BalanceAfter:  seller.AvailableBalance,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_code", o.OrderCode).
		Str("earnings", o.SellerEarnings.String()).
		Msg("Escrow released, order completed")

	// Commission for the buyer's referrer, if any. Runs after the
	// escrow commit in its own transaction; the referral row's state
	// machine makes it at most once per referred user.
	if err := s.referrals.ProcessCommission(ctx, o.BuyerID, o.TotalAmount); err != nil {
		log.Error().Err(err).Str("order_code", o.OrderCode).Msg("Referral commission processing failed")
	}

	s.notifier.Notify(ctx, o.SellerID, "payment",
		"Payment released",
		fmt.Sprintf("Earnings of %s for order %s are now available", o.SellerEarnings.StringFixed(2), o.OrderCode),
		"/wallet")
	s.notifier.Notify(ctx, o.BuyerID, "order",
		"Order completed",
		fmt.Sprintf("Order %s is complete, thank you", o.OrderCode),
		"/orders/"+o.ID.String())

	return s.repo.GetByID(ctx, orderID)
}
