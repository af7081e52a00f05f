package services

import (
	"context"
	"time"

	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"go.uber.org/zap"
)

const CheckoutMessage = "Payment successful! Your order has been placed and cart cleared."

type CheckoutConfirmation struct {
	CartID      string           `json:"cart_id"`
	ItemCount   int              `json:"item_count"`
	Totals      calc.OrderTotals `json:"totals"`
	ConfirmedAt time.Time        `json:"confirmed_at"`
	Message     string           `json:"message"`
}

// CheckoutService confirms an order and clears the cart. No payment
// provider is involved.
type CheckoutService struct {
	store    *repositories.Store
	carts    *CartService
	notifier TotalsNotifier
	log      *zap.Logger
	now      func() time.Time
}

func NewCheckoutService(store *repositories.Store, carts *CartService, notifier TotalsNotifier, log *zap.Logger) *CheckoutService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CheckoutService{store: store, carts: carts, notifier: notifier, log: log, now: time.Now}
}

func (s *CheckoutService) Checkout(ctx context.Context, cartID string) (*CheckoutConfirmation, error) {
	unlock := s.carts.locks.Lock("cart:" + cartID)
	defer unlock()

	confirmation := &CheckoutConfirmation{CartID: cartID, Message: CheckoutMessage}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Carts.Ensure(ctx, cartID); err != nil {
			return upstream("failed to create cart", err)
		}
		if _, err := tx.Carts.LockForUpdate(ctx, cartID); err != nil {
			return upstream("failed to lock cart", err)
		}

		lines, err := tx.CartItems.GetByCartID(ctx, cartID)
		if err != nil {
			return upstream("failed to load cart lines", err)
		}
		if len(lines) == 0 {
			return newError(ErrCartEmpty, "cart_id", cartID, nil)
		}

		products, err := productsFor(ctx, tx, lines)
		if err != nil {
			return err
		}
		confirmation.Totals = calc.ComputeOrderTotals(lines, products)
		for _, l := range lines {
			confirmation.ItemCount += l.Quantity
		}

		if _, err := tx.CartItems.ClearCartItems(ctx, cartID); err != nil {
			return upstream("failed to clear cart", err)
		}
		if err := tx.Carts.BumpVersion(ctx, cartID); err != nil {
			return upstream("failed to bump cart version", err)
		}
		return nil
	})
	if err != nil {
		return nil, upstream("checkout failed", err)
	}

	confirmation.ConfirmedAt = s.now()
	s.log.Info("checkout confirmed",
		zap.String("cart_id", cartID),
		zap.Int("item_count", confirmation.ItemCount),
		zap.String("grand_total", confirmation.Totals.GrandTotal.StringFixed(2)))

	s.notifier.Publish(cartID, calc.ComputeOrderTotals(nil, nil))
	return confirmation, nil
}
