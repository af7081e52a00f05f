package services

import (
	"context"
	"strconv"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/Rakhulsr/go-storefront/app/utils/locks"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartLineView struct {
	ID               uint            `json:"id"`
	ProductID        uint            `json:"product_id"`
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	ImageURL         string          `json:"image_url"`
	Quantity         int             `json:"quantity"`
	Note             string          `json:"note"`
	IsCampaign       bool            `json:"is_campaign"`
	BasePrice        decimal.Decimal `json:"base_price"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	UnitPriceDisplay string          `json:"unit_price_display"`
	LineTotalDisplay string          `json:"line_total_display"`
}

type CartView struct {
	CartID             string           `json:"cart_id"`
	Version            int64            `json:"version"`
	Lines              []CartLineView   `json:"lines"`
	ItemCount          int              `json:"item_count"`
	Totals             calc.OrderTotals `json:"totals"`
	ItemsTotalDisplay  string           `json:"items_total_display"`
	DeliveryFeeDisplay string           `json:"delivery_fee_display"`
	GrandTotalDisplay  string           `json:"grand_total_display"`
}

type CartService struct {
	store    *repositories.Store
	locks    *locks.KeyedMutex
	notifier TotalsNotifier
	log      *zap.Logger
}

func NewCartService(store *repositories.Store, notifier TotalsNotifier, log *zap.Logger) *CartService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CartService{
		store:    store,
		locks:    locks.NewKeyedMutex(),
		notifier: notifier,
		log:      log,
	}
}

// mutate runs fn in a transaction holding the cart's in-process lock and its
// row lock, bumps the cart version and publishes the new totals.
func (s *CartService) mutate(ctx context.Context, cartID string, fn func(tx *repositories.Store) (bool, error)) error {
	unlock := s.locks.Lock("cart:" + cartID)
	defer unlock()

	changed := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Carts.Ensure(ctx, cartID); err != nil {
			return upstream("failed to create cart", err)
		}
		if _, err := tx.Carts.LockForUpdate(ctx, cartID); err != nil {
			return upstream("failed to lock cart", err)
		}

		var err error
		changed, err = fn(tx)
		if err != nil || !changed {
			return err
		}
		if err := tx.Carts.BumpVersion(ctx, cartID); err != nil {
			return upstream("failed to bump cart version", err)
		}
		return nil
	})
	if err != nil {
		return upstream("cart update failed", err)
	}

	if changed {
		s.publish(ctx, cartID)
	}
	return nil
}

func (s *CartService) publish(ctx context.Context, cartID string) {
	totals, err := loadTotals(ctx, s.store, cartID)
	if err != nil {
		s.log.Warn("failed to recompute cart totals", zap.String("cart_id", cartID), zap.Error(err))
		return
	}
	s.notifier.Publish(cartID, totals)
}

// MaxLineQuantity bounds a single cart line.
const MaxLineQuantity = 10000

// AddToCart merges the product into the cart's single line for it.
func (s *CartService) AddToCart(ctx context.Context, cartID string, productID uint, quantity int) (*models.CartItem, error) {
	id := strconv.FormatUint(uint64(productID), 10)
	if quantity <= 0 || quantity > MaxLineQuantity {
		return nil, newErrorf(ErrInvalidQuantity, "quantity", id, "quantity must be between 1 and %d", MaxLineQuantity)
	}

	var line *models.CartItem
	err := s.mutate(ctx, cartID, func(tx *repositories.Store) (bool, error) {
		ok, err := tx.Products.Exists(ctx, productID)
		if err != nil {
			return false, upstream("failed to look up product", err)
		}
		if !ok {
			return false, newError(ErrProductNotFound, "product_id", id, nil)
		}

		existing, err := tx.CartItems.GetCartAndProduct(ctx, cartID, productID)
		switch {
		case err == nil:
			if existing.Quantity > MaxLineQuantity-quantity {
				return false, newErrorf(ErrInvalidQuantity, "quantity", id,
					"cart already holds %d, at most %d fit on one line", existing.Quantity, MaxLineQuantity)
			}
			existing.Quantity += quantity
			if err := tx.CartItems.Update(ctx, existing); err != nil {
				return false, upstream("failed to update cart item", err)
			}
			line = existing
		case isNotFound(err):
			item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
			if err := tx.CartItems.Add(ctx, item); err != nil {
				if isDuplicateKey(err) {
					return false, newError(ErrDuplicateCartLine, "product_id", id, err)
				}
				return false, upstream("failed to add cart item", err)
			}
			line = item
		default:
			return false, upstream("failed to check existing cart item", err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity sets a line's quantity. Anything below 1 is stored as 1.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity > MaxLineQuantity {
		return nil, newErrorf(ErrInvalidQuantity, "quantity", strconv.FormatUint(uint64(itemID), 10),
			"quantity must be at most %d", MaxLineQuantity)
	}
	if quantity < 1 {
		quantity = 1
	}
	return s.updateLine(ctx, cartID, itemID, func(item *models.CartItem) {
		item.Quantity = quantity
	})
}

func (s *CartService) UpdateNote(ctx context.Context, cartID string, itemID uint, note string) (*models.CartItem, error) {
	return s.updateLine(ctx, cartID, itemID, func(item *models.CartItem) {
		item.Note = note
	})
}

func (s *CartService) updateLine(ctx context.Context, cartID string, itemID uint, apply func(*models.CartItem)) (*models.CartItem, error) {
	var line *models.CartItem
	err := s.mutate(ctx, cartID, func(tx *repositories.Store) (bool, error) {
		item, err := tx.CartItems.GetByID(ctx, cartID, itemID)
		if err != nil {
			if isNotFound(err) {
				return false, newError(ErrCartItemNotFound, "cart_item_id", strconv.FormatUint(uint64(itemID), 10), nil)
			}
			return false, upstream("failed to load cart item", err)
		}
		apply(item)
		if err := tx.CartItems.Update(ctx, item); err != nil {
			return false, upstream("failed to update cart item", err)
		}
		line = item
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveItem deletes the line if it is still there.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, itemID uint) error {
	return s.mutate(ctx, cartID, func(tx *repositories.Store) (bool, error) {
		affected, err := tx.CartItems.Delete(ctx, cartID, itemID)
		if err != nil {
			return false, upstream("failed to remove cart item", err)
		}
		return affected > 0, nil
	})
}

// EmptyCart drops every line in one statement and one version step.
func (s *CartService) EmptyCart(ctx context.Context, cartID string) error {
	return s.mutate(ctx, cartID, func(tx *repositories.Store) (bool, error) {
		if _, err := tx.CartItems.ClearCartItems(ctx, cartID); err != nil {
			return false, upstream("failed to empty cart", err)
		}
		return true, nil
	})
}

// GetCart reads lines, products and totals from one snapshot.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*CartView, error) {
	view := &CartView{CartID: cartID, Lines: []CartLineView{}}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		cart, err := tx.Carts.GetByID(ctx, cartID)
		switch {
		case err == nil:
			view.Version = cart.Version
		case !isNotFound(err):
			return upstream("failed to load cart", err)
		}

		lines, err := tx.CartItems.GetByCartID(ctx, cartID)
		if err != nil {
			return upstream("failed to load cart lines", err)
		}
		products, err := productsFor(ctx, tx, lines)
		if err != nil {
			return err
		}

		for _, l := range lines {
			view.ItemCount += l.Quantity

			p, ok := products[l.ProductID]
			if !ok {
				continue
			}
			unit, err := calc.ResolvePrice(p)
			if err != nil {
				continue
			}
			total := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
			view.Lines = append(view.Lines, CartLineView{
				ID:               l.ID,
				ProductID:        p.ID,
				Title:            p.Title,
				Slug:             p.Slug,
				ImageURL:         p.ImageURL,
				Quantity:         l.Quantity,
				Note:             l.Note,
				IsCampaign:       p.IsCampaign,
				BasePrice:        p.BasePrice,
				UnitPrice:        unit,
				LineTotal:        total,
				UnitPriceDisplay: format.Money(unit),
				LineTotalDisplay: format.Money(total),
			})
		}
		view.Totals = calc.ComputeOrderTotals(lines, products)
		return nil
	})
	if err != nil {
		return nil, upstream("failed to read cart", err)
	}

	if len(view.Totals.MissingProductIDs) > 0 {
		s.log.Warn("cart references missing products",
			zap.String("cart_id", cartID),
			zap.Any("product_ids", view.Totals.MissingProductIDs))
	}

	view.ItemsTotalDisplay = format.Money(view.Totals.ItemsTotal)
	view.DeliveryFeeDisplay = format.Money(view.Totals.DeliveryFee)
	view.GrandTotalDisplay = format.Money(view.Totals.GrandTotal)
	return view, nil
}

func (s *CartService) GetOrderTotals(ctx context.Context, cartID string) (calc.OrderTotals, error) {
	var totals calc.OrderTotals
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		totals, err = loadTotals(ctx, tx, cartID)
		return err
	})
	if err != nil {
		return calc.OrderTotals{}, upstream("failed to compute totals", err)
	}
	return totals, nil
}

// CountItems sums line quantities for the navbar badge.
func (s *CartService) CountItems(ctx context.Context, cartID string) (int, error) {
	count, err := s.store.CartItems.CountQuantity(ctx, cartID)
	if err != nil {
		return 0, upstream("failed to count cart items", err)
	}
	return count, nil
}
