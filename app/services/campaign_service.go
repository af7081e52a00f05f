package services

import (
	"context"
	"strconv"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/Rakhulsr/go-storefront/app/utils/locks"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CampaignItem is one entry of the campaign carousel.
type CampaignItem struct {
	Product         models.Product  `json:"product"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	CampaignPrice   decimal.Decimal `json:"campaign_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartedAt       time.Time       `json:"started_at"`
}

// CampaignService is the only writer of Product.IsCampaign and
// Product.CampaignPrice.
type CampaignService struct {
	store    *repositories.Store
	locks    *locks.KeyedMutex
	notifier TotalsNotifier
	log      *zap.Logger
}

func NewCampaignService(store *repositories.Store, notifier TotalsNotifier, log *zap.Logger) *CampaignService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CampaignService{
		store:    store,
		locks:    locks.NewKeyedMutex(),
		notifier: notifier,
		log:      log,
	}
}

// pricePlaces matches the decimal(16,2) price columns.
const pricePlaces = 2

// ApplyCampaign puts a product on a one-time campaign price.
func (s *CampaignService) ApplyCampaign(ctx context.Context, productID uint, newPrice decimal.Decimal) (*models.Product, error) {
	id := strconv.FormatUint(uint64(productID), 10)

	if !newPrice.IsPositive() {
		return nil, newError(ErrInvalidPrice, "new_price", id, nil)
	}
	// Prices are stored in cents; anything finer would be rounded by the column.
	if !newPrice.Equal(newPrice.Round(pricePlaces)) {
		return nil, newErrorf(ErrInvalidPrice, "new_price", id, "price %s has more than %d decimal places", newPrice, pricePlaces)
	}
	newPrice = newPrice.Round(pricePlaces)

	unlock := s.locks.Lock("product:" + id)
	defer unlock()

	var updated *models.Product
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		product, err := tx.Products.GetByIDForUpdate(ctx, productID)
		if err != nil {
			if isNotFound(err) {
				return newError(ErrProductNotFound, "product_id", id, nil)
			}
			return upstream("failed to lock product", err)
		}

		if product.IsCampaign {
			return newError(ErrAlreadyInCampaign, "product_id", id, nil)
		}
		if !newPrice.LessThan(product.BasePrice) {
			return newErrorf(ErrInvalidDiscount, "new_price", id,
				"campaign price %s must be lower than the base price %s", newPrice.StringFixed(2), product.BasePrice.StringFixed(2))
		}

		override := &models.CampaignOverride{ProductID: productID, DiscountedPrice: newPrice}
		if err := tx.Campaigns.Create(ctx, override); err != nil {
			if isDuplicateKey(err) {
				return newError(ErrAlreadyInCampaign, "product_id", id, err)
			}
			return upstream("failed to create campaign override", err)
		}

		if err := tx.Products.SetCampaignPrice(ctx, productID, newPrice); err != nil {
			return upstream("failed to set campaign price", err)
		}

		product.IsCampaign = true
		product.CampaignPrice = decimal.NewNullDecimal(newPrice)
		updated = product
		return nil
	})
	if err != nil {
		return nil, upstream("failed to apply campaign", err)
	}

	s.log.Info("campaign applied",
		zap.Uint("product_id", productID),
		zap.String("base_price", updated.BasePrice.StringFixed(2)),
		zap.String("campaign_price", newPrice.StringFixed(2)))

	s.republish(ctx, productID)

	product, err := s.store.Products.GetByID(ctx, productID)
	if err != nil {
		return updated, nil
	}
	return product, nil
}

// republish recomputes totals for every cart holding the product. Failures
// are logged; the campaign itself is already committed.
func (s *CampaignService) republish(ctx context.Context, productID uint) {
	cartIDs, err := s.store.CartItems.GetCartIDsByProduct(ctx, productID)
	if err != nil {
		s.log.Warn("failed to find carts for campaign product", zap.Uint("product_id", productID), zap.Error(err))
		return
	}
	for _, cartID := range cartIDs {
		totals, err := loadTotals(ctx, s.store, cartID)
		if err != nil {
			s.log.Warn("failed to recompute cart totals", zap.String("cart_id", cartID), zap.Error(err))
			continue
		}
		s.notifier.Publish(cartID, totals)
	}
}

func (s *CampaignService) ListCampaignItems(ctx context.Context) ([]CampaignItem, error) {
	overrides, err := s.store.Campaigns.GetAll(ctx)
	if err != nil {
		return nil, upstream("failed to load campaigns", err)
	}

	items := make([]CampaignItem, 0, len(overrides))
	for _, o := range overrides {
		if o.Product == nil {
			continue
		}
		price, err := ResolvePrice(*o.Product)
		if err != nil {
			s.log.Warn("skipping unpriceable campaign product", zap.Uint("product_id", o.ProductID), zap.Error(err))
			continue
		}
		items = append(items, CampaignItem{
			Product:         *o.Product,
			OriginalPrice:   o.Product.BasePrice,
			CampaignPrice:   price,
			DiscountPercent: calc.CalculateDiscountPercent(o.Product.BasePrice, price),
			StartedAt:       o.CreatedAt,
		})
	}
	return items, nil
}

// loadTotals computes a cart's totals from its stored lines.
func loadTotals(ctx context.Context, store *repositories.Store, cartID string) (calc.OrderTotals, error) {
	lines, err := store.CartItems.GetByCartID(ctx, cartID)
	if err != nil {
		return calc.OrderTotals{}, upstream("failed to load cart lines", err)
	}
	products, err := productsFor(ctx, store, lines)
	if err != nil {
		return calc.OrderTotals{}, err
	}
	return calc.ComputeOrderTotals(lines, products), nil
}

func productsFor(ctx context.Context, store *repositories.Store, lines []models.CartItem) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, upstream("failed to load cart products", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
