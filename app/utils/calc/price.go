package calc

import (
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("product base price must be positive")

// ResolvePrice returns the unit price a product is charged at. It is the only
// place the campaign-vs-base decision is made.
func ResolvePrice(p models.Product) (decimal.Decimal, error) {
	if !p.BasePrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("product %d: %w", p.ID, ErrInvalidProduct)
	}
	if p.IsCampaign && p.CampaignPrice.Valid {
		return p.CampaignPrice.Decimal, nil
	}
	return p.BasePrice, nil
}

func LineTotal(p models.Product, qty int) (decimal.Decimal, error) {
	price, err := ResolvePrice(p)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Mul(decimal.NewFromInt(int64(qty))), nil
}
