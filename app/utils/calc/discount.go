package calc

import "github.com/shopspring/decimal"

// CalculateDiscountPercent reports how much cheaper campaignPrice is than
// basePrice, in percent rounded to one decimal place.
func CalculateDiscountPercent(basePrice, campaignPrice decimal.Decimal) decimal.Decimal {
	if !basePrice.IsPositive() || campaignPrice.GreaterThanOrEqual(basePrice) {
		return decimal.Zero
	}
	return basePrice.Sub(campaignPrice).Mul(decimal.NewFromInt(100)).Div(basePrice).Round(1)
}
