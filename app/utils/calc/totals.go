package calc

import (
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold is exclusive: an items total of exactly this amount ships free.
	FreeDeliveryThreshold = decimal.NewFromInt(1000)
	DeliveryFee           = decimal.NewFromInt(50)
)

type OrderTotals struct {
	ItemsTotal        decimal.Decimal `json:"items_total"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	MissingProductIDs []uint          `json:"missing_product_ids,omitempty"`
}

func CalculateDeliveryFee(itemsTotal decimal.Decimal) decimal.Decimal {
	if itemsTotal.IsPositive() && itemsTotal.LessThan(FreeDeliveryThreshold) {
		return DeliveryFee
	}
	return decimal.Zero
}

// ComputeOrderTotals sums cart lines at their effective prices. Lines whose
// product is missing or unpriceable contribute nothing and are reported in
// MissingProductIDs.
func ComputeOrderTotals(lines []models.CartItem, productsByID map[uint]models.Product) OrderTotals {
	itemsTotal := decimal.Zero
	var missing []uint

	for _, line := range lines {
		product, ok := productsByID[line.ProductID]
		if !ok {
			missing = append(missing, line.ProductID)
			continue
		}
		lineTotal, err := LineTotal(product, line.Quantity)
		if err != nil {
			missing = append(missing, line.ProductID)
			continue
		}
		itemsTotal = itemsTotal.Add(lineTotal)
	}

	fee := CalculateDeliveryFee(itemsTotal)
	return OrderTotals{
		ItemsTotal:        itemsTotal,
		DeliveryFee:       fee,
		GrandTotal:        itemsTotal.Add(fee),
		MissingProductIDs: missing,
	}
}
