package calc

import (
	"testing"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: got %s, want %s", msg, got, want)
}

func TestComputeOrderTotals_EmptyCart(t *testing.T) {
	totals := ComputeOrderTotals(nil, nil)

	assertDecimal(t, "0", totals.ItemsTotal, "items")
	assertDecimal(t, "0", totals.DeliveryFee, "fee")
	assertDecimal(t, "0", totals.GrandTotal, "grand")
	assert.Empty(t, totals.MissingProductIDs)
}

func TestComputeOrderTotals_DeliveryTiers(t *testing.T) {
	products := map[uint]models.Product{1: product(1, "900"), 2: product(2, "500")}

	tests := []struct {
		name  string
		lines []models.CartItem
		items string
		fee   string
		grand string
	}{
		{"under threshold pays fee", []models.CartItem{{ProductID: 1, Quantity: 1}}, "900", "50", "950"},
		{"over threshold ships free", []models.CartItem{{ProductID: 1, Quantity: 2}}, "1800", "0", "1800"},
		{"exactly threshold ships free", []models.CartItem{{ProductID: 2, Quantity: 2}}, "1000", "0", "1000"},
		{"mixed lines", []models.CartItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}, "1400", "0", "1400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeOrderTotals(tt.lines, products)
			assertDecimal(t, tt.items, totals.ItemsTotal, "items")
			assertDecimal(t, tt.fee, totals.DeliveryFee, "fee")
			assertDecimal(t, tt.grand, totals.GrandTotal, "grand")
		})
	}
}

func TestComputeOrderTotals_UsesCampaignPrice(t *testing.T) {
	products := map[uint]models.Product{1: inCampaign(product(1, "1200"), "950")}

	totals := ComputeOrderTotals([]models.CartItem{{ProductID: 1, Quantity: 1}}, products)

	assertDecimal(t, "950", totals.ItemsTotal, "items")
	assertDecimal(t, "50", totals.DeliveryFee, "fee")
	assertDecimal(t, "1000", totals.GrandTotal, "grand")
}

func TestComputeOrderTotals_SkipsMissingProducts(t *testing.T) {
	products := map[uint]models.Product{1: product(1, "10"), 3: product(3, "0")}
	lines := []models.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 5},
		{ProductID: 3, Quantity: 1},
	}

	totals := ComputeOrderTotals(lines, products)

	assertDecimal(t, "20", totals.ItemsTotal, "items")
	assertDecimal(t, "70", totals.GrandTotal, "grand")
	assert.Equal(t, []uint{2, 3}, totals.MissingProductIDs)
}

func TestCalculateDeliveryFee(t *testing.T) {
	assertDecimal(t, "0", CalculateDeliveryFee(decimal.Zero), "zero")
	assertDecimal(t, "50", CalculateDeliveryFee(decimal.RequireFromString("0.01")), "cent")
	assertDecimal(t, "50", CalculateDeliveryFee(decimal.RequireFromString("999.99")), "just under")
	assertDecimal(t, "0", CalculateDeliveryFee(decimal.NewFromInt(1000)), "threshold")
}
