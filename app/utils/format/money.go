package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var money = accounting.Accounting{Symbol: "$", Precision: 2, Thousand: ",", Decimal: "."}

// Money renders an amount the way the storefront displays prices, e.g. $1,800.00.
func Money(amount decimal.Decimal) string {
	return money.FormatMoneyDecimal(amount)
}
