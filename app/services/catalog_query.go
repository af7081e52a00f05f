package services

import (
	"sort"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
)

const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortRatingAsc  = "rating-asc"
	SortRatingDesc = "rating-desc"

	CategoryAll = "all"
)

type CatalogFilter struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Sort     string `json:"sort" validate:"omitempty,oneof=price-asc price-desc rating-asc rating-desc"`
}

// AverageRating is the mean star count, 0 for a product without reviews.
func AverageRating(p models.Product) float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range p.Reviews {
		total += r.Stars
	}
	return float64(total) / float64(len(p.Reviews))
}

// QueryCatalog filters and sorts a catalog snapshot. The input slice is not
// modified. Unknown sort values keep catalog order.
func QueryCatalog(products []models.Product, f CatalogFilter) []models.Product {
	category := strings.TrimSpace(f.Category)
	term := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		result = append(result, p)
	}

	switch f.Sort {
	case SortPriceAsc, SortPriceDesc:
		prices := make(map[uint]decimal.Decimal, len(result))
		for _, p := range result {
			prices[p.ID] = sortPrice(p)
		}
		desc := f.Sort == SortPriceDesc
		sort.SliceStable(result, func(i, j int) bool {
			a, b := prices[result[i].ID], prices[result[j].ID]
			if desc {
				return a.GreaterThan(b)
			}
			return a.LessThan(b)
		})
	case SortRatingAsc, SortRatingDesc:
		ratings := make(map[uint]float64, len(result))
		for _, p := range result {
			ratings[p.ID] = AverageRating(p)
		}
		desc := f.Sort == SortRatingDesc
		sort.SliceStable(result, func(i, j int) bool {
			a, b := ratings[result[i].ID], ratings[result[j].ID]
			if desc {
				return a > b
			}
			return a < b
		})
	}

	return result
}

func matchesSearch(p models.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// sortPrice falls back to the raw base price for products that cannot be
// priced so they still sort deterministically.
func sortPrice(p models.Product) decimal.Decimal {
	price, err := calc.ResolvePrice(p)
	if err != nil {
		return p.BasePrice
	}
	return price
}
