// Package browse implements client-side product browsing: search, category
// and price filtering, and sorting over a catalog slice that has already been
// fetched in full. Nothing here re-fetches; the functions are pure.
package browse

import (
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ajju853/sparkle-storefront/internal/catalog"
)

// Sort enumerates the supported product orderings.
type Sort string

const (
	// SortDefault keeps the catalog's own order.
	SortDefault Sort = "default"
	// SortPriceAsc orders by price, cheapest first.
	SortPriceAsc Sort = "price-asc"
	// SortPriceDesc orders by price, most expensive first.
	SortPriceDesc Sort = "price-desc"
	// SortRating orders by average rating, best first.
	SortRating Sort = "rating"
	// SortTitleAsc orders alphabetically by title.
	SortTitleAsc Sort = "title-asc"
)

// ParseSort validates a sort name from user input. An empty name is
// SortDefault.
func ParseSort(name string) (Sort, error) {
	switch s := Sort(name); s {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc, SortPriceDesc, SortRating, SortTitleAsc:
		return s, nil
	default:
		return SortDefault, errors.Errorf("unknown sort %q", name)
	}
}

// Filter narrows a product slice. Zero values leave the corresponding
// dimension unconstrained; MaxPrice of zero means unbounded.
type Filter struct {
	// Query matches case-insensitively against title and description.
	Query      string
	Categories []string
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
}

func (f Filter) matches(p catalog.Product) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if p.Price.LessThan(f.MinPrice) {
		return false
	}
	if !f.MaxPrice.IsZero() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	return true
}

// Apply filters and sorts products, returning a new slice. The input is never
// modified.
func Apply(products []catalog.Product, f Filter, s Sort) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}

	switch s {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			switch {
			case a.Rating.Rate > b.Rating.Rate:
				return -1
			case a.Rating.Rate < b.Rating.Rate:
				return 1
			default:
				return 0
			}
		})
	case SortTitleAsc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return strings.Compare(a.Title, b.Title)
		})
	}
	return out
}

// PriceBounds returns the floor of the cheapest and the ceiling of the most
// expensive product price, the range the storefront seeds its price slider
// with. Both are zero for an empty catalog.
func PriceBounds(products []catalog.Product) (min, max decimal.Decimal) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero
	}
	min, max = products[0].Price, products[0].Price
	for _, p := range products[1:] {
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return min.Floor(), max.Ceil()
}

// Featured returns the first n products, optionally restricted to one
// category. The storefront shows eight on its landing page.
func Featured(products []catalog.Product, category string, n int) []catalog.Product {
	out := make([]catalog.Product, 0, n)
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out
}
