// Package catalog provides read-only access to the external product catalog.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is one item of the external catalog. The storefront never mutates
// products; it only renders the last fetched snapshot. The JSON tags match
// the catalog service's wire shape so snapshots and persisted cart items stay
// readable across runs.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the catalog's aggregate review score for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Source defines read operations over the product catalog. Implementations
// return explicit errors rather than collapsing failures into empty results;
// the presentation layer decides how to degrade.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int64) (*Product, error)
	Categories(ctx context.Context) ([]string, error)
}
