package browse

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ajju853/sparkle-storefront/internal/catalog"
)

// Page is everything the products view needs: the full catalog, the category
// list, and the initial price range.
type Page struct {
	Products   []catalog.Product
	Categories []string
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
}

// LoadPage fetches products and categories concurrently from src. Either
// fetch failing fails the page as a whole.
func LoadPage(ctx context.Context, src catalog.Source) (*Page, error) {
	var page Page

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := src.Products(ctx)
		if err != nil {
			return errors.Wrap(err, "load products")
		}
		page.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := src.Categories(ctx)
		if err != nil {
			return errors.Wrap(err, "load categories")
		}
		page.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.MinPrice, page.MaxPrice = PriceBounds(page.Products)
	return &page, nil
}
