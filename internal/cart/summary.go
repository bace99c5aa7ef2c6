package cart

import "github.com/shopspring/decimal"

// taxRate is the storefront's flat 10% checkout tax.
var taxRate = decimal.RequireFromString("0.1")

// Summary is the order-summary box of the cart page: subtotal, free shipping,
// flat tax, and the grand total, all rounded to cents.
type Summary struct {
	Items    int
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summary computes the current order summary. Shipping is always free.
func (s *Store) Summary() Summary {
	subtotal := s.TotalPrice()
	tax := subtotal.Mul(taxRate).Round(2)
	return Summary{
		Items:    s.TotalItems(),
		Subtotal: subtotal.Round(2),
		Shipping: decimal.Zero,
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}
}
