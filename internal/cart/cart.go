// Package cart maintains the shopper's cart for the current session and
// mirrors it to persisted storage on every change.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/catalog"
	"github.com/ajju853/sparkle-storefront/internal/notify"
	"github.com/ajju853/sparkle-storefront/internal/storage/kv"
)

// StorageKey is the persisted-storage key holding the serialized cart.
const StorageKey = "cart"

// Item pairs a product snapshot with a quantity. The cart holds at most one
// Item per product ID.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is the item's price times its quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store is the authoritative in-memory cart, rehydrated once at construction
// and written back whole on every mutation. A failed write is logged and the
// store keeps serving from memory; the state then lives only as long as the
// process.
type Store struct {
	mu    sync.Mutex
	items []Item

	kv     kv.Store
	lg     *zap.Logger
	notify notify.Notifier
}

// NewStore loads the persisted cart and returns the store. A blob that fails
// to parse is discarded whole: the store starts empty rather than attempting
// partial recovery.
func NewStore(store kv.Store, lg *zap.Logger, n notify.Notifier) *Store {
	s := &Store{kv: store, lg: lg, notify: n}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.lg.Warn("failed to read persisted cart, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.lg.Warn("discarding unreadable cart state", zap.Error(err))
		return
	}
	s.items = items
}

// persist writes the full collection. Callers hold s.mu.
func (s *Store) persist() {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.lg.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.kv.Set(StorageKey, raw); err != nil {
		s.lg.Warn("cart not persisted, continuing in memory", zap.Error(err))
	}
}

// Add puts qty units of product into the cart. If the product is already
// present the quantities are summed; there is no upper bound, and a negative
// qty reduces the stored quantity without triggering removal.
func (s *Store) Add(ctx context.Context, product catalog.Product, qty int) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += qty
			s.persist()
			s.mu.Unlock()
			s.notify.Notify(ctx, "Added to cart", fmt.Sprintf("%s has been added to your cart.", product.Title))
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: qty})
	s.persist()
	s.mu.Unlock()
	s.notify.Notify(ctx, "Added to cart", fmt.Sprintf("%s has been added to your cart.", product.Title))
}

// Remove drops the item with the given product ID, if present.
func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist()
	s.mu.Unlock()
	s.notify.Notify(ctx, "Removed from cart", "Item has been removed from your cart.")
}

// UpdateQuantity replaces the quantity of the item with the given product ID.
// A quantity of zero or below removes the item instead.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, qty int) {
	if qty <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = qty
			s.persist()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.persist()
	s.mu.Unlock()
	s.notify.Notify(ctx, "Cart cleared", "All items have been removed from your cart.")
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of quantities across all items, recomputed on demand.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity across all items.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}
