package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/catalog"
	"github.com/ajju853/sparkle-storefront/internal/notify"
)

// --- Mock implementations ---

type memKV struct {
	data   map[string][]byte
	setErr error
	sets   int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type recorder struct {
	titles []string
}

func (r *recorder) Notify(_ context.Context, title, _ string) {
	r.titles = append(r.titles, title)
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestProduct(id int64, title string, price decimal.Decimal) catalog.Product {
	return catalog.Product{
		ID:       id,
		Title:    title,
		Price:    price,
		Category: "test",
		Image:    "https://example.com/p.jpg",
		Rating:   catalog.Rating{Rate: 4.0, Count: 10},
	}
}

func newTestStore(t *testing.T, kv *memKV) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewStore(kv, zap.NewNop(), rec), rec
}

// --- Tests ---

func TestAddMergesSameProduct(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()
	p := newTestProduct(1, "Backpack", d("10"))

	s.Add(ctx, p, 2)
	s.Add(ctx, p, 1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "30", s.TotalPrice().String())
}

func TestAddDistinctProductsKeepOrder(t *testing.T) {
	s, rec := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 2)
	s.Add(ctx, newTestProduct(2, "Ring", d("20")), 1)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, int64(2), items[1].Product.ID)
	assert.Equal(t, []string{"Added to cart", "Added to cart"}, rec.titles)
}

func TestAddNegativeQuantityReducesWithoutRemoval(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()
	p := newTestProduct(1, "Backpack", d("10"))

	s.Add(ctx, p, 3)
	s.Add(ctx, p, -5)

	// No removal logic runs on Add: the item stays, quantity below zero.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, -2, items[0].Quantity)
}

func TestRemove(t *testing.T) {
	s, rec := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 1)
	s.Add(ctx, newTestProduct(2, "Ring", d("20")), 1)
	s.Remove(ctx, 1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Product.ID)
	assert.Contains(t, rec.titles, "Removed from cart")
}

func TestRemoveMissingProductIsNoop(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 1)
	s.Remove(ctx, 99)

	assert.Len(t, s.Items(), 1)
}

func TestUpdateQuantityReplaces(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("10")), 2)
	s.UpdateQuantity(ctx, 1, 5)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantityZeroOrBelowRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		s, _ := newTestStore(t, newMemKV())
		ctx := context.Background()

		s.Add(ctx, newTestProduct(1, "Backpack", d("10")), 2)
		s.UpdateQuantity(ctx, 1, qty)

		assert.Empty(t, s.Items(), "qty=%d should remove the item", qty)
	}
}

func TestClear(t *testing.T) {
	kv := newMemKV()
	s, rec := newTestStore(t, kv)
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 2)
	s.Clear(ctx)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
	assert.JSONEq(t, "null", string(kv.data[StorageKey]))
	assert.Contains(t, rec.titles, "Cart cleared")
}

func TestTotals(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 2)
	s.Add(ctx, newTestProduct(2, "Ring", d("20")), 1)

	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, "30", s.TotalPrice().String())
}

func TestSummary(t *testing.T) {
	s, _ := newTestStore(t, newMemKV())
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 2)
	s.Add(ctx, newTestProduct(2, "Ring", d("20")), 1)

	sum := s.Summary()
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, "30.00", sum.Subtotal.StringFixed(2))
	assert.True(t, sum.Shipping.IsZero())
	assert.Equal(t, "3.00", sum.Tax.StringFixed(2))
	assert.Equal(t, "33.00", sum.Total.StringFixed(2))
}

func TestRehydrateAcrossRestart(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	s1, _ := newTestStore(t, kv)
	s1.Add(ctx, newTestProduct(1, "Backpack", d("109.95")), 2)

	s2, _ := newTestStore(t, kv)
	items := s2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Backpack", items[0].Product.Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "219.9", s2.TotalPrice().String())
}

func TestCorruptBlobYieldsEmptyCart(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = []byte(`[{"product": {"id": 1}, "quantity":`)

	s, _ := newTestStore(t, kv)
	assert.Empty(t, s.Items())

	// The corrupt blob is replaced wholesale on the next mutation.
	s.Add(context.Background(), newTestProduct(1, "Backpack", d("5")), 1)
	s2, _ := newTestStore(t, kv)
	assert.Len(t, s2.Items(), 1)
}

func TestWriteFailureKeepsServingFromMemory(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("disk full")

	s, _ := newTestStore(t, kv)
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 2)

	assert.Equal(t, 2, s.TotalItems())
	assert.Empty(t, kv.data)
}

func TestEveryMutationPersists(t *testing.T) {
	kv := newMemKV()
	s, _ := newTestStore(t, kv)
	ctx := context.Background()

	s.Add(ctx, newTestProduct(1, "Backpack", d("5")), 1)
	s.UpdateQuantity(ctx, 1, 3)
	s.Remove(ctx, 1)
	s.Clear(ctx)

	assert.Equal(t, 4, kv.sets)
}

var _ notify.Notifier = (*recorder)(nil)
