// AngelaMos | 2026
// service_test.go

package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamjungdrops/storefront/internal/core"
	"github.com/lamjungdrops/storefront/internal/product"
)

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]Cart
	saves int
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: map[string]Cart{}}
}

func (m *memoryCarts) GetByUserID(_ context.Context, userID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, fmt.Errorf("get cart: %w", core.ErrNotFound)
	}
	c.Items = append(Items{}, c.Items...)
	return &c, nil
}

func (m *memoryCarts) Save(_ context.Context, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.carts[c.UserID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()

	stored := *c
	stored.Items = append(Items{}, c.Items...)
	m.carts[c.UserID] = stored
	m.saves++
	return nil
}

func (m *memoryCarts) stored(userID string) (Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	return c, ok
}

type stubProducts struct {
	mu       sync.Mutex
	products map[string]product.Product
}

func (s *stubProducts) put(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *stubProducts) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (s *stubProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []product.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

const (
	jarID       = "11111111-1111-1111-1111-111111111111"
	bottleID    = "22222222-2222-2222-2222-222222222222"
	dispenserID = "a3c1e2f4-5b6d-4e7f-8a9b-0c1d2e3f4a5b"
)

type cartFixture struct {
	svc      *Service
	carts    *memoryCarts
	products *stubProducts
}

func newCartFixture() *cartFixture {
	products := &stubProducts{products: map[string]product.Product{}}
	products.put(product.Product{
		ID:                 jarID,
		Name:               "Jar 20L",
		Price:              decimal.NewFromInt(150),
		Stock:              5,
		DealerDiscountRate: decimal.NewFromInt(10),
	})
	products.put(product.Product{
		ID:       bottleID,
		Name:     "Bottle 500ml carton",
		Price:    decimal.RequireFromString("240"),
		Stock:    100,
		IsCarton: true,
	})

	products.put(product.Product{
		ID:    dispenserID,
		Name:  "Hot and cold dispenser",
		Price: decimal.NewFromInt(8500),
		Stock: 3,
	})

	carts := newMemoryCarts()
	return &cartFixture{
		svc:      NewService(carts, products),
		carts:    carts,
		products: products,
	}
}

var alice = Shopper{UserID: "user-a", Role: "user"}

func TestAddMergesQuantities(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, jarID, 2)
	require.NoError(t, err)

	view, err := f.svc.AddToCart(ctx, alice, jarID, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, jarID, view.Items[0].Product.ID)

	stored, ok := f.carts.stored(alice.UserID)
	require.True(t, ok)
	assert.Equal(t, Items{{ProductID: jarID, Quantity: 5}}, stored.Items)
}

func TestAddGetRemoveRoundTrip(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, jarID, 1)
	require.NoError(t, err)

	view, err := f.svc.GetCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	_, err = f.svc.RemoveFromCart(ctx, alice, jarID)
	require.NoError(t, err)

	view, err = f.svc.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestGetCartWithoutCart(t *testing.T) {
	f := newCartFixture()

	view, err := f.svc.GetCart(context.Background(), alice)

	require.NoError(t, err)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, f.carts.saves)
}

func TestDeletedProductIsPrunedAndPersisted(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, jarID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, alice, bottleID, 2)
	require.NoError(t, err)

	f.products.remove(jarID)

	view, err := f.svc.GetCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, bottleID, view.Items[0].Product.ID)

	stored, _ := f.carts.stored(alice.UserID)
	assert.Equal(t, Items{{ProductID: bottleID, Quantity: 2}}, stored.Items)

	saves := f.carts.saves
	_, err = f.svc.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, saves, f.carts.saves)
}

func TestInsufficientStockLeavesCartUnchanged(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, bottleID, 1)
	require.NoError(t, err)
	before, _ := f.carts.stored(alice.UserID)

	_, err = f.svc.AddToCart(ctx, alice, jarID, 6)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Insufficient stock", appErr.Message)
	assert.Equal(t, core.CodeValidation, appErr.Code)

	after, _ := f.carts.stored(alice.UserID)
	assert.Equal(t, before.Items, after.Items)
}

func TestRepeatedAddsCanExceedStock(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, jarID, 4)
	require.NoError(t, err)

	view, err := f.svc.AddToCart(ctx, alice, jarID, 4)
	require.NoError(t, err)

	assert.Equal(t, 8, view.Items[0].Quantity)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddToCart(context.Background(), alice, "33333333-3333-3333-3333-333333333333", 1)

	assert.ErrorIs(t, err, core.ErrNotFound)
	_, exists := f.carts.stored(alice.UserID)
	assert.False(t, exists)
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddToCart(context.Background(), alice, jarID, 0)

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRemoveWithoutCart(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.RemoveFromCart(context.Background(), alice, jarID)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "cart not found", appErr.Message)
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, alice, jarID, 1)
	require.NoError(t, err)
	saves := f.carts.saves

	view, err := f.svc.RemoveFromCart(ctx, alice, bottleID)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, saves, f.carts.saves)
}

func TestProductIDCaseIsIgnored(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	upper := strings.ToUpper(dispenserID)

	view, err := f.svc.AddToCart(ctx, alice, upper, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	_, err = f.svc.AddToCart(ctx, alice, dispenserID, 1)
	require.NoError(t, err)
	stored, ok := f.carts.stored(alice.UserID)
	require.True(t, ok)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, dispenserID, stored.Items[0].ProductID)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	view, err = f.svc.RemoveFromCart(ctx, alice, upper)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	stored, _ = f.carts.stored(alice.UserID)
	assert.Empty(t, stored.Items)
}

func TestViewPricesForRole(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	dealer := Shopper{UserID: "dealer-d", Role: "dealer"}

	_, err := f.svc.AddToCart(ctx, dealer, jarID, 2)
	require.NoError(t, err)
	view, err := f.svc.AddToCart(ctx, dealer, bottleID, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "135", view.Items[0].UnitPrice.String())
	assert.Equal(t, "270", view.Items[0].Subtotal.String())
	assert.Equal(t, 36, view.Items[1].Pieces)
	assert.Equal(t, 5, view.TotalQuantity)
	assert.Equal(t, 38, view.TotalPieces)
	assert.Equal(t, "990", view.Total.String())

	userView, err := f.svc.AddToCart(ctx, alice, jarID, 2)
	require.NoError(t, err)
	assert.Equal(t, "300", userView.Total.String())
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	bob := Shopper{UserID: "user-b", Role: "user"}

	_, err := f.svc.AddToCart(ctx, alice, jarID, 1)
	require.NoError(t, err)

	view, err := f.svc.GetCart(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
