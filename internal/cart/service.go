// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lamjungdrops/storefront/internal/core"
	"github.com/lamjungdrops/storefront/internal/product"
)

// Shopper is the identity taken from the validated token.
type Shopper struct {
	UserID string
	Role   string
}

type ProductProvider interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

type Service struct {
	repo     Repository
	products ProductProvider
}

func NewService(repo Repository, products ProductProvider) *Service {
	return &Service{repo: repo, products: products}
}

// AddToCart checks the requested quantity against current stock only. It
// does not account for what is already in the cart, so repeated adds can
// exceed stock.
func (s *Service) AddToCart(
	ctx context.Context,
	shopper Shopper,
	productID string,
	quantity int,
) (*View, error) {
	if productID == "" || quantity < 1 {
		return nil, core.ValidationError("product id and quantity are required")
	}

	p, err := s.products.GetByID(ctx, canonicalID(productID))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("product")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if p.Stock < quantity {
		return nil, core.ValidationError("Insufficient stock")
	}

	c, err := s.load(ctx, shopper.UserID)
	if err != nil {
		return nil, err
	}

	c.Add(p.ID, quantity)

	view, _, err := s.resolve(ctx, c, shopper.Role)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	stamp(view, c)

	core.AddSpanEvent(ctx, "cart.item_added",
		attribute.String("product_id", p.ID),
		attribute.Int("quantity", quantity),
	)

	return view, nil
}

// GetCart returns an empty cart when none exists. Lines whose product has
// been deleted are dropped and the pruned cart is written back.
func (s *Service) GetCart(ctx context.Context, shopper Shopper) (*View, error) {
	c, err := s.repo.GetByUserID(ctx, shopper.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return emptyView(), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	view, pruned, err := s.resolve(ctx, c, shopper.Role)
	if err != nil {
		return nil, err
	}

	if pruned {
		if err := s.repo.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("save pruned cart: %w", err)
		}
		core.AddSpanEvent(ctx, "cart.pruned")
	}
	stamp(view, c)

	return view, nil
}

// RemoveFromCart fails only when the shopper has no cart at all. Removing
// a product that is not in the cart is a no-op.
func (s *Service) RemoveFromCart(
	ctx context.Context,
	shopper Shopper,
	productID string,
) (*View, error) {
	c, err := s.repo.GetByUserID(ctx, shopper.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("cart")
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	removed := c.Remove(canonicalID(productID))

	view, pruned, err := s.resolve(ctx, c, shopper.Role)
	if err != nil {
		return nil, err
	}

	if removed || pruned {
		if err := s.repo.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
	}
	stamp(view, c)

	return view, nil
}

// canonicalID lower-cases a UUID the way it is stored. Anything that does
// not parse is returned unchanged and will simply match nothing.
func canonicalID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

func (s *Service) load(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return &Cart{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  Items{},
	}, nil
}

// resolve prices every line for role and drops lines whose product no
// longer exists from c.
func (s *Service) resolve(
	ctx context.Context,
	c *Cart,
	role string,
) (*View, bool, error) {
	products, err := s.products.GetByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, false, fmt.Errorf("resolve cart products: %w", err)
	}

	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	pruned := c.Retain(func(id string) bool {
		_, ok := byID[id]
		return ok
	})

	view := emptyView()
	view.ID = c.ID
	for _, item := range c.Items {
		p := byID[item.ProductID]
		unit := p.PriceFor(role)
		subtotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pieces := p.Pieces(item.Quantity)

		view.Items = append(view.Items, LineView{
			Product:   product.ToProductResponse(p, role),
			Quantity:  item.Quantity,
			Pieces:    pieces,
			UnitPrice: unit,
			Subtotal:  subtotal,
		})
		view.TotalQuantity += item.Quantity
		view.TotalPieces += pieces
		view.Total = view.Total.Add(subtotal)
	}

	return view, pruned, nil
}

func emptyView() *View {
	return &View{Items: []LineView{}, Total: decimal.Zero}
}

func stamp(v *View, c *Cart) {
	v.ID = c.ID
	if !c.UpdatedAt.IsZero() {
		updated := c.UpdatedAt
		v.UpdatedAt = &updated
	}
}
