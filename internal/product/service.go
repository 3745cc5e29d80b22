// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lamjungdrops/storefront/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	p := &Product{
		ID:                 uuid.New().String(),
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		Price:              req.Price,
		Stock:              req.Stock,
		ImageURL:           req.ImageURL,
		DealerDiscountRate: req.DealerDiscountRate,
		IsCarton:           req.IsCarton,
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "product.created", attribute.String("product_id", p.ID))
	return p, nil
}

// GetByID treats malformed ids as missing products.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			valid = append(valid, id)
		}
	}
	return s.repo.GetByIDs(ctx, valid)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Update applies only the fields present in req.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
) (*Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Name.Apply(&p.Name)
	req.Description.Apply(&p.Description)
	req.Price.Apply(&p.Price)
	req.Stock.Apply(&p.Stock)
	req.ImageURL.Apply(&p.ImageURL)
	req.DealerDiscountRate.Apply(&p.DealerDiscountRate)
	req.IsCarton.Apply(&p.IsCarton)
	p.Name = strings.TrimSpace(p.Name)

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	core.AddSpanEvent(ctx, "product.deleted", attribute.String("product_id", id))
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func validateProduct(p *Product) error {
	switch {
	case p.Name == "":
		return core.ValidationError("name is required")
	case p.Price.IsNegative():
		return core.ValidationError("price must be greater than or equal to 0")
	case p.Stock < 0:
		return core.ValidationError("stock must be greater than or equal to 0")
	case p.DealerDiscountRate.IsNegative() || p.DealerDiscountRate.GreaterThan(hundred):
		return core.ValidationError("dealer discount rate must be between 0 and 100")
	}
	return nil
}
