// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lamjungdrops/storefront/internal/core"
)

type CreateProductRequest struct {
	Name               string          `json:"name"               validate:"required,max=255"`
	Description        string          `json:"description"        validate:"max=5000"`
	Price              decimal.Decimal `json:"price"`
	Stock              int             `json:"stock"              validate:"gte=0"`
	ImageURL           string          `json:"imageUrl"           validate:"omitempty,max=2048"`
	DealerDiscountRate decimal.Decimal `json:"dealerDiscountRate"`
	IsCarton           bool            `json:"isCarton"`
}

// UpdateProductRequest carries only the fields the caller sent. stock: 0
// is an update, an omitted stock is not.
type UpdateProductRequest struct {
	Name               core.Optional[string]          `json:"name"`
	Description        core.Optional[string]          `json:"description"`
	Price              core.Optional[decimal.Decimal] `json:"price"`
	Stock              core.Optional[int]             `json:"stock"`
	ImageURL           core.Optional[string]          `json:"imageUrl"`
	DealerDiscountRate core.Optional[decimal.Decimal] `json:"dealerDiscountRate"`
	IsCarton           core.Optional[bool]            `json:"isCarton"`
}

type ProductResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	Stock              int              `json:"stock"`
	ImageURL           string           `json:"imageUrl"`
	DealerDiscountRate decimal.Decimal  `json:"dealerDiscountRate"`
	DealerPrice        *decimal.Decimal `json:"dealerPrice,omitempty"`
	IsCarton           bool             `json:"isCarton"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// ToProductResponse shows the dealer price only to dealers and admins.
func ToProductResponse(p *Product, viewerRole string) ProductResponse {
	resp := ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Stock:              p.Stock,
		ImageURL:           p.ImageURL,
		DealerDiscountRate: p.DealerDiscountRate,
		IsCarton:           p.IsCarton,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	if viewerRole == "dealer" || viewerRole == "admin" {
		dp := p.DealerPrice()
		resp.DealerPrice = &dp
	}

	return resp
}

func ToProductResponseList(products []Product, viewerRole string) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i], viewerRole))
	}
	return out
}
