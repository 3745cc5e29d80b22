// AngelaMos | 2026
// dto.go

package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lamjungdrops/storefront/internal/product"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1"`
}

type LineView struct {
	Product   product.ProductResponse `json:"product"`
	Quantity  int                     `json:"quantity"`
	Pieces    int                     `json:"pieces"`
	UnitPrice decimal.Decimal         `json:"unitPrice"`
	Subtotal  decimal.Decimal         `json:"subtotal"`
}

// View is a cart with product references resolved and priced for the
// shopper's role.
type View struct {
	ID            string          `json:"id,omitempty"`
	Items         []LineView      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPieces   int             `json:"totalPieces"`
	Total         decimal.Decimal `json:"total"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

type CartResponse struct {
	Cart View `json:"cart"`
}
