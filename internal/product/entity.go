// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// PiecesPerCarton is the unit count of one carton.
const PiecesPerCarton = 12

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Description        string          `db:"description"`
	Price              decimal.Decimal `db:"price"`
	Stock              int             `db:"stock"`
	ImageURL           string          `db:"image_url"`
	DealerDiscountRate decimal.Decimal `db:"dealer_discount_rate"`
	IsCarton           bool            `db:"is_carton"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// DealerPrice is the unit price after the dealer discount, rounded to cents.
func (p *Product) DealerPrice() decimal.Decimal {
	factor := hundred.Sub(p.DealerDiscountRate).Div(hundred)
	return p.Price.Mul(factor).Round(2)
}

// PriceFor returns the unit price a buyer with the given role pays.
func (p *Product) PriceFor(role string) decimal.Decimal {
	if role == "dealer" {
		return p.DealerPrice()
	}
	return p.Price
}

// Pieces converts a cart quantity to individual bottles.
func (p *Product) Pieces(quantity int) int {
	if p.IsCarton {
		return quantity * PiecesPerCarton
	}
	return quantity
}
