// AngelaMos | 2026
// types.go

package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Role             string           `json:"role"`
	CompanyName      string           `json:"companyName,omitempty"`
	BulkDiscountRate *decimal.Decimal `json:"bulkDiscountRate,omitempty"`
	IsPending        bool             `json:"isPending"`
	IsVerified       bool             `json:"isVerified"`
	LastLogin        *time.Time       `json:"lastLogin,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Session is the client's view of who it is logged in as.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Status        string `json:"status"`
	User          *User  `json:"user,omitempty"`
}

type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type AuthResult struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

type Product struct {
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

type CartLine struct {
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	Pieces    int             `json:"pieces"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	ID            string          `json:"id,omitempty"`
	Items         []CartLine      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPieces   int             `json:"totalPieces"`
	Total         decimal.Decimal `json:"total"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

type Message struct {
	ID      string    `json:"id"`
	UserID  *string   `json:"userId,omitempty"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Status  string `json:"status"`
}
