// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserResponse struct {
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
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Pending  *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// RoleCounts feeds the admin dashboard.
type RoleCounts struct {
	Users          int `db:"users"           json:"users"`
	Dealers        int `db:"dealers"         json:"dealers"`
	PendingDealers int `db:"pending_dealers" json:"pendingDealers"`
	Admins         int `db:"admins"          json:"admins"`
}

func ToUserResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsPending:  u.IsPending,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLoginAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}

	if u.IsDealer() {
		rate := u.BulkDiscountRate
		resp.BulkDiscountRate = &rate
		if u.CompanyName != nil {
			resp.CompanyName = *u.CompanyName
		}
	}

	return resp
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
