// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/shopspring/decimal"
)

type SignupRequest struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	Password    string `json:"password"    validate:"required,min=6,max=128"`
	Name        string `json:"name"        validate:"omitempty,max=100"`
	Role        string `json:"role"        validate:"omitempty,oneof=user dealer"`
	CompanyName string `json:"companyName" validate:"required_if=Role dealer,omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type ApproveDealerRequest struct {
	UserID           string          `json:"userId"           validate:"required,uuid"`
	BulkDiscountRate decimal.Decimal `json:"bulkDiscountRate"`
}

type RejectDealerRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// UserResponse is the public projection of an account. It never carries the
// password hash or any single-use token.
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
}

const (
	StatusAuthenticated   = "authenticated"
	StatusUnauthenticated = "unauthenticated"
	StatusPending         = "pending"
)

// AuthResult is what signup and login hand back to the transport layer.
// Token is nil when no credential was issued.
type AuthResult struct {
	User   UserResponse
	Status string
	Token  *IssuedToken
}

type CheckAuthResponse struct {
	Authenticated bool          `json:"authenticated"`
	Status        string        `json:"status"`
	User          *UserResponse `json:"user,omitempty"`
}

type AuthResponse struct {
	Status string       `json:"status"`
	User   UserResponse `json:"user"`
}

type PendingDealersResponse struct {
	PendingDealers []UserResponse `json:"pendingDealers"`
}

func toUserResponse(u *UserInfo) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsPending:  u.IsPending,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLoginAt,
		CreatedAt:  u.CreatedAt,
	}

	if u.Role == RoleDealer {
		rate := u.BulkDiscountRate
		resp.CompanyName = u.CompanyName
		resp.BulkDiscountRate = &rate
	}

	return resp
}
