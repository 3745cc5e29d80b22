// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                    string          `db:"id"`
	Email                 string          `db:"email"`
	PasswordHash          string          `db:"password_hash"`
	Name                  string          `db:"name"`
	Role                  string          `db:"role"`
	CompanyName           *string         `db:"company_name"`
	BulkDiscountRate      decimal.Decimal `db:"bulk_discount_rate"`
	IsPending             bool            `db:"is_pending"`
	IsVerified            bool            `db:"is_verified"`
	VerificationTokenHash *string         `db:"verification_token_hash"`
	VerificationExpiresAt *time.Time      `db:"verification_expires_at"`
	ResetTokenHash        *string         `db:"reset_token_hash"`
	ResetExpiresAt        *time.Time      `db:"reset_expires_at"`
	LastLoginAt           *time.Time      `db:"last_login_at"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDealer() bool {
	return u.Role == RoleDealer
}

// IsPendingDealer reports whether the account is awaiting admin approval.
func (u *User) IsPendingDealer() bool {
	return u.IsDealer() && u.IsPending
}

const (
	RoleUser   = "user"
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)
