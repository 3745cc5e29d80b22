// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lamjungdrops/storefront/internal/auth"
	"github.com/lamjungdrops/storefront/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	nu auth.NewUser,
) (*auth.UserInfo, error) {
	user := &User{
		ID:               uuid.New().String(),
		Email:            strings.ToLower(nu.Email),
		PasswordHash:     nu.PasswordHash,
		Name:             nu.Name,
		Role:             nu.Role,
		BulkDiscountRate: decimal.Zero,
		IsPending:        nu.IsPending,
	}

	if nu.CompanyName != "" {
		company := nu.CompanyName
		user.CompanyName = &company
	}

	if nu.VerificationTokenHash != "" {
		hash := nu.VerificationTokenHash
		expires := nu.VerificationExpiresAt
		user.VerificationTokenHash = &hash
		user.VerificationExpiresAt = &expires
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) RecordLogin(
	ctx context.Context,
	userID string,
	at time.Time,
) error {
	return s.repo.UpdateLastLogin(ctx, userID, at)
}

func (s *Service) GetByVerificationToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByVerificationHash(ctx, tokenHash, now)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) MarkVerified(ctx context.Context, userID string) error {
	return s.repo.MarkVerified(ctx, userID)
}

func (s *Service) SetResetToken(
	ctx context.Context,
	userID, tokenHash string,
	expiresAt time.Time,
) error {
	return s.repo.SetResetToken(ctx, userID, tokenHash, expiresAt)
}

func (s *Service) GetByResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByResetHash(ctx, tokenHash, now)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) ConsumeResetToken(
	ctx context.Context,
	userID, tokenHash, passwordHash string,
) error {
	return s.repo.ConsumeResetToken(ctx, userID, tokenHash, passwordHash)
}

func (s *Service) ListPendingDealers(ctx context.Context) ([]auth.UserInfo, error) {
	users, err := s.repo.ListPendingDealers(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]auth.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *toUserInfo(&users[i]))
	}
	return infos, nil
}

func (s *Service) ApproveDealer(
	ctx context.Context,
	userID string,
	bulkDiscountRate decimal.Decimal,
) error {
	return s.repo.ApproveDealer(ctx, userID, bulkDiscountRate)
}

func (s *Service) DeletePendingDealer(ctx context.Context, userID string) error {
	return s.repo.DeletePendingDealer(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" &&
		params.Role != RoleUser && params.Role != RoleDealer && params.Role != RoleAdmin {
		return nil, 0, fmt.Errorf(
			"list users: invalid role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) CountByRole(ctx context.Context) (RoleCounts, error) {
	return s.repo.CountByRole(ctx)
}

// EnsureAdmin creates the configured admin account on first start. An
// existing account with that email is left untouched.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	email, password, name string,
) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			slog.Warn("admin seed email belongs to a non-admin account",
				"email", email,
				"role", existing.Role,
			)
		}
		return nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &User{
		ID:               uuid.New().String(),
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             name,
		Role:             RoleAdmin,
		BulkDiscountRate: decimal.Zero,
		IsVerified:       true,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("admin account created", "email", email)
	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	info := &auth.UserInfo{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		PasswordHash:     u.PasswordHash,
		Role:             u.Role,
		BulkDiscountRate: u.BulkDiscountRate,
		IsPending:        u.IsPending,
		IsVerified:       u.IsVerified,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
	}

	if u.CompanyName != nil {
		info.CompanyName = *u.CompanyName
	}

	return info
}

var _ auth.UserProvider = (*Service)(nil)
