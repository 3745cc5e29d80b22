// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lamjungdrops/storefront/internal/config"
	"github.com/lamjungdrops/storefront/internal/core"
)

var (
	ErrPendingApproval  = errors.New("dealer account pending approval")
	ErrNotPendingDealer = errors.New("user is not a pending dealer")
)

const (
	RoleUser   = "user"
	RoleDealer = "dealer"
	RoleAdmin  = "admin"

	verificationCodeDigits = 6
	maxCodeAttempts        = 5
)

type UserInfo struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	Role             string
	CompanyName      string
	BulkDiscountRate decimal.Decimal
	IsPending        bool
	IsVerified       bool
	LastLoginAt      *time.Time
	CreatedAt        time.Time
}

func (u *UserInfo) IsPendingDealer() bool {
	return u.Role == RoleDealer && u.IsPending
}

type NewUser struct {
	Email                 string
	PasswordHash          string
	Name                  string
	Role                  string
	CompanyName           string
	IsPending             bool
	VerificationTokenHash string
	VerificationExpiresAt time.Time
}

// UserProvider is the credential store as seen by the auth flow. Lookups by
// token hash only match tokens that have not expired at the given time.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	GetByVerificationToken(
		ctx context.Context,
		tokenHash string,
		now time.Time,
	) (*UserInfo, error)
	MarkVerified(ctx context.Context, userID string) error
	SetResetToken(
		ctx context.Context,
		userID, tokenHash string,
		expiresAt time.Time,
	) error
	GetByResetToken(
		ctx context.Context,
		tokenHash string,
		now time.Time,
	) (*UserInfo, error)
	ConsumeResetToken(
		ctx context.Context,
		userID, tokenHash, passwordHash string,
	) error
	ListPendingDealers(ctx context.Context) ([]UserInfo, error)
	ApproveDealer(
		ctx context.Context,
		userID string,
		bulkDiscountRate decimal.Decimal,
	) error
	DeletePendingDealer(ctx context.Context, userID string) error
}

// Mailer delivers the account lifecycle emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, code string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
	SendResetSuccessEmail(ctx context.Context, to string) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	mailer       Mailer
	authConfig   config.AuthConfig
	clientURL    string
	now          func() time.Time
	newCode      func() (string, error)
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	mailer Mailer,
	authConfig config.AuthConfig,
	clientURL string,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		mailer:       mailer,
		authConfig:   authConfig,
		clientURL:    strings.TrimRight(clientURL, "/"),
		now:          time.Now,
		newCode: func() (string, error) {
			return core.GenerateNumericCode(verificationCodeDigits)
		},
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, core.ValidationError("email and password are required")
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if role != RoleUser && role != RoleDealer {
		return nil, core.ValidationError("role must be user or dealer")
	}

	companyName := strings.TrimSpace(req.CompanyName)
	if role == RoleDealer && companyName == "" {
		return nil, core.ValidationError("company name is required for dealers")
	}
	if role != RoleDealer {
		companyName = ""
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, code, err := s.createWithCode(ctx, NewUser{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		CompanyName:  companyName,
		IsPending:    role == RoleDealer,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	core.AddSpanEvent(ctx, "auth.signup", attribute.String("role", role))

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, code); err != nil {
		return nil, fmt.Errorf("send verification email: %w", err)
	}

	if user.IsPendingDealer() {
		return &AuthResult{
			User:   toUserResponse(user),
			Status: StatusPending,
		}, nil
	}

	token, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{
		User:   toUserResponse(user),
		Status: StatusAuthenticated,
		Token:  token,
	}, nil
}

// createWithCode stores nu with a fresh verification code. Outstanding codes
// are unique across accounts, so a code already held by another pending
// verification is replaced and the insert retried.
func (s *Service) createWithCode(
	ctx context.Context,
	nu NewUser,
) (*UserInfo, string, error) {
	for range maxCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return nil, "", fmt.Errorf("generate verification code: %w", err)
		}

		nu.VerificationTokenHash = core.HashToken(code)
		nu.VerificationExpiresAt = s.now().Add(s.authConfig.VerificationTTL)

		user, err := s.userProvider.Create(ctx, nu)
		if errors.Is(err, core.ErrTokenCollision) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return user, code, nil
	}

	return nil, "", fmt.Errorf("verification code: %w", core.ErrTokenCollision)
}

// Login answers unknown emails and wrong passwords identically. A pending
// dealer with correct credentials gets ErrPendingApproval and no token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.userProvider.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.AuthError("")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, core.AuthError("")
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	if user.IsPendingDealer() {
		return &AuthResult{
			User:   toUserResponse(user),
			Status: StatusPending,
		}, ErrPendingApproval
	}

	now := s.now()
	if err := s.userProvider.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	core.AddSpanEvent(ctx, "auth.login", attribute.String("role", user.Role))

	return &AuthResult{
		User:   toUserResponse(user),
		Status: StatusAuthenticated,
		Token:  token,
	}, nil
}

// CheckAuth resolves the identity attached by the optional authenticator.
// An empty userID means no valid credential was presented.
func (s *Service) CheckAuth(
	ctx context.Context,
	userID string,
) (*CheckAuthResponse, error) {
	if userID == "" {
		return &CheckAuthResponse{Status: StatusUnauthenticated}, nil
	}

	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	resp := toUserResponse(user)
	if user.IsPendingDealer() {
		return &CheckAuthResponse{Status: StatusPending, User: &resp}, nil
	}

	return &CheckAuthResponse{
		Authenticated: true,
		Status:        StatusAuthenticated,
		User:          &resp,
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, code string) (*UserResponse, error) {
	user, err := s.userProvider.GetByVerificationToken(
		ctx,
		core.HashToken(strings.TrimSpace(code)),
		s.now(),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ValidationError("invalid or expired verification code")
		}
		return nil, fmt.Errorf("find verification token: %w", err)
	}

	if err := s.userProvider.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	user.IsVerified = true

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		return nil, fmt.Errorf("send welcome email: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ForgotPassword succeeds silently for unknown emails.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userProvider.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := core.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(s.authConfig.ResetTTL)
	if err := s.userProvider.SetResetToken(
		ctx,
		user.ID,
		core.HashToken(token),
		expiresAt,
	); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.clientURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, resetURL); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	core.AddSpanEvent(ctx, "auth.reset_requested")
	return nil
}

// ResetPassword consumes the reset token. A token that was already used, or
// raced with another reset, is rejected like an expired one.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	tokenHash := core.HashToken(token)

	user, err := s.userProvider.GetByResetToken(ctx, tokenHash, s.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ValidationError("invalid or expired reset token")
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	passwordHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.ConsumeResetToken(
		ctx,
		user.ID,
		tokenHash,
		passwordHash,
	); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ValidationError("invalid or expired reset token")
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	if err := s.mailer.SendResetSuccessEmail(ctx, user.Email); err != nil {
		return fmt.Errorf("send reset success email: %w", err)
	}

	return nil
}

func (s *Service) PendingDealers(ctx context.Context) ([]UserResponse, error) {
	dealers, err := s.userProvider.ListPendingDealers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending dealers: %w", err)
	}

	resp := make([]UserResponse, 0, len(dealers))
	for i := range dealers {
		resp = append(resp, toUserResponse(&dealers[i]))
	}
	return resp, nil
}

func (s *Service) ApproveDealer(
	ctx context.Context,
	userID string,
	bulkDiscountRate decimal.Decimal,
) (*UserResponse, error) {
	if bulkDiscountRate.IsNegative() || bulkDiscountRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, core.ValidationError("bulk discount rate must be between 0 and 100")
	}

	user, err := s.pendingDealer(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userProvider.ApproveDealer(ctx, user.ID, bulkDiscountRate); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ValidationError(ErrNotPendingDealer.Error())
		}
		return nil, fmt.Errorf("approve dealer: %w", err)
	}

	user.IsPending = false
	user.BulkDiscountRate = bulkDiscountRate

	core.AddSpanEvent(ctx, "auth.dealer_approved", attribute.String("user_id", user.ID))

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) RejectDealer(ctx context.Context, userID string) error {
	user, err := s.pendingDealer(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userProvider.DeletePendingDealer(ctx, user.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ValidationError(ErrNotPendingDealer.Error())
		}
		return fmt.Errorf("reject dealer: %w", err)
	}

	core.AddSpanEvent(ctx, "auth.dealer_rejected", attribute.String("user_id", user.ID))
	return nil
}

func (s *Service) pendingDealer(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsPendingDealer() {
		return nil, core.ValidationError(ErrNotPendingDealer.Error())
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
