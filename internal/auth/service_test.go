// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamjungdrops/storefront/internal/core"
)

func requireAppError(t *testing.T, err error, status int, code string) *core.AppError {
	t.Helper()
	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestSignupUserLogsIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "A@x.io",
		Password: "secret1",
		Name:     "Asha",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusAuthenticated, result.Status)
	require.NotNil(t, result.Token)
	assert.Equal(t, "a@x.io", result.User.Email)
	assert.Equal(t, RoleUser, result.User.Role)
	assert.Nil(t, result.User.BulkDiscountRate)

	stored := f.users.record(result.User.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.info.PasswordHash)

	claims, err := f.jwt.VerifyAccessToken(ctx, result.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)

	mail, ok := f.mailer.last("verify")
	require.True(t, ok)
	assert.Equal(t, "a@x.io", mail.to)
	assert.Len(t, mail.arg, 6)
	assert.Equal(t, core.HashToken(mail.arg), stored.verifyHash)

	check, err := f.svc.CheckAuth(ctx, claims.UserID)
	require.NoError(t, err)
	assert.True(t, check.Authenticated)
	assert.Equal(t, StatusAuthenticated, check.Status)
	assert.Equal(t, "a@x.io", check.User.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, SignupRequest{Email: " A@X.io ", Password: "other99"})
	requireAppError(t, err, http.StatusBadRequest, core.CodeConflict)
	assert.Equal(t, 1, f.users.count())
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"missing email", SignupRequest{Password: "secret1"}},
		{"missing password", SignupRequest{Email: "a@x.io"}},
		{"dealer without company", SignupRequest{Email: "d@x.io", Password: "secret1", Role: RoleDealer}},
		{"admin self signup", SignupRequest{Email: "r@x.io", Password: "secret1", Role: RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Signup(context.Background(), tt.req)
			requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
			assert.Zero(t, f.users.count())
		})
	}
}

func TestSignupMailFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = errMailDown

	_, err := f.svc.Signup(context.Background(), SignupRequest{Email: "a@x.io", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errMailDown)
	assert.Equal(t, http.StatusInternalServerError, core.ToAppError(err).StatusCode)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, unknownErr := f.svc.Login(ctx, LoginRequest{Email: "nobody@x.io", Password: "secret1"})
	_, wrongErr := f.svc.Login(ctx, LoginRequest{Email: "a@x.io", Password: "wrong-pw"})

	unknown := requireAppError(t, unknownErr, http.StatusBadRequest, core.CodeInvalidCredentials)
	wrong := requireAppError(t, wrongErr, http.StatusBadRequest, core.CodeInvalidCredentials)
	assert.Equal(t, unknown.Message, wrong.Message)
}

func TestLoginRecordsLastLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	signup, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	result, err := f.svc.Login(ctx, LoginRequest{Email: "A@x.io", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, StatusAuthenticated, result.Status)
	require.NotNil(t, result.Token)
	require.NotNil(t, result.User.LastLogin)
	assert.True(t, fixed.Equal(*result.User.LastLogin))

	stored := f.users.record(signup.User.ID)
	require.NotNil(t, stored.info.LastLoginAt)
}

func TestDealerApprovalFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signup, err := f.svc.Signup(ctx, SignupRequest{
		Email:       "d@x.io",
		Password:    "secret1",
		Role:        RoleDealer,
		CompanyName: "Himal Traders",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, signup.Status)
	assert.Nil(t, signup.Token)
	assert.True(t, signup.User.IsPending)
	require.NotNil(t, signup.User.BulkDiscountRate)
	assert.True(t, signup.User.BulkDiscountRate.IsZero())

	result, err := f.svc.Login(ctx, LoginRequest{Email: "d@x.io", Password: "secret1"})
	require.ErrorIs(t, err, ErrPendingApproval)
	require.NotNil(t, result)
	assert.Equal(t, StatusPending, result.Status)
	assert.Nil(t, result.Token)

	check, err := f.svc.CheckAuth(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.False(t, check.Authenticated)
	assert.Equal(t, StatusPending, check.Status)

	pending, err := f.svc.PendingDealers(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Himal Traders", pending[0].CompanyName)

	approved, err := f.svc.ApproveDealer(ctx, signup.User.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.False(t, approved.IsPending)
	assert.True(t, approved.BulkDiscountRate.Equal(decimal.NewFromInt(10)))

	result, err = f.svc.Login(ctx, LoginRequest{Email: "d@x.io", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, result.Token)

	claims, err := f.jwt.VerifyAccessToken(ctx, result.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, RoleDealer, claims.Role)

	check, err = f.svc.CheckAuth(ctx, claims.UserID)
	require.NoError(t, err)
	assert.True(t, check.Authenticated)
	assert.Equal(t, StatusAuthenticated, check.Status)

	pending, err = f.svc.PendingDealers(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveDealerRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Signup(ctx, SignupRequest{Email: "u@x.io", Password: "secret1"})
	require.NoError(t, err)

	dealer, err := f.svc.Signup(ctx, SignupRequest{
		Email: "d@x.io", Password: "secret1", Role: RoleDealer, CompanyName: "Co",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveDealer(ctx, user.User.ID, decimal.Zero)
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)

	_, err = f.svc.ApproveDealer(ctx, dealer.User.ID, decimal.NewFromInt(101))
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)

	_, err = f.svc.ApproveDealer(ctx, dealer.User.ID, decimal.NewFromInt(-1))
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)

	_, err = f.svc.ApproveDealer(ctx, "00000000-0000-0000-0000-000000000000", decimal.Zero)
	requireAppError(t, err, http.StatusNotFound, core.CodeNotFound)

	_, err = f.svc.ApproveDealer(ctx, dealer.User.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = f.svc.ApproveDealer(ctx, dealer.User.ID, decimal.NewFromInt(5))
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
}

func TestRejectDealerDeletesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dealer, err := f.svc.Signup(ctx, SignupRequest{
		Email: "d@x.io", Password: "secret1", Role: RoleDealer, CompanyName: "Co",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RejectDealer(ctx, dealer.User.ID))
	assert.Zero(t, f.users.count())

	err = f.svc.RejectDealer(ctx, dealer.User.ID)
	requireAppError(t, err, http.StatusNotFound, core.CodeNotFound)

	_, err = f.svc.CheckAuth(ctx, dealer.User.ID)
	requireAppError(t, err, http.StatusNotFound, core.CodeNotFound)
}

func TestRejectDealerRefusesNonDealer(t *testing.T) {
	f := newFixture(t)
	admin := f.users.seedAdmin(t, "root@x.io", "rootpass")

	err := f.svc.RejectDealer(context.Background(), admin.ID)

	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
	assert.Equal(t, 1, f.users.count())
}

func TestCheckAuthWithoutIdentity(t *testing.T) {
	f := newFixture(t)

	check, err := f.svc.CheckAuth(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, check.Authenticated)
	assert.Equal(t, StatusUnauthenticated, check.Status)
	assert.Nil(t, check.User)
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signup, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1", Name: "Asha"})
	require.NoError(t, err)
	mail, _ := f.mailer.last("verify")

	_, err = f.svc.VerifyEmail(ctx, "abcdef")
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)

	user, err := f.svc.VerifyEmail(ctx, mail.arg)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	welcome, ok := f.mailer.last("welcome")
	require.True(t, ok)
	assert.Equal(t, "Asha", welcome.arg)

	assert.Empty(t, f.users.record(signup.User.ID).verifyHash)

	_, err = f.svc.VerifyEmail(ctx, mail.arg)
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
}

// fixedCodes hands out the given codes in order.
func fixedCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestVerificationCodesAreUniquePerAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.newCode = fixedCodes("111111")
	first, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	f.svc.newCode = fixedCodes("111111", "222222")
	second, err := f.svc.Signup(ctx, SignupRequest{Email: "b@x.io", Password: "secret1"})
	require.NoError(t, err)

	mail, ok := f.mailer.last("verify")
	require.True(t, ok)
	assert.Equal(t, "222222", mail.arg)

	verified, err := f.svc.VerifyEmail(ctx, "222222")
	require.NoError(t, err)
	assert.Equal(t, second.User.ID, verified.ID)
	assert.False(t, f.users.record(first.User.ID).info.IsVerified)

	verified, err = f.svc.VerifyEmail(ctx, "111111")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, verified.ID)
}

func TestSignupGivesUpOnPersistentCodeCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.newCode = fixedCodes("111111")
	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, SignupRequest{Email: "b@x.io", Password: "secret1"})

	assert.ErrorIs(t, err, core.ErrTokenCollision)
	assert.Equal(t, 1, f.users.count())
}

func TestVerifyEmailExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)
	mail, _ := f.mailer.last("verify")

	f.svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = f.svc.VerifyEmail(ctx, mail.arg)
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "A@x.io"))

	mail, ok := f.mailer.last("reset")
	require.True(t, ok)
	prefix := "http://localhost:5173/reset-password/"
	require.True(t, strings.HasPrefix(mail.arg, prefix), mail.arg)
	token := strings.TrimPrefix(mail.arg, prefix)

	require.NoError(t, f.svc.ResetPassword(ctx, token, "newpass1"))

	_, ok = f.mailer.last("reset_success")
	assert.True(t, ok)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "a@x.io", Password: "secret1"})
	requireAppError(t, err, http.StatusBadRequest, core.CodeInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "a@x.io", Password: "newpass1"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, token, "another1")
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
}

func TestPasswordResetTokenExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupRequest{Email: "a@x.io", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.io"))
	mail, _ := f.mailer.last("reset")
	token := mail.arg[strings.LastIndex(mail.arg, "/")+1:]

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err = f.svc.ResetPassword(ctx, token, "newpass1")
	requireAppError(t, err, http.StatusBadRequest, core.CodeValidation)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "ghost@x.io"))

	_, sent := f.mailer.last("reset")
	assert.False(t, sent)
}
