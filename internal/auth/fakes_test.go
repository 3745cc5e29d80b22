// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lamjungdrops/storefront/internal/config"
	"github.com/lamjungdrops/storefront/internal/core"
)

type userRecord struct {
	info            UserInfo
	verifyHash      string
	verifyExpiresAt time.Time
	resetHash       string
	resetExpiresAt  time.Time
}

type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]*userRecord
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*userRecord{}}
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *memoryUsers) record(id string) *userRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.info.Email == email {
			info := r.info
			return &info, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user by id: %w", core.ErrNotFound)
	}
	info := r.info
	return &info, nil
}

func (m *memoryUsers) Create(_ context.Context, u NewUser) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.info.Email == u.Email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		if u.VerificationTokenHash != "" && r.verifyHash == u.VerificationTokenHash {
			return nil, fmt.Errorf("create user: %w", core.ErrTokenCollision)
		}
	}

	rec := &userRecord{
		info: UserInfo{
			ID:           uuid.NewString(),
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			CompanyName:  u.CompanyName,
			IsPending:    u.IsPending,
			CreatedAt:    time.Now(),
		},
		verifyHash:      u.VerificationTokenHash,
		verifyExpiresAt: u.VerificationExpiresAt,
	}
	m.byID[rec.info.ID] = rec

	info := rec.info
	return &info, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	r.info.PasswordHash = hash
	return nil
}

func (m *memoryUsers) RecordLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	r.info.LastLoginAt = &at
	return nil
}

func (m *memoryUsers) GetByVerificationToken(
	_ context.Context,
	hash string,
	now time.Time,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.verifyHash != "" && r.verifyHash == hash && now.Before(r.verifyExpiresAt) {
			info := r.info
			return &info, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) MarkVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	r.info.IsVerified = true
	r.verifyHash = ""
	return nil
}

func (m *memoryUsers) SetResetToken(
	_ context.Context,
	id, hash string,
	expiresAt time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	r.resetHash = hash
	r.resetExpiresAt = expiresAt
	return nil
}

func (m *memoryUsers) GetByResetToken(
	_ context.Context,
	hash string,
	now time.Time,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.resetHash != "" && r.resetHash == hash && now.Before(r.resetExpiresAt) {
			info := r.info
			return &info, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) ConsumeResetToken(
	_ context.Context,
	id, hash, passwordHash string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || r.resetHash != hash {
		return core.ErrNotFound
	}
	r.info.PasswordHash = passwordHash
	r.resetHash = ""
	return nil
}

func (m *memoryUsers) ListPendingDealers(_ context.Context) ([]UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []UserInfo
	for _, r := range m.byID {
		if r.info.IsPendingDealer() {
			out = append(out, r.info)
		}
	}
	return out, nil
}

func (m *memoryUsers) ApproveDealer(
	_ context.Context,
	id string,
	rate decimal.Decimal,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || !r.info.IsPendingDealer() {
		return core.ErrNotFound
	}
	r.info.IsPending = false
	r.info.BulkDiscountRate = rate
	return nil
}

func (m *memoryUsers) DeletePendingDealer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || !r.info.IsPendingDealer() {
		return core.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// seedAdmin inserts an admin directly, the way the configured seed does.
func (m *memoryUsers) seedAdmin(t *testing.T, email, password string) *UserInfo {
	t.Helper()
	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	info, err := m.Create(context.Background(), NewUser{
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	})
	require.NoError(t, err)
	return info
}

type sentMail struct {
	kind string
	to   string
	arg  string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (r *recordingMailer) add(kind, to, arg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, sentMail{kind: kind, to: to, arg: arg})
	return nil
}

func (r *recordingMailer) last(kind string) (sentMail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].kind == kind {
			return r.sent[i], true
		}
	}
	return sentMail{}, false
}

func (r *recordingMailer) SendVerificationEmail(_ context.Context, to, code string) error {
	return r.add("verify", to, code)
}

func (r *recordingMailer) SendWelcomeEmail(_ context.Context, to, name string) error {
	return r.add("welcome", to, name)
}

func (r *recordingMailer) SendPasswordResetEmail(_ context.Context, to, url string) error {
	return r.add("reset", to, url)
}

func (r *recordingMailer) SendResetSuccessEmail(_ context.Context, to string) error {
	return r.add("reset_success", to, "")
}

var errMailDown = errors.New("mail api unavailable")

var testJWTConfig = config.JWTConfig{
	TokenExpire: 7 * 24 * time.Hour,
	Issuer:      "lamjung-drops",
	Audience:    "lamjung-drops-api",
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManagerFromKey(mustKey(t), testJWTConfig)
	require.NoError(t, err)
	return m
}

type fixture struct {
	svc    *Service
	jwt    *JWTManager
	users  *memoryUsers
	mailer *recordingMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemoryUsers()
	mailer := &recordingMailer{}
	jwt := newTestJWT(t)

	svc := NewService(jwt, users, mailer, config.AuthConfig{
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
	}, "http://localhost:5173/")

	return &fixture{svc: svc, jwt: jwt, users: users, mailer: mailer}
}
