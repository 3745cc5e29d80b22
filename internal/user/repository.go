// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/lamjungdrops/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	GetByVerificationHash(
		ctx context.Context,
		hash string,
		now time.Time,
	) (*User, error)
	MarkVerified(ctx context.Context, id string) error
	SetResetToken(
		ctx context.Context,
		id, hash string,
		expiresAt time.Time,
	) error
	GetByResetHash(ctx context.Context, hash string, now time.Time) (*User, error)
	ConsumeResetToken(ctx context.Context, id, hash, passwordHash string) error
	ListPendingDealers(ctx context.Context) ([]User, error)
	ApproveDealer(ctx context.Context, id string, rate decimal.Decimal) error
	DeletePendingDealer(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	CountByRole(ctx context.Context) (RoleCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, email, password_hash, name, role, company_name, bulk_discount_rate,
	is_pending, is_verified, verification_token_hash, verification_expires_at,
	reset_token_hash, reset_expires_at, last_login_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, name, role, company_name,
			bulk_discount_rate, is_pending, verification_token_hash,
			verification_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.CompanyName,
		user.BulkDiscountRate,
		user.IsPending,
		user.VerificationTokenHash,
		user.VerificationExpiresAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == verificationCodeConstraint {
				return fmt.Errorf("create user: %w", core.ErrTokenCollision)
			}
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateLastLogin(
	ctx context.Context,
	id string,
	at time.Time,
) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	return r.execOne(ctx, "update last login", query, id, at)
}

func (r *repository) GetByVerificationHash(
	ctx context.Context,
	hash string,
	now time.Time,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE verification_token_hash = $1 AND verification_expires_at > $2`

	var user User
	err := r.db.GetContext(ctx, &user, query, hash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by verification token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by verification token: %w", err)
	}

	return &user, nil
}

func (r *repository) MarkVerified(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET is_verified = TRUE,
		    verification_token_hash = NULL,
		    verification_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "mark verified", query, id)
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, hash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, reset_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set reset token", query, id, hash, expiresAt)
}

func (r *repository) GetByResetHash(
	ctx context.Context,
	hash string,
	now time.Time,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_expires_at > $2`

	var user User
	err := r.db.GetContext(ctx, &user, query, hash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by reset token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}

	return &user, nil
}

// ConsumeResetToken replaces the password only while the token is still
// attached to the row, so two concurrent resets cannot both succeed.
func (r *repository) ConsumeResetToken(
	ctx context.Context,
	id, hash, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $3,
		    reset_token_hash = NULL,
		    reset_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND reset_token_hash = $2`

	return r.execOne(ctx, "consume reset token", query, id, hash, passwordHash)
}

func (r *repository) ListPendingDealers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = 'dealer' AND is_pending
		ORDER BY created_at`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list pending dealers: %w", err)
	}

	return users, nil
}

func (r *repository) ApproveDealer(
	ctx context.Context,
	id string,
	rate decimal.Decimal,
) error {
	query := `
		UPDATE users
		SET is_pending = FALSE, bulk_discount_rate = $2, updated_at = NOW()
		WHERE id = $1 AND role = 'dealer' AND is_pending`

	return r.execOne(ctx, "approve dealer", query, id, rate)
}

func (r *repository) DeletePendingDealer(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1 AND role = 'dealer' AND is_pending`

	return r.execOne(ctx, "delete pending dealer", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d OR company_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Pending != nil {
		conditions = append(conditions, fmt.Sprintf("is_pending = $%d", argIdx))
		args = append(args, *params.Pending)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) CountByRole(ctx context.Context) (RoleCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE role = 'user')                 AS users,
			COUNT(*) FILTER (WHERE role = 'dealer' AND NOT is_pending) AS dealers,
			COUNT(*) FILTER (WHERE role = 'dealer' AND is_pending)     AS pending_dealers,
			COUNT(*) FILTER (WHERE role = 'admin')                AS admins
		FROM users`

	var counts RoleCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return RoleCounts{}, fmt.Errorf("count users by role: %w", err)
	}

	return counts, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

const verificationCodeConstraint = "users_verification_token_key"

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
