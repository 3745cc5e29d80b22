// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lamjungdrops/storefront/internal/core"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Cart, error) {
	query := `
		SELECT id, user_id, items, created_at, updated_at
		FROM carts
		WHERE user_id = $1`

	var c Cart
	err := r.db.GetContext(ctx, &c, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return &c, nil
}

// Save upserts the cart keyed by user. The item array is replaced wholesale
// so concurrent writers resolve last-write-wins.
func (r *repository) Save(ctx context.Context, c *Cart) error {
	query := `
		INSERT INTO carts (id, user_id, items)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, c.ID, c.UserID, c.Items)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	return nil
}
