// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"fmt"

	"github.com/lamjungdrops/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]Message, error)
	ListByUser(ctx context.Context, userID string) ([]Message, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, user_id, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING sent_at`

	if err := r.db.GetContext(ctx, &m.SentAt, query,
		m.ID, m.UserID, m.Email, m.Message,
	); err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Message, error) {
	query := `
		SELECT id, user_id, email, message, sent_at
		FROM messages
		ORDER BY sent_at DESC`

	messages := []Message{}
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Message, error) {
	query := `
		SELECT id, user_id, email, message, sent_at
		FROM messages
		WHERE user_id = $1
		ORDER BY sent_at DESC`

	messages := []Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list user messages: %w", err)
	}

	return messages, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete message: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM messages`); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
