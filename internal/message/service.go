// AngelaMos | 2026
// service.go

package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lamjungdrops/storefront/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Send stores a contact message. userID is attached when the sender was
// signed in and may be empty.
func (s *Service) Send(
	ctx context.Context,
	userID string,
	req SendMessageRequest,
) (*Message, error) {
	email := strings.TrimSpace(req.Email)
	body := strings.TrimSpace(req.Message)
	if email == "" || body == "" {
		return nil, core.ValidationError("email and message content are required")
	}

	m := &Message{
		ID:      uuid.New().String(),
		Email:   email,
		Message: body,
	}
	if userID != "" {
		m.UserID = &userID
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Message, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Message, error) {
	if userID == "" {
		return nil, fmt.Errorf("list own messages: %w", core.ErrUnauthorized)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("delete message: %w", core.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
