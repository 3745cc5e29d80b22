// AngelaMos | 2026
// entity.go

package message

import (
	"time"
)

type Message struct {
	ID      string    `db:"id"      json:"id"`
	UserID  *string   `db:"user_id" json:"userId,omitempty"`
	Email   string    `db:"email"   json:"email"`
	Message string    `db:"message" json:"message"`
	SentAt  time.Time `db:"sent_at" json:"sentAt"`
}

type SendMessageRequest struct {
	Email   string `json:"email"   validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}
