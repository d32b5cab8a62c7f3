// File: internal/domain/message.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Message represents a single message within a chat.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chatId" gorm:"index;not null"`
	Role      string    `json:"role" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyHistory = errors.New("message history is empty")

// ValidateHistory checks that a message batch is usable as prompt context:
// non-empty, with a known role on every message.
func ValidateHistory(messages []Message) error {
	if len(messages) == 0 {
		return ErrEmptyHistory
	}
	for i, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	return nil
}
