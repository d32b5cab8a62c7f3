// File: internal/repository/chat/interface.go
package chat

import (
	"context"

	"github.com/relaydev/chatstream/internal/domain"
)

// ChatRepository is the durable store for conversations. Implementations
// provide per-row atomicity; callers do not layer transactions across the
// persist-then-stream sequence.
type ChatRepository interface {
	// CreateWithMessages creates a chat and persists every message of the
	// creating batch, in order, in a single transaction.
	CreateWithMessages(ctx context.Context, title string, messages []domain.Message) (*domain.Chat, error)

	// FindByIDWithMessages returns the chat with its messages ordered oldest
	// first, or ErrChatNotFound.
	FindByIDWithMessages(ctx context.Context, chatID uint) (*domain.Chat, error)

	// FindAllWithMessages returns all chats newest created first, each with
	// its messages ordered oldest first.
	FindAllWithMessages(ctx context.Context) ([]domain.Chat, error)

	// Exists reports whether a chat with the given id is stored.
	Exists(ctx context.Context, chatID uint) (bool, error)

	// TouchUpdatedAt bumps the chat's updated_at timestamp.
	TouchUpdatedAt(ctx context.Context, chatID uint) error

	// Delete removes the chat and all of its messages in one transaction.
	// Returns ErrChatNotFound if no such chat is stored.
	Delete(ctx context.Context, chatID uint) error
}
