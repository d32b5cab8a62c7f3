// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/relaydev/chatstream/internal/domain"
)

// MessageRepository persists individual messages. A single Create is one
// atomic write.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
}
