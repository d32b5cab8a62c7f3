// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/relaydev/chatstream/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.ChatID == 0 {
		return nil, fmt.Errorf("message has no chat id")
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	return msg, nil
}
