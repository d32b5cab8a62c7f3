// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/relaydev/chatstream/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) CreateWithMessages(ctx context.Context, title string, messages []domain.Message) (*domain.Chat, error) {
	chat := &domain.Chat{Title: title}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return fmt.Errorf("creating chat: %w", err)
		}
		for i := range messages {
			msg := domain.Message{
				ChatID:  chat.ID,
				Role:    messages[i].Role,
				Content: messages[i].Content,
			}
			if err := tx.Create(&msg).Error; err != nil {
				return fmt.Errorf("creating message %d: %w", i, err)
			}
			chat.Messages = append(chat.Messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *gormChatRepository) FindByIDWithMessages(ctx context.Context, chatID uint) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&chat, chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("finding chat %d: %w", chatID, err)
	}
	return &chat, nil
}

func (r *gormChatRepository) FindAllWithMessages(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) Exists(ctx context.Context, chatID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking chat %d: %w", chatID, err)
	}
	return count > 0, nil
}

func (r *gormChatRepository) TouchUpdatedAt(ctx context.Context, chatID uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return fmt.Errorf("touching chat %d: %w", chatID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) Delete(ctx context.Context, chatID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Messages first so a failure never leaves orphaned rows.
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("deleting messages of chat %d: %w", chatID, err)
		}
		result := tx.Delete(&domain.Chat{}, chatID)
		if result.Error != nil {
			return fmt.Errorf("deleting chat %d: %w", chatID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
}
