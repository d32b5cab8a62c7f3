// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation thread. Messages are ordered by
// creation time and are never mutated once persisted.
type Chat struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages"`
}
