// File: internal/domain/title_test.go
package domain

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("abcdefghi ", 9) // 90 characters

	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{
			name:     "first user message becomes title",
			messages: []Message{{Role: RoleUser, Content: "Hello, this is a test"}},
			want:     "Hello, this is a test",
		},
		{
			name:     "long message truncated to 50 characters",
			messages: []Message{{Role: RoleUser, Content: long}},
			want:     long[:50],
		},
		{
			name:     "assistant-only batch falls back",
			messages: []Message{{Role: RoleAssistant, Content: "Welcome!"}},
			want:     DefaultChatTitle,
		},
		{
			name: "assistant greeting before user message",
			messages: []Message{
				{Role: RoleAssistant, Content: "Welcome!"},
				{Role: RoleUser, Content: "What is Go?"},
			},
			want: "What is Go?",
		},
		{
			name:     "empty batch falls back",
			messages: nil,
			want:     DefaultChatTitle,
		},
		{
			name:     "empty user content falls back",
			messages: []Message{{Role: RoleUser, Content: ""}},
			want:     DefaultChatTitle,
		},
		{
			name:     "multibyte content truncated on rune boundary",
			messages: []Message{{Role: RoleUser, Content: strings.Repeat("é", 60)}},
			want:     strings.Repeat("é", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.messages); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateHistory(t *testing.T) {
	if err := ValidateHistory(nil); err != ErrEmptyHistory {
		t.Errorf("ValidateHistory(nil) = %v, want ErrEmptyHistory", err)
	}
	if err := ValidateHistory([]Message{{Role: "system", Content: "x"}}); err == nil {
		t.Error("ValidateHistory() accepted unknown role")
	}
	if err := ValidateHistory([]Message{{Role: RoleUser, Content: "hi"}}); err != nil {
		t.Errorf("ValidateHistory() = %v, want nil", err)
	}
}
