// File: internal/domain/title.go
package domain

// DefaultChatTitle is used when a creating batch contains no user message.
const DefaultChatTitle = "New Chat"

const maxTitleLen = 50

// DeriveTitle derives a chat title from the first user message of the creating
// batch, truncated to 50 characters. The title is fixed at creation time and
// never recomputed.
func DeriveTitle(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		if m.Content == "" {
			break
		}
		runes := []rune(m.Content)
		if len(runes) > maxTitleLen {
			return string(runes[:maxTitleLen])
		}
		return m.Content
	}
	return DefaultChatTitle
}
