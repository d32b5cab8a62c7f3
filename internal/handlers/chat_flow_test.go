// File: internal/handlers/chat_flow_test.go
package handlers_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/relaydev/chatstream/internal/client"
	"github.com/relaydev/chatstream/internal/domain"
	"github.com/relaydev/chatstream/internal/handlers"
	chatrepo "github.com/relaydev/chatstream/internal/repository/chat"
	"github.com/relaydev/chatstream/internal/services"
	chatservice "github.com/relaydev/chatstream/internal/services/chat"
)

// memStore backs the full server stack with an in-memory chat store for the
// end-to-end flow below.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	chats  map[uint]*domain.Chat
}

func newMemStore() *memStore { return &memStore{chats: map[uint]*domain.Chat{}} }

func (s *memStore) CreateWithMessages(_ context.Context, title string, messages []domain.Message) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	chat := &domain.Chat{ID: s.nextID, Title: title}
	for _, m := range messages {
		m.ChatID = chat.ID
		chat.Messages = append(chat.Messages, m)
	}
	s.chats[chat.ID] = chat
	return chat, nil
}

func (s *memStore) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[msg.ChatID]
	if !ok {
		return nil, errors.New("no such chat")
	}
	chat.Messages = append(chat.Messages, *msg)
	return msg, nil
}

func (s *memStore) FindByIDWithMessages(_ context.Context, chatID uint) (*domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, chatrepo.ErrChatNotFound
	}
	copied := *chat
	return &copied, nil
}

func (s *memStore) FindAllWithMessages(context.Context) ([]domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var chats []domain.Chat
	for _, c := range s.chats {
		chats = append(chats, *c)
	}
	slices.SortFunc(chats, func(a, b domain.Chat) int { return int(b.ID) - int(a.ID) })
	return chats, nil
}

func (s *memStore) Exists(_ context.Context, chatID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.chats[chatID]
	return ok, nil
}

func (s *memStore) TouchUpdatedAt(_ context.Context, chatID uint) error { return nil }

func (s *memStore) Delete(_ context.Context, chatID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[chatID]; !ok {
		return chatrepo.ErrChatNotFound
	}
	delete(s.chats, chatID)
	return nil
}

// echoProvider streams a fixed delta script per call.
type echoProvider struct {
	scripts [][]string
	call    int
}

func (p *echoProvider) StreamCompletion(_ context.Context, _ []domain.Message, onDelta func(string) error) error {
	script := p.scripts[p.call%len(p.scripts)]
	p.call++
	for _, d := range script {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

func newTestServer(t *testing.T, provider *echoProvider) *httptest.Server {
	t.Helper()
	store := newMemStore()
	relay, err := chatservice.NewStreamingService(
		chatservice.DefaultConfig(), store, store, provider, services.NoOpLogger{})
	if err != nil {
		t.Fatal(err)
	}

	r := mux.NewRouter()
	handlers.NewChatHandler(relay, services.NoOpLogger{}).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// TestChatFlow drives a whole conversation through the real stack: start a
// chat over HTTP, watch the framed stream, continue it, read it back, list
// and delete it.
func TestChatFlow(t *testing.T) {
	provider := &echoProvider{scripts: [][]string{
		{"Hi", " there"},
		{"Of course."},
	}}
	srv := newTestServer(t, provider)
	c := client.New(srv.URL)
	ctx := context.Background()

	// Turn one: new conversation.
	var deltas []string
	result, err := c.Send(ctx, "", []client.ChatMessage{{Role: "user", Content: "Hi"}},
		func(d string) { deltas = append(deltas, d) })
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !slices.Equal(deltas, []string{"Hi", " there"}) {
		t.Errorf("deltas = %#v", deltas)
	}
	if result.ChatID != "1" || result.Content != "Hi there" {
		t.Errorf("result = %+v, want chat 1 with content %q", result, "Hi there")
	}

	// The persisted chat holds the user turn plus the assembled reply.
	chat, err := c.GetChat(ctx, result.ChatID)
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if chat.Title != "Hi" {
		t.Errorf("title = %q, want %q", chat.Title, "Hi")
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(chat.Messages))
	}
	if chat.Messages[0].Role != "user" || chat.Messages[1].Content != "Hi there" {
		t.Errorf("messages = %+v", chat.Messages)
	}

	// Turn two: continuation on the adopted id.
	history := []client.ChatMessage{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hi there"},
		{Role: "user", Content: "Tell me more"},
	}
	result, err = c.Send(ctx, "1", history, nil)
	if err != nil {
		t.Fatalf("Send(continue) error = %v", err)
	}
	if result.ChatID != "1" || result.Content != "Of course." {
		t.Errorf("continuation result = %+v", result)
	}

	chat, err = c.GetChat(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(chat.Messages) != 4 {
		t.Errorf("messages = %d, want 4 after two turns", len(chat.Messages))
	}

	// Continuing a missing conversation is not-found, not a stream.
	if _, err := c.Send(ctx, "99", history, nil); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Send(missing chat) error = %v, want ErrNotFound", err)
	}

	chats, err := c.ListChats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 1 || chats[0].ID != 1 {
		t.Errorf("chats = %+v, want the single conversation", chats)
	}

	if err := c.DeleteChat(ctx, "1"); err != nil {
		t.Fatalf("DeleteChat() error = %v", err)
	}
	if _, err := c.GetChat(ctx, "1"); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("GetChat(deleted) error = %v, want ErrNotFound", err)
	}
}
