// File: internal/services/chat/streaming.go

// Package chat implements the streaming relay: it bridges one upstream
// completion stream onto one downstream framed stream, with persistence side
// effects on either end of the turn.
package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/relaydev/chatstream/internal/domain"
	"github.com/relaydev/chatstream/internal/protocol"
	"github.com/relaydev/chatstream/internal/repository/chat"
	"github.com/relaydev/chatstream/internal/repository/message"
	"github.com/relaydev/chatstream/internal/services"
	"github.com/relaydev/chatstream/internal/services/ai"
)

// streamFailureMessage is the only error text that ever crosses the wire on a
// streaming path. The underlying cause is logged server-side.
const streamFailureMessage = "Failed to get chat completion"

// FrameEmitter delivers one frame downstream. An error means the downstream
// client is gone and the turn must be abandoned.
type FrameEmitter func(protocol.Frame) error

// StreamingService relays upstream completion deltas to a downstream frame
// stream for one conversation turn at a time. Turns share no mutable state,
// so concurrent turns need no coordination beyond the store's own atomicity.
type StreamingService struct {
	config      *Config
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	provider    ai.CompletionProvider
	logger      services.Logger
}

func NewStreamingService(
	config *Config,
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	provider ai.CompletionProvider,
	logger services.Logger,
) (*StreamingService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &StreamingService{
		config:      config,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		provider:    provider,
		logger:      logger,
	}, nil
}

// EnsureChat verifies that a chat exists before a continuation turn starts
// streaming. Continuing an unknown id is a not-found condition, never an
// implicit create.
func (s *StreamingService) EnsureChat(ctx context.Context, chatID uint) error {
	ok, err := s.chatRepo.Exists(ctx, chatID)
	if err != nil {
		return NewStoreError("exists", "failed to look up chat", err)
	}
	if !ok {
		return NewNotFoundError(chatID)
	}
	return nil
}

// StreamTurn runs one conversation turn: persist the user side, open the
// upstream completion, forward every delta as a frame, persist the assembled
// assistant message, then terminate the stream. A zero chatID starts a new
// conversation (the whole history is persisted and the terminal frame carries
// the new id); a non-zero chatID continues an existing one (only the last
// history element is persisted and the terminal frame carries no id).
//
// history must be non-empty; callers validate before any store or provider
// call. Every failure before the terminal frame is translated into a single
// well-formed error frame, so downstream parsers never see a raw transport
// error as the expected failure path.
func (s *StreamingService) StreamTurn(ctx context.Context, chatID uint, history []domain.Message, emit FrameEmitter) {
	err := s.streamTurn(ctx, chatID, history, emit)
	if err == nil {
		return
	}

	if ctx.Err() != nil {
		// Client disconnect. Nothing is listening, and partial assistant
		// content is deliberately not persisted: a half-written answer is
		// not an answer.
		s.logger.Warn("turn abandoned, client disconnected", "chat_id", chatID)
		return
	}

	s.logger.Error("turn failed", "chat_id", chatID, "error", err.Error())
	if emitErr := emit(protocol.ErrorFrame{Message: streamFailureMessage}); emitErr != nil {
		s.logger.Warn("failed to emit error frame", "chat_id", chatID, "error", emitErr.Error())
	}
}

func (s *StreamingService) streamTurn(ctx context.Context, chatID uint, history []domain.Message, emit FrameEmitter) error {
	isStart := chatID == 0

	if isStart {
		created, err := s.chatRepo.CreateWithMessages(ctx, domain.DeriveTitle(history), history)
		if err != nil {
			return NewStoreError("create", "failed to create chat", err)
		}
		chatID = created.ID
		s.logger.Info("chat created", "chat_id", chatID, "title", created.Title)
	} else {
		// The rest of history is already durable from prior turns; it only
		// serves as prompt context here.
		last := history[len(history)-1]
		if _, err := s.messageRepo.Create(ctx, &domain.Message{
			ChatID:  chatID,
			Role:    last.Role,
			Content: last.Content,
		}); err != nil {
			return NewStoreError("append", "failed to append user message", err)
		}
		if err := s.chatRepo.TouchUpdatedAt(ctx, chatID); err != nil {
			s.logger.Warn("failed to touch chat", "chat_id", chatID, "error", err.Error())
		}
	}

	var full strings.Builder
	llmCtx, cancel := context.WithTimeout(ctx, s.config.StreamTimeout)
	defer cancel()

	err := s.provider.StreamCompletion(llmCtx, history, func(delta string) error {
		if delta == "" {
			return nil
		}
		// Forward the individual delta immediately, never the accumulator
		// and never a coalesced batch.
		full.WriteString(delta)
		return emit(protocol.Delta{Content: delta})
	})
	if err != nil {
		return NewStreamingError("completion", "upstream stream failed", err)
	}

	if err := s.persistAssistantTurn(ctx, chatID, full.String()); err != nil {
		return err
	}

	// Ordering contract: the append above has returned, so a Completed frame
	// always implies the assistant message is durable.
	// A failed terminal emit means the client is gone. The message is already
	// durable at this point, so an error frame would lie about the store
	// state; just stop.
	terminal := protocol.Completed{}
	if isStart {
		terminal.ChatID = strconv.FormatUint(uint64(chatID), 10)
	}
	if err := emit(terminal); err != nil {
		s.logger.Warn("failed to emit terminal frame", "chat_id", chatID, "error", err.Error())
	}

	s.logger.Info("turn completed", "chat_id", chatID, "response_length", full.Len())
	return nil
}

func (s *StreamingService) persistAssistantTurn(ctx context.Context, chatID uint, content string) error {
	// The request context may already carry a terminal frame deadline;
	// the save gets its own bound instead.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.PersistTimeout)
	defer cancel()

	if _, err := s.messageRepo.Create(saveCtx, &domain.Message{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: content,
	}); err != nil {
		return NewStoreError("append", "failed to append assistant message", err)
	}
	if err := s.chatRepo.TouchUpdatedAt(saveCtx, chatID); err != nil {
		s.logger.Warn("failed to touch chat", "chat_id", chatID, "error", err.Error())
	}
	return nil
}

// GetChat returns a chat with its messages ordered oldest first.
func (s *StreamingService) GetChat(ctx context.Context, chatID uint) (*domain.Chat, error) {
	found, err := s.chatRepo.FindByIDWithMessages(ctx, chatID)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, NewNotFoundError(chatID)
		}
		return nil, NewStoreError("get", "failed to load chat", err)
	}
	return found, nil
}

// ListChats returns all chats, newest created first.
func (s *StreamingService) ListChats(ctx context.Context) ([]domain.Chat, error) {
	chats, err := s.chatRepo.FindAllWithMessages(ctx)
	if err != nil {
		return nil, NewStoreError("list", "failed to list chats", err)
	}
	return chats, nil
}

// DeleteChat removes a chat and all of its messages.
func (s *StreamingService) DeleteChat(ctx context.Context, chatID uint) error {
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return NewNotFoundError(chatID)
		}
		return NewStoreError("delete", "failed to delete chat", err)
	}
	return nil
}
