// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/relaydev/chatstream/internal/domain"
	"github.com/relaydev/chatstream/internal/protocol"
	"github.com/relaydev/chatstream/internal/services"
	"github.com/relaydev/chatstream/internal/services/chat"
)

// ChatStreamer is the relay surface the HTTP layer depends on.
type ChatStreamer interface {
	StreamTurn(ctx context.Context, chatID uint, history []domain.Message, emit chat.FrameEmitter)
	EnsureChat(ctx context.Context, chatID uint) error
	GetChat(ctx context.Context, chatID uint) (*domain.Chat, error)
	ListChats(ctx context.Context) ([]domain.Chat, error)
	DeleteChat(ctx context.Context, chatID uint) error
}

type ChatHandler struct {
	service ChatStreamer
	logger  services.Logger
}

func NewChatHandler(service ChatStreamer, logger services.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

// RegisterRoutes attaches every route of the chat API to the router.
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/chat", h.StartChat).Methods(http.MethodPost)
	r.HandleFunc("/chat/{chatID:[0-9]+}", h.ContinueChat).Methods(http.MethodPost)
	r.HandleFunc("/chat/{chatID:[0-9]+}", h.GetChat).Methods(http.MethodGet)
	r.HandleFunc("/chat/{chatID:[0-9]+}", h.DeleteChat).Methods(http.MethodDelete)
	r.HandleFunc("/chats", h.ListChats).Methods(http.MethodGet)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

// Health is a trivial liveness probe.
func (h *ChatHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StartChat begins a new conversation: the whole message history is persisted
// into a fresh chat and the response is a framed SSE stream whose terminal
// frame carries the new chat id.
func (h *ChatHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	history, ok := h.decodeHistory(w, r)
	if !ok {
		return
	}
	h.stream(w, r, 0, history)
}

// ContinueChat appends the newest user turn to an existing conversation and
// streams the completion. The terminal frame carries no chat id.
func (h *ChatHandler) ContinueChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}
	history, ok := h.decodeHistory(w, r)
	if !ok {
		return
	}

	if err := h.service.EnsureChat(r.Context(), chatID); err != nil {
		if chat.IsNotFound(err) {
			writeError(w, http.StatusNotFound, categoryNotFound, "chat not found")
			return
		}
		h.logger.Error("chat lookup failed", "chat_id", chatID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to look up chat")
		return
	}

	h.stream(w, r, chatID, history)
}

// stream switches the response into SSE mode and lets the relay drive it.
// From here on every outcome, including failure, is a well-formed frame.
func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, chatID uint, history []domain.Message) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("response writer does not support streaming")
		writeError(w, http.StatusInternalServerError, categoryInternal, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(f protocol.Frame) error {
		if err := protocol.WriteEvent(w, f); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	h.service.StreamTurn(r.Context(), chatID, history, emit)
}

// GetChat returns the full persisted chat as JSON.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetChat(r.Context(), chatID)
	if err != nil {
		if chat.IsNotFound(err) {
			writeError(w, http.StatusNotFound, categoryNotFound, "chat not found")
			return
		}
		h.logger.Error("failed to get chat", "chat_id", chatID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to get chat history")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// ListChats returns all chats, newest created first, each with its messages
// ordered oldest first.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.ListChats(r.Context())
	if err != nil {
		h.logger.Error("failed to list chats", "error", err.Error())
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to list chats")
		return
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

// DeleteChat removes the chat and all of its messages.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteChat(r.Context(), chatID); err != nil {
		if chat.IsNotFound(err) {
			writeError(w, http.StatusNotFound, categoryNotFound, "chat not found")
			return
		}
		h.logger.Error("failed to delete chat", "chat_id", chatID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, categoryInternal, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) chatID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["chatID"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid chat id")
		return 0, false
	}
	return uint(id), true
}

func (h *ChatHandler) decodeHistory(w http.ResponseWriter, r *http.Request) ([]domain.Message, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "malformed request body")
		return nil, false
	}

	history := make([]domain.Message, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = domain.Message{Role: m.Role, Content: m.Content}
	}
	if err := domain.ValidateHistory(history); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, err.Error())
		return nil, false
	}
	return history, true
}
