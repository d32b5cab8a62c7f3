// File: internal/services/ai/interface.go
package ai

import (
	"context"

	"github.com/relaydev/chatstream/internal/domain"
)

// CompletionProvider produces a streamed chat completion for an ordered
// message history. onDelta is invoked once per incremental text delta, in
// order; returning an error from it aborts the stream and surfaces that
// error unchanged to the caller.
type CompletionProvider interface {
	StreamCompletion(ctx context.Context, history []domain.Message, onDelta func(string) error) error
}
