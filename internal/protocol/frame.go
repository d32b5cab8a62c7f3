// File: internal/protocol/frame.go

// Package protocol defines the wire-level frame protocol spoken between the
// streaming relay and its consumers. A response stream carries zero or more
// Delta frames followed by exactly one terminal frame, either Completed or
// ErrorFrame, each serialized as a single SSE data event.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Frame is the discriminated union of wire frames. Exactly three types
// implement it: Delta, Completed and ErrorFrame.
type Frame interface {
	frame()
}

// Delta carries one incremental slice of assistant output. Frames carry the
// individual delta text, never the accumulated content.
type Delta struct {
	Content string
}

// Completed terminates a stream after the assistant message was durably
// stored. ChatID is set only on streams that created a new chat; continuation
// streams leave it empty because the consumer already holds the id.
type Completed struct {
	ChatID string
}

// ErrorFrame terminates a stream on failure. Deltas sent before it are not
// retracted; the assistant message for the turn was not stored.
type ErrorFrame struct {
	Message string
}

func (Delta) frame()      {}
func (Completed) frame()  {}
func (ErrorFrame) frame() {}

// wireFrame is the superset of all frame shapes used for (de)serialization.
type wireFrame struct {
	Content *string `json:"content,omitempty"`
	ChatID  string  `json:"chatId,omitempty"`
	Done    bool    `json:"done,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// Marshal encodes a frame into its JSON wire shape.
func Marshal(f Frame) ([]byte, error) {
	var w wireFrame
	switch fr := f.(type) {
	case Delta:
		w.Content = &fr.Content
	case Completed:
		w.Done = true
		w.ChatID = fr.ChatID
	case ErrorFrame:
		w.Error = &fr.Message
	default:
		return nil, fmt.Errorf("unknown frame type %T", f)
	}
	return json.Marshal(w)
}

// Unmarshal decodes a JSON payload into a frame. Discriminating fields are
// checked in fixed precedence (error, then done, then content) so a payload
// can never resolve to two variants at once.
func Unmarshal(data []byte) (Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	switch {
	case w.Error != nil:
		return ErrorFrame{Message: *w.Error}, nil
	case w.Done:
		return Completed{ChatID: w.ChatID}, nil
	case w.Content != nil:
		return Delta{Content: *w.Content}, nil
	}
	return nil, fmt.Errorf("frame %q matches no variant", data)
}
