// File: internal/protocol/sse.go
package protocol

import (
	"fmt"
	"io"
	"strings"
)

const dataPrefix = "data: "

// WriteEvent writes a frame as one SSE data event. No event type field is
// used; the payload alone identifies the frame variant.
func WriteEvent(w io.Writer, f Frame) error {
	payload, err := Marshal(f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s%s\n\n", dataPrefix, payload)
	return err
}

// Decoder incrementally decodes frames from a byte stream. Frames are not
// guaranteed to align with transport chunk boundaries, so input is buffered
// until a line terminator completes a full event; a frame is never parsed
// from a partial read.
type Decoder struct {
	r       io.Reader
	buf     []byte
	pending string
}

// NewDecoder returns a Decoder reading SSE data events from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, 4096)}
}

// Next returns the next frame in the stream. It returns io.EOF once the
// underlying transport ends; any buffered partial line is discarded at that
// point since it can never complete into a frame.
func (d *Decoder) Next() (Frame, error) {
	for {
		if line, ok := d.nextLine(); ok {
			if !strings.HasPrefix(line, dataPrefix) {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
			if payload == "" {
				continue
			}
			return Unmarshal([]byte(payload))
		}

		n, err := d.r.Read(d.buf)
		if n > 0 {
			d.pending += string(d.buf[:n])
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

func (d *Decoder) nextLine() (string, bool) {
	idx := strings.Index(d.pending, "\n")
	if idx < 0 {
		return "", false
	}
	line := strings.TrimSuffix(d.pending[:idx], "\r")
	d.pending = d.pending[idx+1:]
	return line, true
}
