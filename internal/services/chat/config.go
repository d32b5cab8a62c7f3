// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// StreamTimeout bounds one upstream completion stream. The upstream API
	// gives no idle guarantee, so a turn is never allowed to hang forever.
	StreamTimeout time.Duration

	// PersistTimeout bounds each store write that happens outside the
	// request's own deadline.
	PersistTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.StreamTimeout <= 0 {
		return fmt.Errorf("stream timeout must be positive")
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("persist timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		StreamTimeout:  60 * time.Second,
		PersistTimeout: 5 * time.Second,
	}
}
