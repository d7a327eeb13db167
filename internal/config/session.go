package config

import (
	"fmt"
	"time"
)

type SessionConfig struct {
	IdleSessionTTLSeconds int
	MaxSessionTTLSeconds  int
	// ClientIdleSweepSeconds controls how often idle backend clients are dropped from memory
	ClientIdleSweepSeconds int
}

func (c *SessionConfig) Validate() error {
	if c.IdleSessionTTLSeconds <= 0 {
		return fmt.Errorf("idle session TTL seconds (%d) needs to be greater than 0", c.IdleSessionTTLSeconds)
	}
	if c.MaxSessionTTLSeconds > 0 && c.IdleSessionTTLSeconds > c.MaxSessionTTLSeconds {
		return fmt.Errorf("max session TTL seconds (%d) cannot be less than idle session TTL seconds (%d)", c.MaxSessionTTLSeconds, c.IdleSessionTTLSeconds)
	}
	if c.ClientIdleSweepSeconds <= 0 {
		return fmt.Errorf("client idle sweep seconds (%d) needs to be greater than 0", c.ClientIdleSweepSeconds)
	}
	return nil
}

func (c SessionConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleSessionTTLSeconds) * time.Second
}

func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.ClientIdleSweepSeconds) * time.Second
}
