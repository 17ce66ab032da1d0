package internal

import (
	"log/slog"
	"sync"
)

// Config holds the hooks that decide what happens to errors nobody can
// deliver downstream.
type Config struct {
	// OnUnhandledError receives errors raised by consumer callbacks,
	// finalizers run outside of an Unsubscribe call, and scheduled work.
	// When nil, the error is logged with slog.
	OnUnhandledError func(err error)

	// OnStoppedNotification receives notifications that arrive after a
	// subscriber has already stopped. When nil they are dropped.
	OnStoppedNotification func(notification any)
}

var defaultConfig = &Config{}

func DefaultConfig() *Config {
	return defaultConfig
}

func (c *Config) ReportUnhandled(err error) {
	if err == nil {
		return
	}
	if c == nil || c.OnUnhandledError == nil {
		slog.Default().Error("rx: unhandled error", "err", err)
		return
	}
	c.OnUnhandledError(err)
}

func (c *Config) ReportStopped(notification any) {
	if c == nil || c.OnStoppedNotification == nil {
		return
	}
	c.OnStoppedNotification(notification)
}

var scopes sync.Map

func CurrentConfig() *Config {
	if c, ok := scopes.Load(getGID()); ok {
		return c.(*Config)
	}
	return defaultConfig
}

// RunWithConfig runs fn with cfg installed for the calling goroutine and
// restores the previous scope afterwards, even if fn panics.
func RunWithConfig(cfg *Config, fn func()) {
	gid := getGID()

	prev, hadPrev := scopes.Load(gid)
	scopes.Store(gid, cfg)
	defer func() {
		if hadPrev {
			scopes.Store(gid, prev)
		} else {
			scopes.Delete(gid)
		}
	}()

	fn()
}
