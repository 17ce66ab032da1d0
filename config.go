package rx

import "github.com/AnatoleLucet/rx/internal"

// Config decides what happens to errors and notifications that cannot be
// delivered to an observer.
//
// The hooks are captured when a Subscriber, Subject or Action is created, so
// work deferred to another goroutine keeps reporting to the config that was
// in effect where it was set up.
type Config = internal.Config

// RunWithConfig runs fn with cfg in effect for the calling goroutine.
//
// There is no process-wide setter on purpose: tests and callers scope their
// hooks instead of mutating shared state.
func RunWithConfig(cfg *Config, fn func()) {
	internal.RunWithConfig(cfg, fn)
}

// CurrentConfig returns the config in effect for the calling goroutine.
func CurrentConfig() *Config {
	return internal.CurrentConfig()
}
