package internal

import "github.com/sourcegraph/conc/panics"

// Try runs fn and turns a panic into an error.
// A panic carrying an error value yields that error unchanged so callers can
// match it with errors.Is; any other value is wrapped with its stack.
func Try(fn func()) error {
	var pc panics.Catcher
	pc.Try(fn)

	r := pc.Recovered()
	if r == nil {
		return nil
	}
	if err, ok := r.Value.(error); ok {
		return err
	}
	return r.AsError()
}
