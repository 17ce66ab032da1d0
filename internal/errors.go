package internal

import (
	"errors"
	"fmt"
	"strings"
)

var ErrObjectUnsubscribed = errors.New("rx: object unsubscribed")

// UnsubscriptionError aggregates every error raised by the finalizers of a
// single Unsubscribe call.
type UnsubscriptionError struct {
	Errors []error
}

func (e *UnsubscriptionError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("rx: 1 error occurred during unsubscription: %v", e.Errors[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "rx: %d errors occurred during unsubscription:", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  %d) %v", i+1, err)
	}
	return b.String()
}

func (e *UnsubscriptionError) Unwrap() []error { return e.Errors }

func appendFlat(errs []error, err error) []error {
	var nested *UnsubscriptionError
	if errors.As(err, &nested) {
		return append(errs, nested.Errors...)
	}
	return append(errs, err)
}

func JoinUnsubscription(a, b error) error {
	var errs []error
	if a != nil {
		errs = appendFlat(errs, a)
	}
	if b != nil {
		errs = appendFlat(errs, b)
	}
	if len(errs) == 0 {
		return nil
	}
	return &UnsubscriptionError{Errors: errs}
}
