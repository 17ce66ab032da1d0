package rx

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by LastValue when the Observable completed without
// emitting.
var ErrEmpty = errors.New("rx: no elements in sequence")

// Collect subscribes to obs and blocks until it terminates, returning every
// value it emitted. If ctx is done first the subscription is released and
// ctx.Err() is returned, joined with any teardown failure.
func Collect[T any](ctx context.Context, obs Observable[T]) ([]T, error) {
	var (
		mu     sync.Mutex
		values []T
	)

	err := wait(ctx, obs, func(v T) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()
	return values, err
}

// LastValue is Collect keeping only the final value. It returns ErrEmpty
// when obs completes without a value.
func LastValue[T any](ctx context.Context, obs Observable[T]) (T, error) {
	var (
		mu       sync.Mutex
		last     T
		hasValue bool
	)

	err := wait(ctx, obs, func(v T) {
		mu.Lock()
		last, hasValue = v, true
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()

	var zero T
	switch {
	case err != nil:
		return zero, err
	case !hasValue:
		return zero, ErrEmpty
	}
	return last, nil
}

func wait[T any](ctx context.Context, obs Observable[T], next func(T)) error {
	done := make(chan error, 1)

	sub := obs.Subscribe(ObserverFuncs[T]{
		OnNext:     next,
		OnError:    func(err error) { done <- err },
		OnComplete: func() { done <- nil },
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if err := sub.Unsubscribe(); err != nil {
			return errors.Join(ctx.Err(), err)
		}
		return ctx.Err()
	}
}
