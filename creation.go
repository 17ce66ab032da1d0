package rx

import (
	"context"
	"iter"
	"time"
)

// Of emits values in order, then completes.
func Of[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// FromSlice emits the elements of values in order, then completes. It stops
// early once the subscriber is released.
func FromSlice[T any](values []T) Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		for _, v := range values {
			if sub.Stopped() {
				return nil
			}
			sub.Next(v)
		}
		sub.Complete()
		return nil
	})
}

// FromSeq emits every element of seq. The iteration is stopped when the
// subscriber is released.
func FromSeq[T any](seq iter.Seq[T]) Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		for v := range seq {
			if sub.Stopped() {
				return nil
			}
			sub.Next(v)
		}
		sub.Complete()
		return nil
	})
}

// FromChan emits values received from ch on a dedicated goroutine and
// completes when ch is closed. Cancelling ctx errors the subscriber with
// ctx.Err(); unsubscribing stops the goroutine without draining ch.
func FromChan[T any](ctx context.Context, ch <-chan T) Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		done := make(chan struct{})

		go func() {
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					sub.Error(ctx.Err())
					return
				case v, ok := <-ch:
					if !ok {
						sub.Complete()
						return
					}
					sub.Next(v)
				}
			}
		}()

		return TeardownFunc(func() { close(done) })
	})
}

// Empty completes immediately.
func Empty[T any]() Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		sub.Complete()
		return nil
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Observable[T] {
	return New(func(*Subscriber[T]) Teardown { return nil })
}

// Throw errors immediately with err.
func Throw[T any](err error) Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		sub.Error(err)
		return nil
	})
}

// Defer calls factory on every subscription and subscribes to its result.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return New(func(sub *Subscriber[T]) Teardown {
		factory().subscribe(sub)
		return nil
	})
}

// Timer emits 0 after due on scheduler, then completes.
func Timer(due time.Duration, scheduler Scheduler) Observable[int] {
	return New(func(sub *Subscriber[int]) Teardown {
		return scheduler.Schedule(func(*Action, any) {
			sub.Next(0)
			sub.Complete()
		}, due, nil)
	})
}

// Interval emits 0, 1, 2, ... every period on scheduler. It never completes.
func Interval(period time.Duration, scheduler Scheduler) Observable[int] {
	return New(func(sub *Subscriber[int]) Teardown {
		return scheduler.Schedule(func(a *Action, state any) {
			n := state.(int)
			sub.Next(n)
			if !sub.Stopped() {
				a.Schedule(n+1, period)
			}
		}, period, 0)
	})
}

// Merge subscribes to every source at once and interleaves their values. It
// completes after all of them did; the first error ends everything.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return MergeAll[T](0)(FromSlice(sources))
}

// Concat subscribes to each source only after the previous one completed.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return MergeAll[T](1)(FromSlice(sources))
}
