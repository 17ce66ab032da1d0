package rx

import (
	"fmt"
	"sync"
	"time"
)

// TimeoutError is the error of a stream cut by Timeout.
type TimeoutError struct {
	// Each is the allowed gap between values.
	Each time.Duration
	// Seen is how many values went through before the timer fired.
	Seen int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("rx: timeout: no value within %s (%d seen)", e.Each, e.Seen)
}

// Timeout errors the stream with a *TimeoutError when the first value, or
// any following one, takes longer than each to arrive. The timer runs on
// scheduler and restarts after every value.
func Timeout[T any](each time.Duration, scheduler Scheduler) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		var (
			mu    sync.Mutex
			timer *Action
			seen  int
		)

		stop := func() {
			mu.Lock()
			t := timer
			timer = nil
			mu.Unlock()

			if t != nil {
				if err := t.Unsubscribe(); err != nil {
					sub.cfg.ReportUnhandled(err)
				}
			}
		}

		start := func() {
			if sub.Stopped() {
				return
			}

			t := scheduler.Schedule(func(*Action, any) {
				mu.Lock()
				n := seen
				mu.Unlock()

				sub.Error(&TimeoutError{Each: each, Seen: n})
			}, each, nil)

			mu.Lock()
			timer = t
			mu.Unlock()

			sub.Add(t)
		}

		source.subscribe(newOperatorSubscriber(sub,
			func(v T) {
				stop()

				mu.Lock()
				seen++
				mu.Unlock()

				sub.Next(v)
				start()
			},
			nil,
			nil,
			stop,
		))

		// a synchronous source may already have started the timer
		mu.Lock()
		started := seen > 0
		mu.Unlock()
		if !started {
			start()
		}
	})
}
