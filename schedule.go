package rx

import "time"

// ObserveOn re-emits every notification from an action on scheduler, after
// delay. Equal delays keep the source order.
func ObserveOn[T any](scheduler Scheduler, delay time.Duration) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		schedule := func(fn func()) {
			sub.Add(scheduler.Schedule(func(*Action, any) { fn() }, delay, nil))
		}

		source.subscribe(newOperatorSubscriber(sub,
			func(v T) { schedule(func() { sub.Next(v) }) },
			func(err error) { schedule(func() { sub.Error(err) }) },
			func() { schedule(sub.Complete) },
			nil,
		))
	})
}

// SubscribeOn subscribes to the source from an action on scheduler.
func SubscribeOn[T any](scheduler Scheduler, delay time.Duration) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		sub.Add(scheduler.Schedule(func(*Action, any) {
			source.subscribe(sub)
		}, delay, nil))
	})
}
