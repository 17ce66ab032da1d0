package rx

// Map applies project to every value. A panic in project errors the stream.
func Map[T, R any](project func(T) R) OperatorFunc[T, R] {
	return Operate(func(source Observable[T], sub *Subscriber[R]) {
		source.subscribe(newOperatorSubscriber(sub, func(v T) {
			sub.Next(project(v))
		}, nil, nil, nil))
	})
}

// MapErr is Map for projections that can fail. A non-nil error terminates
// the stream with that error.
func MapErr[T, R any](project func(T) (R, error)) OperatorFunc[T, R] {
	return Operate(func(source Observable[T], sub *Subscriber[R]) {
		source.subscribe(newOperatorSubscriber(sub, func(v T) {
			r, err := project(v)
			if err != nil {
				sub.Error(err)
				return
			}
			sub.Next(r)
		}, nil, nil, nil))
	})
}

// Filter forwards the values for which predicate returns true.
func Filter[T any](predicate func(T) bool) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		source.subscribe(newOperatorSubscriber(sub, func(v T) {
			if predicate(v) {
				sub.Next(v)
			}
		}, nil, nil, nil))
	})
}

// Tap calls observer for every notification before forwarding it unchanged.
// A panic in observer errors the stream.
func Tap[T any](observer Observer[T]) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		source.subscribe(newOperatorSubscriber(sub,
			func(v T) {
				observer.Next(v)
				sub.Next(v)
			},
			func(err error) {
				observer.Error(err)
				sub.Error(err)
			},
			func() {
				observer.Complete()
				sub.Complete()
			},
			nil,
		))
	})
}

// Take forwards the first count values, then completes and releases the
// source.
func Take[T any](count int) OperatorFunc[T, T] {
	if count <= 0 {
		return func(Observable[T]) Observable[T] { return Empty[T]() }
	}

	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		seen := 0
		source.subscribe(newOperatorSubscriber(sub, func(v T) {
			seen++
			if seen > count {
				return
			}
			sub.Next(v)
			if seen == count {
				sub.Complete()
			}
		}, nil, nil, nil))
	})
}

// Scan emits the running accumulation of the source, starting from seed.
func Scan[T, R any](accumulator func(acc R, v T) R, seed R) OperatorFunc[T, R] {
	return Operate(func(source Observable[T], sub *Subscriber[R]) {
		acc := seed
		source.subscribe(newOperatorSubscriber(sub, func(v T) {
			acc = accumulator(acc, v)
			sub.Next(acc)
		}, nil, nil, nil))
	})
}

// Finalize calls fn once the subscription ends, whatever the reason.
func Finalize[T any](fn func()) OperatorFunc[T, T] {
	return Operate(func(source Observable[T], sub *Subscriber[T]) {
		source.subscribe(sub)
		sub.Add(TeardownFunc(fn))
	})
}

// Materialize turns every notification into a Notification value. The
// output completes right after the terminal notification was emitted.
func Materialize[T any]() OperatorFunc[T, Notification[T]] {
	return Operate(func(source Observable[T], sub *Subscriber[Notification[T]]) {
		source.subscribe(newOperatorSubscriber(sub,
			func(v T) {
				sub.Next(NextNotification(v))
			},
			func(err error) {
				sub.Next(ErrorNotification[T](err))
				sub.Complete()
			},
			func() {
				sub.Next(CompleteNotification[T]())
				sub.Complete()
			},
			nil,
		))
	})
}

// Dematerialize replays Notification values as real notifications.
func Dematerialize[T any]() OperatorFunc[Notification[T], T] {
	return Operate(func(source Observable[Notification[T]], sub *Subscriber[T]) {
		source.subscribe(newOperatorSubscriber(sub, func(n Notification[T]) {
			n.Accept(sub)
		}, nil, nil, nil))
	})
}
