package rx

// CatchError replaces an errored source with the Observable returned by
// selector. The failed source subscription is released first. caught is the
// source with this same CatchError applied, so returning it retries.
func CatchError[T any](selector func(err error, caught Observable[T]) Observable[T]) OperatorFunc[T, T] {
	var op OperatorFunc[T, T]
	op = Operate(func(source Observable[T], sub *Subscriber[T]) {
		var upstream *Subscriber[T]
		upstream = newOperatorSubscriber(sub,
			func(v T) { sub.Next(v) },
			func(err error) {
				handled := selector(err, op(source))
				upstream.release()
				handled.subscribe(sub)
			},
			nil,
			nil,
		)

		source.subscribe(upstream)
	})
	return op
}
