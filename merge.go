package rx

import "github.com/AnatoleLucet/rx/internal"

// MergeMap projects every source value to an inner Observable and merges
// the inner outputs.
//
// At most concurrency inner subscriptions are active at once; zero or less
// means unbounded. Values arriving while all slots are taken are buffered
// and projected in arrival order as slots free up. The result completes
// once the source and every inner Observable have completed.
func MergeMap[T, R any](project func(T) Observable[R], concurrency int) OperatorFunc[T, R] {
	return Operate(func(source Observable[T], sub *Subscriber[R]) {
		mergeInternals(source, sub, project, concurrency)
	})
}

// ConcatMap is MergeMap with one inner subscription at a time.
func ConcatMap[T, R any](project func(T) Observable[R]) OperatorFunc[T, R] {
	return MergeMap(project, 1)
}

// MergeAll flattens a higher-order Observable.
func MergeAll[T any](concurrency int) OperatorFunc[Observable[T], T] {
	return MergeMap(func(inner Observable[T]) Observable[T] { return inner }, concurrency)
}

func mergeInternals[T, R any](source Observable[T], sub *Subscriber[R], project func(T) Observable[R], concurrency int) {
	var (
		buffer     []T
		active     int
		isComplete bool
	)

	unbounded := concurrency <= 0

	checkComplete := func() {
		if isComplete && len(buffer) == 0 && active == 0 {
			sub.Complete()
		}
	}

	var doInnerSub func(v T)
	doInnerSub = func(v T) {
		active++

		innerComplete := false
		inner := newOperatorSubscriber(sub,
			func(r R) { sub.Next(r) },
			nil,
			func() { innerComplete = true },
			func() {
				// an inner error or a downstream unsubscribe stops everything
				if !innerComplete {
					return
				}

				err := internal.Try(func() {
					active--
					for len(buffer) > 0 && (unbounded || active < concurrency) {
						next := buffer[0]
						buffer = buffer[1:]
						doInnerSub(next)
					}
					checkComplete()
				})
				if err != nil {
					sub.Error(err)
				}
			},
		)

		project(v).subscribe(inner)
	}

	source.subscribe(newOperatorSubscriber(sub,
		func(v T) {
			if unbounded || active < concurrency {
				doInnerSub(v)
				return
			}
			buffer = append(buffer, v)
		},
		nil,
		func() {
			isComplete = true
			checkComplete()
		},
		nil,
	))
}
