package rx

// SwitchMap projects every source value to an inner Observable and mirrors
// only the latest one. The previous inner subscription is released before
// the next one starts. The result completes once the source and the current
// inner Observable have completed.
func SwitchMap[T, R any](project func(T) Observable[R]) OperatorFunc[T, R] {
	return Operate(func(source Observable[T], sub *Subscriber[R]) {
		var (
			inner      *Subscriber[R]
			isComplete bool
		)

		checkComplete := func() {
			if isComplete && inner == nil {
				sub.Complete()
			}
		}

		source.subscribe(newOperatorSubscriber(sub,
			func(v T) {
				if inner != nil {
					inner.release()
				}

				var current *Subscriber[R]
				current = newOperatorSubscriber(sub,
					func(r R) { sub.Next(r) },
					nil,
					func() {
						if inner == current {
							inner = nil
						}
						checkComplete()
					},
					nil,
				)
				inner = current

				project(v).subscribe(current)
			},
			nil,
			func() {
				isComplete = true
				checkComplete()
			},
			nil,
		))
	})
}
