package rx

// AsyncSubject emits only the last value it received, and only once it
// completes. Subscribers arriving after completion get that value and the
// completion immediately.
type AsyncSubject[T any] struct {
	*Subject[T]

	value      T
	hasValue   bool
	isComplete bool
}

func NewAsyncSubject[T any]() *AsyncSubject[T] {
	return &AsyncSubject[T]{Subject: NewSubject[T]()}
}

func (a *AsyncSubject[T]) Next(value T) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.cfg.ReportUnhandled(ErrObjectUnsubscribed)
		return
	}
	if !a.stopped {
		a.value = value
		a.hasValue = true
	}
	a.mu.Unlock()
}

func (a *AsyncSubject[T]) Complete() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.cfg.ReportUnhandled(ErrObjectUnsubscribed)
		return
	}
	if a.isComplete {
		a.mu.Unlock()
		return
	}
	a.isComplete = true
	value, hasValue := a.value, a.hasValue
	a.mu.Unlock()

	if hasValue {
		a.Subject.Next(value)
	}
	a.Subject.Complete()
}

func (a *AsyncSubject[T]) Subscribe(observer Observer[T]) Subscription {
	return a.AsObservable().Subscribe(observer)
}

func (a *AsyncSubject[T]) SubscribeFunc(next func(T), err func(error), complete func()) Subscription {
	return a.AsObservable().SubscribeFunc(next, err, complete)
}

func (a *AsyncSubject[T]) AsObservable() Observable[T] {
	return New(a.subscribe)
}

func (a *AsyncSubject[T]) subscribe(sub *Subscriber[T]) Teardown {
	var (
		hasError, finished, hasValue bool
		err                          error
		value                        T
	)
	teardown, _, ok := a.register(sub, func() {
		hasError, err = a.hasError, a.thrownError
		finished = a.stopped || a.isComplete
		value, hasValue = a.value, a.hasValue
	})
	if !ok {
		return nil
	}

	switch {
	case hasError:
		sub.Error(err)
	case finished:
		if hasValue {
			sub.Next(value)
		}
		sub.Complete()
	}
	return teardown
}
