package rx

// BehaviorSubject is a Subject with a current value. A new subscriber
// receives the current value synchronously before Subscribe returns.
type BehaviorSubject[T any] struct {
	*Subject[T]
	value T
}

func NewBehaviorSubject[T any](initial T) *BehaviorSubject[T] {
	return &BehaviorSubject[T]{
		Subject: NewSubject[T](),
		value:   initial,
	}
}

// GetValue returns the current value, or the error the subject failed with.
func (b *BehaviorSubject[T]) GetValue() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	switch {
	case b.hasError:
		return zero, b.thrownError
	case b.closed:
		return zero, ErrObjectUnsubscribed
	}
	return b.value, nil
}

// Value returns the last value the subject accepted.
func (b *BehaviorSubject[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *BehaviorSubject[T]) Next(value T) {
	b.mu.Lock()
	if !b.stopped {
		b.value = value
	}
	b.mu.Unlock()

	b.Subject.Next(value)
}

func (b *BehaviorSubject[T]) Subscribe(observer Observer[T]) Subscription {
	return b.AsObservable().Subscribe(observer)
}

func (b *BehaviorSubject[T]) SubscribeFunc(next func(T), err func(error), complete func()) Subscription {
	return b.AsObservable().SubscribeFunc(next, err, complete)
}

func (b *BehaviorSubject[T]) AsObservable() Observable[T] {
	return New(b.subscribe)
}

func (b *BehaviorSubject[T]) subscribe(sub *Subscriber[T]) Teardown {
	var current T
	teardown, added, ok := b.register(sub, func() { current = b.value })
	if !ok {
		return nil
	}

	b.checkFinalized(sub)
	if added {
		sub.Next(current)
	}
	return teardown
}
