package rx

import "github.com/AnatoleLucet/rx/internal"

// Observable is a lazy, re-runnable producer of values.
//
// Each Subscribe is an independent execution. An Observable is either a
// producer function or a source plus an Operator (see Lift); the zero value
// never emits.
type Observable[T any] struct {
	producer func(*Subscriber[T]) Teardown
	lifted   liftedSource[T]
}

// New creates an Observable from a producer. The producer runs on every
// subscription; the teardown it returns, if any, runs when that
// subscription ends. A panic in the producer is delivered as an error.
func New[T any](producer func(subscriber *Subscriber[T]) Teardown) Observable[T] {
	return Observable[T]{producer: producer}
}

// Subscribe runs the observable and delivers to observer.
// Passing a *Subscriber reuses it instead of wrapping it again.
func (o Observable[T]) Subscribe(observer Observer[T]) Subscription {
	sub, ok := observer.(*Subscriber[T])
	if !ok {
		sub = newSafeSubscriber(observer)
	}
	o.subscribe(sub)
	return sub
}

// SubscribeFunc is Subscribe with callbacks. Any of them may be nil.
func (o Observable[T]) SubscribeFunc(next func(T), err func(error), complete func()) Subscription {
	return o.Subscribe(ObserverFuncs[T]{
		OnNext:     next,
		OnError:    err,
		OnComplete: complete,
	})
}

func (o Observable[T]) subscribe(sub *Subscriber[T]) {
	err := internal.Try(func() {
		switch {
		case o.lifted != nil:
			o.lifted.call(sub)
		case o.producer != nil:
			sub.Add(o.producer(sub))
		}
	})
	if err != nil {
		sub.Error(err)
	}
}

// Pipe applies ops left to right. Pipe() returns o unchanged.
// Use the package level Pipe1..Pipe6 when operators change the value type.
func (o Observable[T]) Pipe(ops ...OperatorFunc[T, T]) Observable[T] {
	for _, op := range ops {
		o = op(o)
	}
	return o
}

// Lift returns a new Observable that runs op against o on subscribe.
// o itself is left untouched.
func (o Observable[T]) Lift(op Operator[T, T]) Observable[T] {
	return Lift(o, op)
}
