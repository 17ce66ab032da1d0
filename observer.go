package rx

import "github.com/AnatoleLucet/rx/internal"

// Observer consumes the three kinds of notification.
// After Error or Complete no further call is meaningful.
type Observer[T any] interface {
	Next(value T)
	Error(err error)
	Complete()
}

// ObserverFuncs is a partial observer built from callbacks. Nil callbacks
// are skipped, except a nil OnError: an error nobody handles is reported to
// the config's OnUnhandledError.
type ObserverFuncs[T any] struct {
	OnNext     func(T)
	OnError    func(error)
	OnComplete func()
}

func (o ObserverFuncs[T]) Next(value T) {
	if o.OnNext != nil {
		o.OnNext(value)
	}
}

func (o ObserverFuncs[T]) Error(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

func (o ObserverFuncs[T]) Complete() {
	if o.OnComplete != nil {
		o.OnComplete()
	}
}

// consumerObserver guards the callbacks of an end consumer. Their panics
// must not unwind into the producer, so they go to the unhandled reporter.
type consumerObserver[T any] struct {
	observer Observer[T]
	cfg      *internal.Config
}

func (c consumerObserver[T]) Next(value T) {
	c.guard(func() { c.observer.Next(value) })
}

func (c consumerObserver[T]) Error(err error) {
	if funcs, ok := c.observer.(ObserverFuncs[T]); ok && funcs.OnError == nil {
		c.cfg.ReportUnhandled(err)
		return
	}
	c.guard(func() { c.observer.Error(err) })
}

func (c consumerObserver[T]) Complete() {
	c.guard(c.observer.Complete)
}

func (c consumerObserver[T]) guard(fn func()) {
	if err := internal.Try(fn); err != nil {
		c.cfg.ReportUnhandled(err)
	}
}

// operatorObserver runs an operator's callbacks. A panic in one of them is
// an error of the stream and is sent downstream.
type operatorObserver[T, R any] struct {
	downstream *Subscriber[R]
	onNext     func(T)
	onError    func(error)
	onComplete func()
}

func (o *operatorObserver[T, R]) Next(value T) {
	if err := internal.Try(func() { o.onNext(value) }); err != nil {
		o.downstream.Error(err)
	}
}

func (o *operatorObserver[T, R]) Error(err error) {
	if o.onError == nil {
		o.downstream.Error(err)
		return
	}
	if perr := internal.Try(func() { o.onError(err) }); perr != nil {
		o.downstream.Error(perr)
	}
}

func (o *operatorObserver[T, R]) Complete() {
	if o.onComplete == nil {
		o.downstream.Complete()
		return
	}
	if err := internal.Try(o.onComplete); err != nil {
		o.downstream.Error(err)
	}
}
