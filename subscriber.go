package rx

import (
	"sync/atomic"

	"github.com/AnatoleLucet/rx/internal"
)

// Subscriber is a guarded Observer and a Subscription in one.
//
// It moves from active to stopped on the first Error or Complete. The
// triggering call is forwarded, then the subscriber releases itself so the
// upstream stops producing. Anything arriving after that is dropped and,
// if configured, handed to Config.OnStoppedNotification.
type Subscriber[T any] struct {
	internal.Subscription

	destination Observer[T]
	cfg         *internal.Config

	stopped  atomic.Bool
	released atomic.Bool

	// runs once, after every finalizer
	finalize func()
}

func newSafeSubscriber[T any](observer Observer[T]) *Subscriber[T] {
	if observer == nil {
		observer = ObserverFuncs[T]{}
	}

	cfg := internal.CurrentConfig()
	return &Subscriber[T]{
		destination: consumerObserver[T]{observer: observer, cfg: cfg},
		cfg:         cfg,
	}
}

// newOperatorSubscriber creates the upstream half of an operator. It is
// attached to downstream, so releasing downstream releases it too. Nil
// onError and onComplete forward to downstream.
func newOperatorSubscriber[T, R any](
	downstream *Subscriber[R],
	onNext func(T),
	onError func(error),
	onComplete func(),
	onFinalize func(),
) *Subscriber[T] {
	s := &Subscriber[T]{
		destination: &operatorObserver[T, R]{
			downstream: downstream,
			onNext:     onNext,
			onError:    onError,
			onComplete: onComplete,
		},
		cfg:      downstream.cfg,
		finalize: onFinalize,
	}
	downstream.Add(s)
	return s
}

// Next delivers a value unless the subscriber has stopped.
func (s *Subscriber[T]) Next(value T) {
	if s.stopped.Load() {
		s.cfg.ReportStopped(NextNotification(value))
		return
	}
	s.destination.Next(value)
}

// Error delivers a terminal error and releases the subscriber.
func (s *Subscriber[T]) Error(err error) {
	if !s.stopped.CompareAndSwap(false, true) {
		s.cfg.ReportStopped(ErrorNotification[T](err))
		return
	}
	s.destination.Error(err)
	s.release()
}

// Complete delivers completion and releases the subscriber.
func (s *Subscriber[T]) Complete() {
	if !s.stopped.CompareAndSwap(false, true) {
		s.cfg.ReportStopped(CompleteNotification[T]())
		return
	}
	s.destination.Complete()
	s.release()
}

// Stopped reports whether a terminal notification was delivered or the
// subscriber was released.
func (s *Subscriber[T]) Stopped() bool {
	return s.stopped.Load()
}

// Unsubscribe stops the subscriber and releases everything attached to it.
func (s *Subscriber[T]) Unsubscribe() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	s.stopped.Store(true)

	err := s.Subscription.Unsubscribe()
	if s.finalize != nil {
		err = internal.JoinUnsubscription(err, internal.Try(s.finalize))
	}
	return err
}

func (s *Subscriber[T]) release() {
	if err := s.Unsubscribe(); err != nil {
		s.cfg.ReportUnhandled(err)
	}
}
