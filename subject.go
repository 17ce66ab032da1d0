package rx

import (
	"slices"
	"sync"

	"github.com/AnatoleLucet/rx/internal"
)

// SubjectLike is what every subject variant offers: push values in as an
// Observer, take them out as an Observable.
type SubjectLike[T any] interface {
	Observer[T]
	Subscribe(observer Observer[T]) Subscription
	AsObservable() Observable[T]
}

// Subject multicasts every notification it receives to its current
// subscribers, in subscription order.
//
// Delivery iterates over a snapshot of the observer list: a subscriber that
// joins during a Next does not see that value, and one that leaves during a
// Next sees nothing more. After Error or Complete the list is cleared and
// late subscribers receive only the terminal notification.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*Subscriber[T]
	// copy of observers shared by in-flight deliveries, nil when stale
	snapshot []*Subscriber[T]

	closed      bool
	stopped     bool
	hasError    bool
	thrownError error

	cfg *internal.Config
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{cfg: internal.CurrentConfig()}
}

func (s *Subject[T]) Next(value T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.cfg.ReportUnhandled(ErrObjectUnsubscribed)
		return
	}
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.snapshot == nil {
		s.snapshot = slices.Clone(s.observers)
	}
	observers := s.snapshot
	s.mu.Unlock()

	for _, o := range observers {
		o.Next(value)
	}
}

func (s *Subject[T]) Error(err error) {
	observers, ok := s.stop(func() {
		s.hasError = true
		s.thrownError = err
	})
	if !ok {
		return
	}

	for _, o := range observers {
		o.Error(err)
	}
}

func (s *Subject[T]) Complete() {
	observers, ok := s.stop(nil)
	if !ok {
		return
	}

	for _, o := range observers {
		o.Complete()
	}
}

// stop moves the subject to its terminal state and hands back the observers
// that still need the terminal notification.
func (s *Subject[T]) stop(mark func()) ([]*Subscriber[T], bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.cfg.ReportUnhandled(ErrObjectUnsubscribed)
		return nil, false
	}
	if s.stopped {
		s.mu.Unlock()
		return nil, false
	}

	s.stopped = true
	if mark != nil {
		mark()
	}

	observers := s.observers
	s.observers = nil
	s.snapshot = nil
	s.mu.Unlock()

	return observers, true
}

// Unsubscribe closes the subject and drops every observer without
// notifying them. Any later use reports ErrObjectUnsubscribed.
func (s *Subject[T]) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopped = true
	s.observers = nil
	s.snapshot = nil
	return nil
}

// Closed reports whether Unsubscribe was called.
func (s *Subject[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Observed reports whether the subject currently has subscribers.
func (s *Subject[T]) Observed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers) > 0
}

func (s *Subject[T]) Subscribe(observer Observer[T]) Subscription {
	return s.AsObservable().Subscribe(observer)
}

func (s *Subject[T]) SubscribeFunc(next func(T), err func(error), complete func()) Subscription {
	return s.AsObservable().SubscribeFunc(next, err, complete)
}

// AsObservable hides the Observer side of the subject.
func (s *Subject[T]) AsObservable() Observable[T] {
	return New(s.subscribe)
}

func (s *Subject[T]) subscribe(sub *Subscriber[T]) Teardown {
	teardown, _, ok := s.register(sub, nil)
	if !ok {
		return nil
	}
	s.checkFinalized(sub)
	return teardown
}

// register adds sub to the observer list unless the subject has stopped.
// capture runs under the same lock whether or not sub was added, so a
// variant can read its state consistently with the registration. ok is
// false when the subject is closed, in which case sub has been errored.
func (s *Subject[T]) register(sub *Subscriber[T], capture func()) (teardown Teardown, added, ok bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Error(ErrObjectUnsubscribed)
		return nil, false, false
	}

	if capture != nil {
		capture()
	}

	if s.stopped {
		s.mu.Unlock()
		return nil, false, true
	}

	s.observers = append(s.observers, sub)
	s.snapshot = nil
	s.mu.Unlock()

	return TeardownFunc(func() { s.remove(sub) }), true, true
}

func (s *Subject[T]) remove(sub *Subscriber[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := slices.Index(s.observers, sub); idx >= 0 {
		s.observers = slices.Delete(s.observers, idx, idx+1)
		s.snapshot = nil
	}
}

// checkFinalized delivers the terminal notification to a late subscriber.
func (s *Subject[T]) checkFinalized(sub *Subscriber[T]) {
	s.mu.Lock()
	hasError, err, stopped := s.hasError, s.thrownError, s.stopped
	s.mu.Unlock()

	switch {
	case hasError:
		sub.Error(err)
	case stopped:
		sub.Complete()
	}
}
