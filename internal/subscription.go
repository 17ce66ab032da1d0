package internal

import (
	"slices"
	"sync"
)

type Teardown interface {
	Unsubscribe() error
}

type TeardownFunc func()

func (f TeardownFunc) Unsubscribe() error {
	if f == nil {
		return nil
	}
	return Try(f)
}

// subscriptionHolder is implemented by *Subscription and by every type that
// embeds one, which is how a parent recognises a child it can link to.
type subscriptionHolder interface {
	subscription() *Subscription
}

// Parents own children; a child only keeps back-references to detach itself.
type Subscription struct {
	mu     sync.Mutex
	closed bool

	// runs before the finalizers
	initial func()

	finalizers []Teardown
	parents    []*Subscription
}

func NewSubscription(initial func()) *Subscription {
	return &Subscription{initial: initial}
}

func ClosedSubscription() *Subscription {
	return &Subscription{closed: true}
}

func (s *Subscription) subscription() *Subscription { return s }

func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Add registers t to run when s is unsubscribed.
// If s is already closed, t runs immediately.
func (s *Subscription) Add(t Teardown) {
	if isNilTeardown(t) {
		return
	}

	child := holderOf(t)
	if child == s {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err := unsubscribe(t); err != nil {
			CurrentConfig().ReportUnhandled(err)
		}
		return
	}

	if child != nil && !child.attach(s) {
		s.mu.Unlock()
		return
	}

	s.finalizers = append(s.finalizers, t)
	s.mu.Unlock()
}

// Remove deregisters t without running it.
// Only subscription-backed teardowns can be identified and removed.
func (s *Subscription) Remove(t Teardown) {
	if isNilTeardown(t) {
		return
	}

	child := holderOf(t)
	if child == nil {
		return
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.finalizers, func(f Teardown) bool {
		return holderOf(f) == child
	})
	if idx >= 0 {
		s.finalizers = slices.Delete(s.finalizers, idx, idx+1)
	}
	s.mu.Unlock()

	child.detach(s)
}

// Every finalizer runs exactly once; failures come back as one *UnsubscriptionError.
func (s *Subscription) Unsubscribe() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	parents := s.parents
	initial := s.initial
	finalizers := s.finalizers
	s.parents = nil
	s.initial = nil
	s.finalizers = nil
	s.mu.Unlock()

	for _, parent := range parents {
		parent.Remove(s)
	}

	var errs []error

	if initial != nil {
		if err := Try(initial); err != nil {
			errs = appendFlat(errs, err)
		}
	}

	for _, f := range finalizers {
		if err := unsubscribe(f); err != nil {
			errs = appendFlat(errs, err)
		}
	}

	if len(errs) > 0 {
		return &UnsubscriptionError{Errors: errs}
	}
	return nil
}

func (s *Subscription) attach(parent *Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || slices.Contains(s.parents, parent) {
		return false
	}

	s.parents = append(s.parents, parent)
	return true
}

func (s *Subscription) detach(parent *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := slices.Index(s.parents, parent); idx >= 0 {
		s.parents = slices.Delete(s.parents, idx, idx+1)
	}
}

func holderOf(t Teardown) *Subscription {
	if h, ok := t.(subscriptionHolder); ok {
		return h.subscription()
	}
	return nil
}

func isNilTeardown(t Teardown) bool {
	switch v := t.(type) {
	case nil:
		return true
	case TeardownFunc:
		return v == nil
	case *Subscription:
		return v == nil
	}
	return false
}

func unsubscribe(t Teardown) error {
	var err error
	if perr := Try(func() { err = t.Unsubscribe() }); perr != nil {
		return perr
	}
	return err
}
