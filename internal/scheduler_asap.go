package internal

import (
	"slices"
	"sync"
	"time"
)

// AsapScheduler defers zero-delay actions to a drain goroutine, the Go
// stand-in for a microtask queue. Actions scheduled while a batch runs are
// picked up by the next batch of the same goroutine. Delayed actions behave
// as async.
type AsapScheduler struct {
	async *AsyncScheduler

	mu      sync.Mutex
	actions []*Action
	running bool
}

func NewAsapScheduler() *AsapScheduler {
	return &AsapScheduler{async: NewAsyncScheduler()}
}

func (s *AsapScheduler) Now() time.Time {
	return s.async.Now()
}

func (s *AsapScheduler) Schedule(work Work, delay time.Duration, state any) *Action {
	return newAction(s, work).Schedule(state, delay)
}

func (s *AsapScheduler) enqueue(a *Action, delay time.Duration) {
	if delay > 0 {
		s.async.enqueue(a, delay)
		return
	}
	s.async.dequeue(a)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.actions = append(s.actions, a)
	if !s.running {
		s.running = true
		go s.drain()
	}
}

func (s *AsapScheduler) dequeue(a *Action) {
	s.async.dequeue(a)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.actions = slices.DeleteFunc(s.actions, func(x *Action) bool { return x == a })
}

func (s *AsapScheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.actions) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		batch := s.actions
		s.actions = nil
		s.mu.Unlock()

		for _, a := range batch {
			a.execute()
		}
	}
}
