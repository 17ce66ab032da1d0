package internal

import (
	"sync"
	"time"
)

// One timer for the earliest action; due actions run serially in one flush loop.
type AsyncScheduler struct {
	mu     sync.Mutex
	now    func() time.Time
	seq    uint64
	queue  actionHeap
	timer  *time.Timer
	active bool
}

func NewAsyncScheduler() *AsyncScheduler {
	return &AsyncScheduler{now: time.Now}
}

func (s *AsyncScheduler) Now() time.Time {
	return s.now()
}

func (s *AsyncScheduler) Schedule(work Work, delay time.Duration, state any) *Action {
	return newAction(s, work).Schedule(state, delay)
}

func (s *AsyncScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *AsyncScheduler) enqueue(a *Action, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	a.seq = s.seq
	a.due = s.now().Add(delay)
	s.queue.upsert(a)

	s.arm()
}

func (s *AsyncScheduler) dequeue(a *Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.remove(a)
}

// arm points the timer at the earliest due action. s.mu must be held.
func (s *AsyncScheduler) arm() {
	if s.active {
		// the running flush re-arms on exit
		return
	}

	head := s.queue.peek()
	if head == nil {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(max(0, head.due.Sub(s.now())), s.flush)
}

func (s *AsyncScheduler) flush() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true

	for {
		head := s.queue.peek()
		if head == nil || head.due.After(s.now()) {
			break
		}
		a := s.queue.pop()

		s.mu.Unlock()
		a.execute()
		s.mu.Lock()
	}

	s.active = false
	s.arm()
	s.mu.Unlock()
}
