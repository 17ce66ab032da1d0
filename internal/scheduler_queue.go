package internal

import (
	"sync"
	"time"
)

// QueueScheduler runs zero-delay actions synchronously on the calling
// goroutine. Actions scheduled while that goroutine is already flushing are
// appended to its queue and drained by the same loop, so recursive
// scheduling never grows the call stack. Delayed actions behave as async.
type QueueScheduler struct {
	async *AsyncScheduler

	// goroutine id -> *trampoline, present only while that goroutine flushes
	trampolines sync.Map
}

type trampoline struct {
	queue  *ActionQueue
	active bool
}

func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{async: NewAsyncScheduler()}
}

func (s *QueueScheduler) Now() time.Time {
	return s.async.Now()
}

func (s *QueueScheduler) Schedule(work Work, delay time.Duration, state any) *Action {
	return newAction(s, work).Schedule(state, delay)
}

func (s *QueueScheduler) enqueue(a *Action, delay time.Duration) {
	if delay > 0 {
		s.async.enqueue(a, delay)
		return
	}
	s.async.dequeue(a)

	gid := getGID()
	v, _ := s.trampolines.LoadOrStore(gid, &trampoline{queue: NewActionQueue()})
	t := v.(*trampoline)

	if t.active {
		t.queue.Enqueue(a)
		return
	}

	t.active = true
	defer func() {
		t.active = false
		t.queue.Clear()
		s.trampolines.Delete(gid)
	}()

	a.execute()
	for next := t.queue.Dequeue(); next != nil; next = t.queue.Dequeue() {
		next.execute()
	}
}

func (s *QueueScheduler) dequeue(a *Action) {
	s.async.dequeue(a)

	if v, ok := s.trampolines.Load(getGID()); ok {
		v.(*trampoline).queue.Remove(a)
	}
}
