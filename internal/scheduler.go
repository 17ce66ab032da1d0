package internal

import (
	"sync"
	"time"
)

// Work is the body of a scheduled Action. It may call a.Schedule to run
// again; otherwise the action closes itself once work returns.
type Work func(a *Action, state any)

type Scheduler interface {
	Now() time.Time
	Schedule(work Work, delay time.Duration, state any) *Action
}

type actionQueue interface {
	enqueue(a *Action, delay time.Duration)
	dequeue(a *Action)
}

// Action is a unit of scheduled work. It is a Subscription: unsubscribing it
// removes it from its scheduler's queue before it fires.
type Action struct {
	Subscription

	queue actionQueue
	work  Work
	cfg   *Config

	mu      sync.Mutex
	pending bool
	state   any

	// owned by the scheduler's lock
	due   time.Time
	seq   uint64
	index int
}

func newAction(q actionQueue, work Work) *Action {
	a := &Action{
		queue: q,
		work:  work,
		cfg:   CurrentConfig(),
		index: -1,
	}
	a.initial = func() {
		a.mu.Lock()
		a.pending = false
		a.mu.Unlock()

		q.dequeue(a)
	}
	return a
}

// Schedule (re)queues the action with a new state. The same Action is reused
// so a caller holding it can cancel a recursive chain with one Unsubscribe.
func (a *Action) Schedule(state any, delay time.Duration) *Action {
	if a.Closed() {
		return a
	}
	if delay < 0 {
		delay = 0
	}

	a.mu.Lock()
	a.state = state
	a.pending = true
	a.mu.Unlock()

	a.queue.enqueue(a, delay)
	return a
}

// execute runs the work once. A panic cancels the action and is reported.
func (a *Action) execute() {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	state := a.state
	a.mu.Unlock()

	if a.Closed() {
		return
	}

	if err := Try(func() { a.work(a, state) }); err != nil {
		a.release()
		a.cfg.ReportUnhandled(err)
		return
	}

	a.mu.Lock()
	again := a.pending
	a.mu.Unlock()

	if !again {
		a.release()
	}
}

func (a *Action) release() {
	if err := a.Unsubscribe(); err != nil {
		a.cfg.ReportUnhandled(err)
	}
}
