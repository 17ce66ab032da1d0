package internal

import (
	"math"
	"sync"
	"time"
)

var VirtualEpoch = time.Unix(0, 0).UTC()

// VirtualTimeScheduler only moves its clock when told to. Scheduling never
// runs anything; Flush, AdvanceBy and AdvanceTo execute the due actions on
// the calling goroutine in (due, insertion) order.
type VirtualTimeScheduler struct {
	// MaxFrames bounds Flush. Actions due later stay queued.
	MaxFrames time.Duration

	mu    sync.Mutex
	frame time.Duration
	seq   uint64
	queue actionHeap
}

func NewVirtualTimeScheduler() *VirtualTimeScheduler {
	return &VirtualTimeScheduler{MaxFrames: math.MaxInt64}
}

func (s *VirtualTimeScheduler) Now() time.Time {
	return VirtualEpoch.Add(s.Frame())
}

func (s *VirtualTimeScheduler) Frame() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *VirtualTimeScheduler) Schedule(work Work, delay time.Duration, state any) *Action {
	return newAction(s, work).Schedule(state, delay)
}

func (s *VirtualTimeScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Flush stops the clock at the last executed action.
func (s *VirtualTimeScheduler) Flush() {
	s.run(s.MaxFrames)
}

func (s *VirtualTimeScheduler) AdvanceTo(frame time.Duration) {
	s.run(frame)

	s.mu.Lock()
	if frame > s.frame {
		s.frame = frame
	}
	s.mu.Unlock()
}

func (s *VirtualTimeScheduler) AdvanceBy(d time.Duration) {
	s.AdvanceTo(s.Frame() + d)
}

func (s *VirtualTimeScheduler) run(limit time.Duration) {
	for {
		s.mu.Lock()
		head := s.queue.peek()
		if head == nil || head.due.Sub(VirtualEpoch) > limit {
			s.mu.Unlock()
			return
		}
		a := s.queue.pop()
		s.frame = a.due.Sub(VirtualEpoch)
		s.mu.Unlock()

		a.execute()
	}
}

func (s *VirtualTimeScheduler) enqueue(a *Action, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	a.seq = s.seq
	a.due = VirtualEpoch.Add(s.frame + delay)
	s.queue.upsert(a)
}

func (s *VirtualTimeScheduler) dequeue(a *Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.remove(a)
}
