package rx

import (
	"time"

	"github.com/AnatoleLucet/rx/internal"
)

// Scheduler is a logical clock plus a queue of deferred work.
type Scheduler = internal.Scheduler

// Action is a scheduled unit of work. Unsubscribing it removes it from its
// scheduler's queue; once it has run it closes itself unless it rescheduled.
type Action = internal.Action

// Work is the body of an Action.
type Work = internal.Work

// TimestampProvider is the clock half of a Scheduler.
type TimestampProvider interface {
	Now() time.Time
}

type (
	QueueScheduler       = internal.QueueScheduler
	AsapScheduler        = internal.AsapScheduler
	AsyncScheduler       = internal.AsyncScheduler
	VirtualTimeScheduler = internal.VirtualTimeScheduler
)

var (
	// Queue runs work synchronously, trampolining nested schedules.
	Queue = internal.NewQueueScheduler()

	// Asap runs work as soon as possible on a separate goroutine.
	Asap = internal.NewAsapScheduler()

	// Async runs work after its delay on a timer.
	Async = internal.NewAsyncScheduler()
)

// NewVirtualTimeScheduler returns a scheduler whose clock only moves on
// Flush, AdvanceBy or AdvanceTo. It makes time-based code deterministic.
func NewVirtualTimeScheduler() *VirtualTimeScheduler {
	return internal.NewVirtualTimeScheduler()
}

// VirtualEpoch is the Now() of a VirtualTimeScheduler at frame zero.
var VirtualEpoch = internal.VirtualEpoch
