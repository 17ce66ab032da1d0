// Package rx is a push-based reactive stream library.
//
// An Observable is a lazy description of a sequence. Subscribing runs it and
// returns a Subscription that tears the execution down again. Operators are
// plain functions from one Observable to another, composed with Pipe.
// Subjects multicast one producer to many subscribers, and Schedulers decide
// when deferred work runs.
//
// Notifications to a single subscriber must be delivered serially. Operators
// keep their state without locks, so a source that emits from several
// goroutines should be funnelled through ObserveOn first.
package rx

import "github.com/AnatoleLucet/rx/internal"

// Teardown is anything that can be released: a Subscription, a Subscriber,
// a scheduled Action or a TeardownFunc.
type Teardown = internal.Teardown

// TeardownFunc adapts a function to a Teardown.
type TeardownFunc = internal.TeardownFunc

// UnsubscriptionError collects the failures of every finalizer that failed
// during one Unsubscribe call.
type UnsubscriptionError = internal.UnsubscriptionError

// ErrObjectUnsubscribed is reported when a subject is used after
// Unsubscribe.
var ErrObjectUnsubscribed = internal.ErrObjectUnsubscribed

// Subscription is a handle on a running execution and the resources it
// holds.
type Subscription interface {
	Teardown

	// Closed reports whether the subscription has been released.
	Closed() bool

	// Add attaches a teardown to run when this subscription is released.
	// If it is already released, the teardown runs immediately.
	Add(t Teardown)

	// Remove detaches a previously added subscription without running it.
	Remove(t Teardown)
}

// NewSubscription creates a subscription that runs teardown when released.
func NewSubscription(teardown func()) Subscription {
	return internal.NewSubscription(teardown)
}
