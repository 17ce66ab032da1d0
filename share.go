package rx

import (
	"sync"

	"github.com/AnatoleLucet/rx/internal"
)

// resetPolicy decides when a Share resets: it either calls reset right away
// or returns a pending teardown that will.
type resetPolicy func(reset func()) Teardown

func resetNow(reset func()) Teardown {
	reset()
	return nil
}

func resetOn(enabled bool) resetPolicy {
	if enabled {
		return resetNow
	}
	return nil
}

type shareConfig[T any] struct {
	connector           func() SubjectLike[T]
	resetOnError        resetPolicy
	resetOnComplete     resetPolicy
	resetOnRefCountZero resetPolicy
}

// ShareOption configures Share.
type ShareOption[T any] func(*shareConfig[T])

// WithConnector sets the factory of the multicasting subject. Defaults to
// NewSubject.
func WithConnector[T any](connector func() SubjectLike[T]) ShareOption[T] {
	return func(c *shareConfig[T]) {
		if connector != nil {
			c.connector = connector
		}
	}
}

// WithResetOnError controls whether a source error resets the share so the
// next subscriber resubscribes to the source. Defaults to true.
func WithResetOnError[T any](reset bool) ShareOption[T] {
	return func(c *shareConfig[T]) {
		c.resetOnError = resetOn(reset)
	}
}

// WithResetOnComplete controls whether source completion resets the share.
// Defaults to true.
func WithResetOnComplete[T any](reset bool) ShareOption[T] {
	return func(c *shareConfig[T]) {
		c.resetOnComplete = resetOn(reset)
	}
}

// WithResetOnRefCountZero controls whether losing the last subscriber
// releases the source and resets the share. Defaults to true.
func WithResetOnRefCountZero[T any](reset bool) ShareOption[T] {
	return func(c *shareConfig[T]) {
		c.resetOnRefCountZero = resetOn(reset)
	}
}

// WithResetOnRefCountZeroWhen delays the refcount reset until notifier
// emits. A subscriber arriving before that cancels the reset and reuses the
// running source.
func WithResetOnRefCountZeroWhen[T, N any](notifier func() Observable[N]) ShareOption[T] {
	return func(c *shareConfig[T]) {
		c.resetOnRefCountZero = func(reset func()) Teardown {
			var trigger *Subscriber[N]
			trigger = newSafeSubscriber[N](ObserverFuncs[N]{
				OnNext: func(N) {
					trigger.release()
					reset()
				},
			})
			notifier().subscribe(trigger)
			return trigger
		}
	}
}

type shareState[T any] struct {
	cfg      shareConfig[T]
	reporter *internal.Config

	mu           sync.Mutex
	connection   *Subscriber[T]
	pendingReset Teardown
	subject      SubjectLike[T]
	refCount     int
	hasCompleted bool
	hasErrored   bool
}

// Share multicasts the source through a subject shared by all current
// subscribers. The source is subscribed when the first subscriber arrives.
// By default the share resets, releasing the source and dropping the
// subject, when the source terminates or the last subscriber leaves, so the
// next subscriber starts a fresh execution.
func Share[T any](opts ...ShareOption[T]) OperatorFunc[T, T] {
	cfg := shareConfig[T]{
		connector:           func() SubjectLike[T] { return NewSubject[T]() },
		resetOnError:        resetNow,
		resetOnComplete:     resetNow,
		resetOnRefCountZero: resetNow,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(source Observable[T]) Observable[T] {
		st := &shareState[T]{cfg: cfg, reporter: internal.CurrentConfig()}
		return Operate(st.subscribe)(source)
	}
}

// ShareReplay is Share through a ReplaySubject configured by opts, so late
// subscribers receive the buffered values. Completion does not reset it.
// With refCount the source is released once nobody is subscribed.
func ShareReplay[T any](refCount bool, opts ...ReplayOption) OperatorFunc[T, T] {
	return Share(
		WithConnector(func() SubjectLike[T] { return NewReplaySubject[T](opts...) }),
		WithResetOnError[T](true),
		WithResetOnComplete[T](false),
		WithResetOnRefCountZero[T](refCount),
	)
}

func (st *shareState[T]) subscribe(source Observable[T], sub *Subscriber[T]) {
	st.mu.Lock()
	st.refCount++
	var pending Teardown
	if !st.hasErrored && !st.hasCompleted {
		pending = st.takePendingReset()
	}
	if st.subject == nil {
		st.subject = st.cfg.connector()
	}
	dest := st.subject
	st.mu.Unlock()

	st.cancelReset(pending)

	sub.Add(TeardownFunc(func() {
		st.mu.Lock()
		st.refCount--
		idle := st.refCount == 0 && !st.hasErrored && !st.hasCompleted
		st.mu.Unlock()

		if idle {
			st.schedule(st.cfg.resetOnRefCountZero, st.resetAndUnsubscribe)
		}
	}))

	dest.Subscribe(sub)

	st.mu.Lock()
	var conn *Subscriber[T]
	if st.connection == nil && st.refCount > 0 {
		conn = newSafeSubscriber[T](ObserverFuncs[T]{
			OnNext: dest.Next,
			OnError: func(err error) {
				st.terminate(func() { st.hasErrored = true })
				st.schedule(st.cfg.resetOnError, st.reset)
				dest.Error(err)
			},
			OnComplete: func() {
				st.terminate(func() { st.hasCompleted = true })
				st.schedule(st.cfg.resetOnComplete, st.reset)
				dest.Complete()
			},
		})
		st.connection = conn
	}
	st.mu.Unlock()

	if conn != nil {
		source.subscribe(conn)
	}
}

// terminate records the source outcome and cancels a pending refcount reset.
func (st *shareState[T]) terminate(mark func()) {
	st.mu.Lock()
	mark()
	pending := st.takePendingReset()
	st.mu.Unlock()

	st.cancelReset(pending)
}

// schedule applies policy to reset and keeps whatever it leaves pending.
func (st *shareState[T]) schedule(policy resetPolicy, reset func()) {
	if policy == nil {
		return
	}

	pending := policy(reset)
	if pending == nil {
		return
	}

	st.mu.Lock()
	st.pendingReset = pending
	st.mu.Unlock()
}

func (st *shareState[T]) takePendingReset() Teardown {
	pending := st.pendingReset
	st.pendingReset = nil
	return pending
}

func (st *shareState[T]) reset() {
	st.mu.Lock()
	pending := st.takePendingReset()
	st.connection = nil
	st.subject = nil
	st.hasCompleted = false
	st.hasErrored = false
	st.mu.Unlock()

	st.cancelReset(pending)
}

func (st *shareState[T]) resetAndUnsubscribe() {
	st.mu.Lock()
	conn := st.connection
	st.mu.Unlock()

	st.reset()
	if conn != nil {
		conn.release()
	}
}

func (st *shareState[T]) cancelReset(pending Teardown) {
	if pending == nil {
		return
	}
	if err := pending.Unsubscribe(); err != nil {
		st.reporter.ReportUnhandled(err)
	}
}
