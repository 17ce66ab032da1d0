package rx

import "time"

type replayConfig struct {
	bufferSize int
	windowTime time.Duration
	clock      TimestampProvider
}

// ReplayOption configures a ReplaySubject.
type ReplayOption func(*replayConfig)

// WithBufferSize keeps at most n values. Zero or less keeps everything.
func WithBufferSize(n int) ReplayOption {
	return func(c *replayConfig) {
		c.bufferSize = n
	}
}

// WithWindowTime drops values older than d. Zero or less keeps them forever.
func WithWindowTime(d time.Duration) ReplayOption {
	return func(c *replayConfig) {
		c.windowTime = d
	}
}

// WithTimestampProvider sets the clock used for the window, typically a
// scheduler. Defaults to Async.
func WithTimestampProvider(clock TimestampProvider) ReplayOption {
	return func(c *replayConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

type replayEntry[T any] struct {
	value   T
	expires time.Time
}

// ReplaySubject records the values it receives, bounded by size and/or age,
// and replays them oldest first to every new subscriber before live
// notifications. The terminal notification is replayed after the buffer.
type ReplaySubject[T any] struct {
	*Subject[T]

	opts   replayConfig
	buffer []replayEntry[T]
}

func NewReplaySubject[T any](opts ...ReplayOption) *ReplaySubject[T] {
	cfg := replayConfig{clock: Async}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &ReplaySubject[T]{
		Subject: NewSubject[T](),
		opts:    cfg,
	}
}

func (r *ReplaySubject[T]) Next(value T) {
	r.mu.Lock()
	if !r.stopped {
		entry := replayEntry[T]{value: value}
		if r.opts.windowTime > 0 {
			entry.expires = r.opts.clock.Now().Add(r.opts.windowTime)
		}
		r.buffer = append(r.buffer, entry)
	}
	r.trim()
	r.mu.Unlock()

	r.Subject.Next(value)
}

func (r *ReplaySubject[T]) Subscribe(observer Observer[T]) Subscription {
	return r.AsObservable().Subscribe(observer)
}

func (r *ReplaySubject[T]) SubscribeFunc(next func(T), err func(error), complete func()) Subscription {
	return r.AsObservable().SubscribeFunc(next, err, complete)
}

func (r *ReplaySubject[T]) AsObservable() Observable[T] {
	return New(r.subscribe)
}

func (r *ReplaySubject[T]) subscribe(sub *Subscriber[T]) Teardown {
	var replay []T
	teardown, _, ok := r.register(sub, func() {
		r.trim()
		replay = make([]T, len(r.buffer))
		for i, entry := range r.buffer {
			replay[i] = entry.value
		}
	})
	if !ok {
		return nil
	}

	for _, v := range replay {
		if sub.Stopped() {
			break
		}
		sub.Next(v)
	}

	r.checkFinalized(sub)
	return teardown
}

// trim applies the size and window bounds. r.mu must be held.
func (r *ReplaySubject[T]) trim() {
	if n := r.opts.bufferSize; n > 0 && len(r.buffer) > n {
		r.buffer = append(r.buffer[:0:0], r.buffer[len(r.buffer)-n:]...)
	}

	if r.opts.windowTime <= 0 {
		return
	}

	now := r.opts.clock.Now()
	expired := 0
	for expired < len(r.buffer) && !r.buffer[expired].expires.After(now) {
		expired++
	}
	if expired > 0 {
		r.buffer = append(r.buffer[:0:0], r.buffer[expired:]...)
	}
}
