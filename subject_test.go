package rx

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSubject(t *testing.T) {
	boom := errors.New("boom")

	t.Run("multicasts in subscription order", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("a %d", v)) }, nil, nil)
		s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("b %d", v)) }, nil, nil)

		s.Next(1)
		s.Next(2)

		assert.Equal(t, []string{"a 1", "b 1", "a 2", "b 2"}, log)
	})

	t.Run("a subscriber joining during next misses that value", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		s.SubscribeFunc(func(v int) {
			log = append(log, fmt.Sprintf("a %d", v))
			if v == 1 {
				s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("b %d", v)) }, nil, nil)
			}
		}, nil, nil)

		s.Next(1)
		s.Next(2)

		assert.Equal(t, []string{"a 1", "a 2", "b 2"}, log)
	})

	t.Run("a subscriber leaving during next gets nothing more", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		var b Subscription
		s.SubscribeFunc(func(v int) {
			log = append(log, fmt.Sprintf("a %d", v))
			b.Unsubscribe()
		}, nil, nil)
		b = s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("b %d", v)) }, nil, nil)

		s.Next(1)
		s.Next(2)

		assert.Equal(t, []string{"a 1", "a 2"}, log)
	})

	t.Run("late subscribers only get the terminal notification", func(t *testing.T) {
		completed := NewSubject[int]()
		completed.Next(1)
		completed.Complete()

		errored := NewSubject[int]()
		errored.Error(boom)

		log := []string{}
		completed.Subscribe(record[int](&log))
		errored.Subscribe(record[int](&log))

		assert.Equal(t, []string{"complete", "error boom"}, log)
	})

	t.Run("terminal notifications are sticky", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()
		s.Subscribe(record[int](&log))

		s.Complete()
		s.Next(1)
		s.Error(boom)
		s.Complete()

		assert.Equal(t, []string{"complete"}, log)
	})

	t.Run("observed tracks live subscribers", func(t *testing.T) {
		s := NewSubject[int]()
		assert.False(t, s.Observed())

		sub := s.Subscribe(nil)
		assert.True(t, s.Observed())

		sub.Unsubscribe()
		assert.False(t, s.Observed())
	})

	t.Run("a closed subject reports its use", func(t *testing.T) {
		errs := []error{}
		log := []string{}

		RunWithConfig(unhandled(&errs), func() {
			s := NewSubject[int]()
			s.Subscribe(record[int](&log))
			require.NoError(t, s.Unsubscribe())

			s.Next(1)
			s.Complete()
			s.Subscribe(record[int](&log))

			assert.True(t, s.Closed())
		})

		assert.Equal(t, []string{"error rx: object unsubscribed"}, log)
		require.Len(t, errs, 2)
		assert.ErrorIs(t, errs[0], ErrObjectUnsubscribed)
		assert.ErrorIs(t, errs[1], ErrObjectUnsubscribed)
	})

	t.Run("as observable hides the observer side", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		obs := s.AsObservable()
		obs.Subscribe(record[int](&log))
		s.Next(1)

		assert.Equal(t, []string{"next 1"}, log)
	})

	t.Run("concurrent subscribe, next and unsubscribe", func(t *testing.T) {
		s := NewSubject[int]()
		var total atomic.Int64
		var g errgroup.Group

		for range 8 {
			g.Go(func() error {
				for range 100 {
					sub := s.SubscribeFunc(func(v int) { total.Add(int64(v)) }, nil, nil)
					s.Next(1)
					if err := sub.Unsubscribe(); err != nil {
						return err
					}
				}
				return nil
			})
		}

		require.NoError(t, g.Wait())
		assert.GreaterOrEqual(t, total.Load(), int64(800))
		assert.False(t, s.Observed())
	})
}

func TestBehaviorSubject(t *testing.T) {
	t.Run("new subscribers get the current value first", func(t *testing.T) {
		log := []string{}
		s := NewBehaviorSubject(0)

		s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("a %d", v)) }, nil, nil)
		s.Next(1)
		s.SubscribeFunc(func(v int) { log = append(log, fmt.Sprintf("b %d", v)) }, nil, nil)
		s.Next(2)

		assert.Equal(t, []string{"a 0", "a 1", "b 1", "a 2", "b 2"}, log)
		assert.Equal(t, 2, s.Value())
	})

	t.Run("get value returns the error", func(t *testing.T) {
		boom := errors.New("boom")
		s := NewBehaviorSubject(1)

		v, err := s.GetValue()
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		s.Error(boom)
		_, err = s.GetValue()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("get value on a closed subject", func(t *testing.T) {
		s := NewBehaviorSubject(1)
		s.Unsubscribe()

		_, err := s.GetValue()
		assert.ErrorIs(t, err, ErrObjectUnsubscribed)
	})

	t.Run("a completed subject does not replay its value", func(t *testing.T) {
		log := []string{}
		s := NewBehaviorSubject(1)
		s.Complete()
		s.Next(2)

		s.Subscribe(record[int](&log))

		assert.Equal(t, []string{"complete"}, log)
		assert.Equal(t, 1, s.Value())
	})
}

func TestReplaySubject(t *testing.T) {
	t.Run("replays the last values within the buffer size", func(t *testing.T) {
		log := []string{}
		s := NewReplaySubject[int](WithBufferSize(2))

		s.Next(1)
		s.Next(2)
		s.Next(3)
		s.Subscribe(record[int](&log))
		s.Next(4)

		assert.Equal(t, []string{"next 2", "next 3", "next 4"}, log)
	})

	t.Run("unbounded by default", func(t *testing.T) {
		log := []string{}
		s := NewReplaySubject[int]()

		for i := range 5 {
			s.Next(i)
		}
		s.Subscribe(record[int](&log))

		assert.Len(t, log, 5)
	})

	t.Run("drops values outside the window", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}
		s := NewReplaySubject[int](WithWindowTime(10*time.Millisecond), WithTimestampProvider(vs))

		s.Next(1)
		vs.AdvanceBy(5 * time.Millisecond)
		s.Next(2)
		vs.AdvanceBy(5 * time.Millisecond)

		s.Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 2"}, log)
	})

	t.Run("replays the buffer before the terminal notification", func(t *testing.T) {
		boom := errors.New("boom")

		completed := NewReplaySubject[int]()
		completed.Next(1)
		completed.Complete()

		errored := NewReplaySubject[int]()
		errored.Next(2)
		errored.Error(boom)

		log := []string{}
		completed.Subscribe(record[int](&log))
		errored.Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "complete", "next 2", "error boom"}, log)
	})

	t.Run("stops replaying once the subscriber is released", func(t *testing.T) {
		log := []string{}
		s := NewReplaySubject[int]()
		s.Next(1)
		s.Next(2)
		s.Next(3)

		s.AsObservable().Pipe(Take[int](2)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "next 2", "complete"}, log)
		assert.False(t, s.Observed())
	})
}

func TestAsyncSubject(t *testing.T) {
	t.Run("emits the last value on completion", func(t *testing.T) {
		log := []string{}
		s := NewAsyncSubject[int]()

		s.Subscribe(record[int](&log))
		s.Next(1)
		s.Next(2)
		assert.Empty(t, log)

		s.Complete()
		s.Next(3)
		s.Complete()

		assert.Equal(t, []string{"next 2", "complete"}, log)
	})

	t.Run("late subscribers get the value and completion", func(t *testing.T) {
		log := []string{}
		s := NewAsyncSubject[int]()
		s.Next(1)
		s.Complete()

		s.Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "complete"}, log)
	})

	t.Run("completes without value when nothing was sent", func(t *testing.T) {
		log := []string{}
		s := NewAsyncSubject[int]()
		s.Subscribe(record[int](&log))

		s.Complete()

		assert.Equal(t, []string{"complete"}, log)
	})

	t.Run("a closed subject reports each use once", func(t *testing.T) {
		errs := []error{}

		RunWithConfig(unhandled(&errs), func() {
			s := NewAsyncSubject[int]()
			s.Unsubscribe()

			s.Next(1)
			s.Complete()
		})

		require.Len(t, errs, 2)
		assert.ErrorIs(t, errs[0], ErrObjectUnsubscribed)
		assert.ErrorIs(t, errs[1], ErrObjectUnsubscribed)
	})

	t.Run("an error discards the value", func(t *testing.T) {
		boom := errors.New("boom")
		log := []string{}
		s := NewAsyncSubject[int]()
		s.Subscribe(record[int](&log))

		s.Next(1)
		s.Error(boom)
		s.Subscribe(record[int](&log))

		assert.Equal(t, []string{"error boom", "error boom"}, log)
	})
}
