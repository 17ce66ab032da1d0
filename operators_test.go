package rx

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperators(t *testing.T) {
	boom := errors.New("boom")

	t.Run("map and filter", func(t *testing.T) {
		log := []string{}

		Pipe2(
			Of(1, 2, 3, 4),
			Filter(func(v int) bool { return v%2 == 0 }),
			Map(strconv.Itoa),
		).Subscribe(record[string](&log))

		assert.Equal(t, []string{"next 2", "next 4", "complete"}, log)
	})

	t.Run("a panicking projection errors the stream", func(t *testing.T) {
		log := []string{}

		Of(1, 2).Pipe(Map(func(v int) int {
			if v == 2 {
				panic(boom)
			}
			return v
		})).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "error boom"}, log)
	})

	t.Run("map err stops at the first error", func(t *testing.T) {
		log := []string{}

		Pipe1(Of("1", "x", "3"), MapErr(strconv.Atoi)).Subscribe(record[int](&log))

		require.Len(t, log, 2)
		assert.Equal(t, "next 1", log[0])
		assert.Contains(t, log[1], `error strconv.Atoi: parsing "x"`)
	})

	t.Run("take releases the source", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		s.AsObservable().Pipe(Take[int](2)).Subscribe(record[int](&log))
		s.Next(1)
		s.Next(2)
		s.Next(3)

		assert.Equal(t, []string{"next 1", "next 2", "complete"}, log)
		assert.False(t, s.Observed())
	})

	t.Run("take zero completes immediately", func(t *testing.T) {
		log := []string{}
		s := NewSubject[int]()

		s.AsObservable().Pipe(Take[int](0)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"complete"}, log)
		assert.False(t, s.Observed())
	})

	t.Run("scan accumulates", func(t *testing.T) {
		log := []string{}

		Pipe1(Of(1, 2, 3), Scan(func(acc string, v int) string {
			return acc + strconv.Itoa(v)
		}, ">")).Subscribe(record[string](&log))

		assert.Equal(t, []string{"next >1", "next >12", "next >123", "complete"}, log)
	})

	t.Run("tap sees every notification", func(t *testing.T) {
		tapped := []string{}
		log := []string{}

		Concat(Of(1), Throw[int](boom)).Pipe(Tap[int](record[int](&tapped))).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "error boom"}, tapped)
		assert.Equal(t, tapped, log)
	})

	t.Run("finalize runs after the terminal notification", func(t *testing.T) {
		log := []string{}

		Of(1).Pipe(Finalize[int](func() { log = append(log, "finalize") })).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "complete", "finalize"}, log)
	})

	t.Run("finalize runs on unsubscribe", func(t *testing.T) {
		log := []string{}

		sub := Never[int]().Pipe(Finalize[int](func() { log = append(log, "finalize") })).Subscribe(nil)
		assert.Empty(t, log)

		sub.Unsubscribe()
		assert.Equal(t, []string{"finalize"}, log)
	})
}

func TestMergeMap(t *testing.T) {
	t.Run("bounds the number of active inner subscriptions", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}
		active, maxActive := 0, 0

		project := func(x int) Observable[int] {
			return Defer(func() Observable[int] {
				active++
				maxActive = max(maxActive, active)
				log = append(log, fmt.Sprintf("start %d at %s", x, vs.Frame()))

				return Pipe1(
					Timer(time.Duration(x)*10*time.Millisecond, vs),
					Map(func(int) int { return x }),
				).Pipe(Finalize[int](func() { active-- }))
			})
		}

		Pipe1(Of(1, 2, 3, 4), MergeMap(project, 2)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"start 1 at 0s", "start 2 at 0s"}, log)

		vs.Flush()

		assert.Equal(t, []string{
			"start 1 at 0s",
			"start 2 at 0s",
			"next 1",
			"start 3 at 10ms",
			"next 2",
			"start 4 at 20ms",
			"next 3",
			"next 4",
			"complete",
		}, log)
		assert.Equal(t, 2, maxActive)
		assert.Equal(t, 60*time.Millisecond, vs.Frame())
	})

	t.Run("unbounded merges synchronously", func(t *testing.T) {
		log := []string{}

		Pipe1(Of(1, 2), MergeMap(func(v int) Observable[int] {
			return Of(v, v*10)
		}, 0)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "next 10", "next 2", "next 20", "complete"}, log)
	})

	t.Run("waits for inner completion", func(t *testing.T) {
		log := []string{}
		inner := NewSubject[int]()

		Pipe1(Of(1), MergeMap(func(int) Observable[int] {
			return inner.AsObservable()
		}, 0)).Subscribe(record[int](&log))

		inner.Next(5)
		assert.Equal(t, []string{"next 5"}, log)

		inner.Complete()
		assert.Equal(t, []string{"next 5", "complete"}, log)
	})

	t.Run("an inner error errors the result", func(t *testing.T) {
		boom := errors.New("boom")
		log := []string{}
		other := NewSubject[int]()

		Pipe1(Of(1, 2), MergeMap(func(v int) Observable[int] {
			if v == 1 {
				return other.AsObservable()
			}
			return Throw[int](boom)
		}, 0)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"error boom"}, log)
		assert.False(t, other.Observed())
	})

	t.Run("concat map runs one inner at a time", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}

		Pipe1(Of(30, 10), ConcatMap(func(ms int) Observable[string] {
			return Map(func(int) string {
				return fmt.Sprintf("%d at %s", ms, vs.Frame())
			})(Timer(time.Duration(ms)*time.Millisecond, vs))
		})).Subscribe(record[string](&log))

		vs.Flush()

		assert.Equal(t, []string{"next 30 at 30ms", "next 10 at 40ms", "complete"}, log)
	})
}

func TestSwitchMap(t *testing.T) {
	t.Run("releases the previous inner before the next one starts", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}
		source := NewSubject[string]()

		Pipe1(source.AsObservable(), SwitchMap(func(x string) Observable[string] {
			return Defer(func() Observable[string] {
				log = append(log, "start "+x)
				return Pipe2(
					Interval(10*time.Millisecond, vs),
					Take[int](2),
					Map(func(n int) string { return fmt.Sprintf("%s%d", x, n) }),
				).Pipe(Finalize[string](func() { log = append(log, "stop "+x) }))
			})
		})).Subscribe(record[string](&log))

		source.Next("a")
		vs.AdvanceTo(15 * time.Millisecond)
		source.Next("b")
		vs.Flush()
		source.Complete()

		assert.Equal(t, []string{
			"start a",
			"next a0",
			"stop a",
			"start b",
			"next b0",
			"next b1",
			"stop b",
			"complete",
		}, log)
	})

	t.Run("completes after the source and the current inner", func(t *testing.T) {
		log := []string{}
		inner := NewSubject[int]()

		Pipe1(Of(1), SwitchMap(func(int) Observable[int] {
			return inner.AsObservable()
		})).Subscribe(record[int](&log))

		assert.Empty(t, log)

		inner.Complete()
		assert.Equal(t, []string{"complete"}, log)
	})
}

func TestCatchError(t *testing.T) {
	boom := errors.New("boom")

	t.Run("switches to the fallback", func(t *testing.T) {
		log := []string{}

		Concat(Of(1, 2), Throw[int](boom)).Pipe(
			CatchError(func(err error, _ Observable[int]) Observable[int] {
				log = append(log, fmt.Sprintf("caught %v", err))
				return Of(9)
			}),
		).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "next 2", "caught boom", "next 9", "complete"}, log)
	})

	t.Run("releases the failed source", func(t *testing.T) {
		log := []string{}
		source := NewSubject[int]()

		source.AsObservable().Pipe(
			CatchError(func(error, Observable[int]) Observable[int] { return Never[int]() }),
		).Subscribe(record[int](&log))

		assert.True(t, source.Observed())
		source.Error(boom)
		assert.False(t, source.Observed())
		assert.Empty(t, log)
	})

	t.Run("returning caught retries", func(t *testing.T) {
		log := []string{}
		attempts := 0

		source := Defer(func() Observable[int] {
			attempts++
			if attempts < 3 {
				return Throw[int](boom)
			}
			return Of(attempts)
		})

		source.Pipe(
			CatchError(func(_ error, caught Observable[int]) Observable[int] { return caught }),
		).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 3", "complete"}, log)
	})

	t.Run("a panicking selector errors the stream", func(t *testing.T) {
		log := []string{}

		Throw[int](boom).Pipe(
			CatchError(func(error, Observable[int]) Observable[int] { panic(errors.New("selector")) }),
		).Subscribe(record[int](&log))

		assert.Equal(t, []string{"error selector"}, log)
	})
}

func TestTimeout(t *testing.T) {
	t.Run("errors when a value is late", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}
		var got error
		source := NewSubject[int]()

		source.AsObservable().Pipe(Timeout[int](10*time.Millisecond, vs)).Subscribe(ObserverFuncs[int]{
			OnNext:  func(v int) { log = append(log, fmt.Sprintf("next %d at %s", v, vs.Frame())) },
			OnError: func(err error) { got = err },
		})

		vs.AdvanceTo(5 * time.Millisecond)
		source.Next(1)
		vs.AdvanceTo(14 * time.Millisecond)
		source.Next(2)
		vs.AdvanceTo(23 * time.Millisecond)
		require.NoError(t, got)

		vs.AdvanceTo(24 * time.Millisecond)

		assert.Equal(t, []string{"next 1 at 5ms", "next 2 at 14ms"}, log)
		var terr *TimeoutError
		require.ErrorAs(t, got, &terr)
		assert.Equal(t, 2, terr.Seen)
		assert.Equal(t, 10*time.Millisecond, terr.Each)
		assert.False(t, source.Observed())
	})

	t.Run("a completed source leaves no timer behind", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}

		Of(1).Pipe(Timeout[int](10*time.Millisecond, vs)).Subscribe(record[int](&log))

		assert.Equal(t, []string{"next 1", "complete"}, log)
		assert.Equal(t, 0, vs.Len())
	})
}

func TestScheduling(t *testing.T) {
	t.Run("observe on defers every notification", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}

		Of(1, 2).Pipe(ObserveOn[int](vs, 5*time.Millisecond)).Subscribe(record[int](&log))
		assert.Empty(t, log)

		vs.Flush()
		assert.Equal(t, []string{"next 1", "next 2", "complete"}, log)
		assert.Equal(t, 5*time.Millisecond, vs.Frame())
	})

	t.Run("subscribe on defers the subscription", func(t *testing.T) {
		vs := NewVirtualTimeScheduler()
		log := []string{}

		Defer(func() Observable[int] {
			log = append(log, "subscribed")
			return Of(1)
		}).Pipe(SubscribeOn[int](vs, 0)).Subscribe(record[int](&log))
		assert.Empty(t, log)

		vs.Flush()
		assert.Equal(t, []string{"subscribed", "next 1", "complete"}, log)
	})

	t.Run("observe on the async scheduler", func(t *testing.T) {
		values, err := Collect(t.Context(), Of(1, 2, 3).Pipe(ObserveOn[int](Async, 0)))

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, values)
	})
}
