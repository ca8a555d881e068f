package provider_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/signalview/observer"
	"github.com/delaneyj/signalview/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) (*provider.Runtime, *observer.Registry) {
	t.Helper()
	reg := observer.New(observer.WithOutput(false), observer.WithStackTraces(false))
	rt := provider.NewRuntime(
		provider.WithObserver(reg),
		provider.WithErrorHandler(func(cell observer.Subject, err error) {
			assert.FailNow(t, fmt.Sprintf("unexpected propagation error in %s: %v", cell.Name(), err))
		}),
	)
	return rt, reg
}

func increment(v int) int { return v + 1 }

func TestReadIsLazyAndIdempotent(t *testing.T) {
	rt, _ := newRuntime(t)
	runs := 0
	c := provider.Create(rt, func(ref *provider.Ref[[]int]) ([]int, error) {
		runs++
		return []int{1, 2, 3}, nil
	})

	assert.Equal(t, 0, runs)
	assert.False(t, c.Initialized())

	first, err := c.Read()
	require.NoError(t, err)
	second, err := c.Read()
	require.NoError(t, err)

	assert.Equal(t, 1, runs)
	assert.True(t, c.Initialized())
	assert.Same(t, &first[0], &second[0])
}

func TestFactoryErrorLeavesCellRetryable(t *testing.T) {
	rt, _ := newRuntime(t)
	boom := errors.New("boom")
	attempts := 0
	c := provider.Create(rt, func(ref *provider.Ref[string]) (string, error) {
		attempts++
		if attempts == 1 {
			return "", boom
		}
		return "ok", nil
	}, provider.Named("flaky"))

	_, err := c.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var factoryErr *provider.FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, "flaky", factoryErr.Cell)
	assert.False(t, c.Initialized())

	v, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, attempts)

	assert.Panics(t, func() {
		provider.Create(rt, func(*provider.Ref[int]) (int, error) {
			return 0, boom
		}).MustRead()
	})
}

func TestWatchImmediate(t *testing.T) {
	rt, _ := newRuntime(t)
	c := provider.Of(rt, 7)

	var seen []int
	unsubscribe := c.Watch(func(v int) {
		seen = append(seen, v)
	})
	assert.Equal(t, []int{7}, seen)

	c.Watch(func(v int) {
		seen = append(seen, -v)
	}, provider.Immediate(false))
	assert.Equal(t, []int{7}, seen)

	require.NoError(t, c.Update(increment))
	assert.Equal(t, []int{7, 8, -8}, seen)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, c.ListenerCount())
	require.NoError(t, c.Update(increment))
	assert.Equal(t, []int{7, 8, -8, -9}, seen)
}

func TestUpdateNotifiesInRegistrationOrder(t *testing.T) {
	rt, _ := newRuntime(t)
	c := provider.Of(rt, 10)

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		c.Watch(func(v int) {
			order = append(order, fmt.Sprintf("%s=%d", name, v))
		}, provider.Immediate(false))
	}

	require.NoError(t, c.Update(func(v int) int { return v * 2 }))
	assert.Equal(t, []string{"a=20", "b=20", "c=20"}, order)
}

func TestListenerRemovedDuringFanOut(t *testing.T) {
	rt, _ := newRuntime(t)
	c := provider.Of(rt, 0)

	var calls []string
	var unsubscribeB func()
	c.Watch(func(int) {
		calls = append(calls, "a")
		unsubscribeB()
	}, provider.Immediate(false))
	unsubscribeB = c.Watch(func(int) {
		calls = append(calls, "b")
	}, provider.Immediate(false))

	require.NoError(t, c.Update(increment))
	assert.Equal(t, []string{"a"}, calls)
}

func TestCounterScenario(t *testing.T) {
	rt, reg := newRuntime(t)
	counter := provider.Of(rt, 0, provider.Named("counter"))

	var seen []int
	counter.Watch(func(v int) {
		seen = append(seen, v)
	}, provider.Immediate(false))

	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Update(increment))
	}

	assert.Equal(t, 3, counter.MustRead())
	assert.Equal(t, []int{1, 2, 3}, seen)

	history := reg.FilteredHistory(counter)
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[2].Old)
	assert.Equal(t, 3, history[2].New)
}

func TestLoggingToggle(t *testing.T) {
	rt, reg := newRuntime(t)
	quiet := provider.Of(rt, 0, provider.WithoutLogging())
	assert.False(t, quiet.Logging())

	notified := 0
	quiet.Watch(func(int) { notified++ }, provider.Immediate(false))
	require.NoError(t, quiet.Update(increment))
	assert.Equal(t, 1, notified)
	assert.Empty(t, reg.History())

	quiet.SetLogging(true)
	require.NoError(t, quiet.Set(5))
	require.Len(t, reg.History(), 1)
	assert.Equal(t, 5, reg.History()[0].New)
}

func TestReentrantUpdatesRunDepthFirst(t *testing.T) {
	rt, _ := newRuntime(t)
	a := provider.Of(rt, 0, provider.Named("a"))
	b := provider.Of(rt, 0, provider.Named("b"))

	var trace []string
	a.Watch(func(v int) {
		trace = append(trace, fmt.Sprintf("a1:%d", v))
		if v < 2 {
			require.NoError(t, b.Update(increment))
		}
	}, provider.Immediate(false))
	a.Watch(func(v int) {
		trace = append(trace, fmt.Sprintf("a2:%d", v))
	}, provider.Immediate(false))
	b.Watch(func(v int) {
		trace = append(trace, fmt.Sprintf("b:%d", v))
	}, provider.Immediate(false))

	require.NoError(t, a.Update(increment))
	assert.Equal(t, []string{"a1:1", "b:1", "a2:1"}, trace)
}

func TestRefUpdate(t *testing.T) {
	rt, _ := newRuntime(t)
	var captured *provider.Ref[int]
	var initErr error
	c := provider.Create(rt, func(ref *provider.Ref[int]) (int, error) {
		captured = ref
		initErr = ref.Update(increment)
		return 1, nil
	})

	assert.Equal(t, 1, c.MustRead())
	assert.ErrorIs(t, initErr, provider.ErrInitializing)
	assert.Same(t, c, captured.Cell())

	require.NoError(t, captured.Update(increment))
	assert.Equal(t, 2, c.MustRead())
}

func TestGeneratedNames(t *testing.T) {
	rt, _ := newRuntime(t)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		c := provider.Of(rt, i)
		assert.NotEmpty(t, c.Name())
		assert.LessOrEqual(t, len(c.Name()), 9)
		assert.False(t, seen[c.Name()], "duplicate name %s", c.Name())
		seen[c.Name()] = true
	}
	assert.Equal(t, "explicit", provider.Of(rt, 0, provider.Named("explicit")).Name())
	assert.Equal(t, 101, rt.Len())
}

type counter struct {
	*provider.Notifier[int]
}

func (c counter) Increment() {
	c.Update(increment)
}

func TestNotifier(t *testing.T) {
	rt, reg := newRuntime(t)
	built := 0
	c := counter{provider.NewNotifier(rt, func() int {
		built++
		return 40
	}, provider.Named("counterNotifier"))}

	notified := 0
	c.Watch(func(int) { notified++ }, provider.Immediate(false))

	c.Increment()
	c.Increment()

	assert.Equal(t, 42, c.State())
	assert.Equal(t, 1, built)
	assert.Equal(t, 2, notified)
	assert.Len(t, reg.FilteredHistory(c.Cell()), 2)
	assert.Equal(t, "counterNotifier", c.Cell().Name())
}
