package observer_test

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/delaneyj/signalview/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subject struct {
	id   uint64
	name string
}

func (s subject) ID() uint64   { return s.id }
func (s subject) Name() string { return s.name }

type widget struct {
	id string
}

func (w *widget) ViewID() string { return w.id }

func quiet(opts ...observer.Option) *observer.Registry {
	return observer.New(append([]observer.Option{observer.WithOutput(false)}, opts...)...)
}

func TestDependencyGraph(t *testing.T) {
	//  user
	//   |
	//  age   user
	//    \   /
	//   summary
	r := quiet()
	user := subject{1, "user"}
	age := subject{2, "age"}
	summary := subject{3, "summary"}

	r.AddDependency(age, user)
	r.AddDependency(summary, age)
	r.AddDependency(summary, user)
	r.AddDependency(summary, user)

	assert.Equal(t, map[string][]string{
		"age":     {"user"},
		"summary": {"age", "user"},
	}, r.DependencyGraph())
	assert.Equal(t, []uint64{1, 2}, r.Parents(summary))

	r.DeleteDependency(summary, user)
	assert.Equal(t, []string{"age"}, r.DependencyGraph()["summary"])

	// deleting an unknown edge is harmless
	r.DeleteDependency(user, summary)
	assert.Nil(t, r.Parents(user))
}

func TestDependencyGraphSharedNames(t *testing.T) {
	// item#2  item#3
	//     \    /
	//      list
	r := quiet()
	first := subject{2, "item"}
	second := subject{3, "item"}
	list := subject{4, "list"}

	r.AddDependency(list, first)
	r.AddDependency(list, second)
	r.AddDependency(first, second)

	assert.Equal(t, map[string][]string{
		"list":   {"item#2", "item#3"},
		"item#2": {"item#3"},
	}, r.DependencyGraph())
}

func TestLogUpdateHistory(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := quiet(observer.WithClock(func() time.Time { return at }))
	counter := subject{1, "counter"}
	other := subject{2, "other"}

	r.LogUpdate(counter, 0, 1)
	r.LogUpdate(other, "a", "b")
	r.LogUpdate(counter, 1, 2)

	all := r.History()
	require.Len(t, all, 3)
	assert.Equal(t, "counter", all[0].Cell)
	assert.Equal(t, 0, all[0].Old)
	assert.Equal(t, 1, all[0].New)
	assert.Equal(t, at, all[0].Timestamp)
	assert.NotEmpty(t, all[0].Stack)

	filtered := r.FilteredHistory(counter)
	require.Len(t, filtered, 2)
	assert.Equal(t, 2, filtered[1].New)

	// the returned slice is a copy
	all[0].Cell = "mutated"
	assert.Equal(t, "counter", r.History()[0].Cell)

	r.Reset()
	assert.Empty(t, r.History())
	assert.Empty(t, r.DependencyGraph())
}

func TestRedaction(t *testing.T) {
	r := quiet(observer.WithMaxPayload(64), observer.WithStackTraces(false))
	cell := subject{1, "payload"}

	big := strings.Repeat("x", 100)
	r.LogUpdate(cell, "small", big)
	r.LogUpdate(cell, &widget{id: "abc"}, func() {})

	history := r.History()
	require.Len(t, history, 2)
	assert.Equal(t, "small", history[0].Old)
	assert.Equal(t, observer.LargeObject, history[0].New)
	assert.Equal(t, "widget__viewId:abc", history[1].Old)
	assert.Equal(t, observer.LargeObject, history[1].New)
	assert.Empty(t, history[1].Stack)
}

func TestOutputToggle(t *testing.T) {
	var buf bytes.Buffer
	r := observer.New(observer.WithLogger(log.New(&buf, "", 0)))
	cell := subject{1, "counter"}

	r.LogUpdate(cell, 1, 2)
	assert.Contains(t, buf.String(), "Update: counter changed from 1 to 2")

	buf.Reset()
	r.SetOutput(false)
	assert.False(t, r.Output())
	r.LogUpdate(cell, 2, 3)
	assert.Empty(t, buf.String())
	assert.Len(t, r.History(), 2)
}

func TestQuery(t *testing.T) {
	r := quiet()
	counter := subject{1, "counter"}
	name := subject{2, "name"}
	for i := 0; i < 4; i++ {
		r.LogUpdate(counter, i, i+1)
	}
	r.LogUpdate(name, "guest", "alice")

	got, err := r.Query(`Cell == "counter" && New > 2`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].New)
	assert.Equal(t, 4, got[1].New)

	got, err = r.Query(`New == "alice"`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "name", got[0].Cell)

	_, err = r.Query("")
	assert.Error(t, err)
	_, err = r.Query("Cell ==")
	assert.Error(t, err)
}

func TestDefaultSingleton(t *testing.T) {
	observer.ClearDefault()
	t.Cleanup(observer.ClearDefault)

	first := observer.Default(observer.WithOutput(false))
	second := observer.Default()
	assert.Same(t, first, second)

	isolated := quiet()
	observer.SetDefault(isolated)
	assert.Same(t, isolated, observer.Default())

	observer.ClearDefault()
	assert.NotSame(t, isolated, observer.Default())
}

func TestWriteTables(t *testing.T) {
	r := quiet()
	a := subject{1, "a"}
	b := subject{2, "b"}
	r.AddDependency(b, a)
	r.LogUpdate(a, 1, 2)

	var buf bytes.Buffer
	r.WriteGraph(&buf)
	out := buf.String()
	assert.Contains(t, out, "DEPENDS ON")
	assert.Contains(t, out, "b")

	buf.Reset()
	r.WriteHistory(&buf)
	assert.Contains(t, buf.String(), "OLD")
}
