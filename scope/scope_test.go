package scope_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/signalview/observer"
	"github.com/delaneyj/signalview/provider"
	"github.com/delaneyj/signalview/scope"
	"github.com/delaneyj/signalview/surface"
	"github.com/delaneyj/signalview/surface/dom"
	"github.com/delaneyj/signalview/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type text struct {
	view.Base
	value string
}

func (t *text) CreateWrapView(s surface.Surface) surface.Element {
	el := s.CreateElement("span")
	el.SetText(t.value)
	return el
}

// counting renders nothing of its own and counts how often it is built.
type counting struct {
	view.Base
	builds int
}

func (c *counting) Build() []view.View {
	c.builds++
	return nil
}

type column struct {
	view.Base
	children []view.View
}

func (c *column) Build() []view.View { return c.children }

func newRuntime() *provider.Runtime {
	return provider.NewRuntime(provider.WithObserver(observer.New(observer.WithOutput(false))))
}

func mount(t *testing.T, root view.View) *dom.Document {
	t.Helper()
	doc := dom.New()
	doc.Container("app")
	_, outcome, err := view.Mount(root, doc, "app")
	require.NoError(t, err)
	require.Equal(t, view.Attached, outcome)
	return doc
}

func TestScopeRebuildsOncePerUpdate(t *testing.T) {
	rt := newRuntime()
	c1 := provider.Of(rt, 0)
	c2 := provider.Of(rt, "x")

	child := &counting{}
	s := scope.New([]scope.Listenable{c1, c2}, child)
	s.OnError = func(err error) { assert.FailNow(t, err.Error()) }
	mount(t, s)
	require.Equal(t, 1, child.builds)

	require.NoError(t, c1.Update(func(v int) int { return v + 1 }))
	assert.Equal(t, 2, child.builds)
	require.NoError(t, c2.Set("y"))
	assert.Equal(t, 3, child.builds)
	require.NoError(t, c1.Set(10))
	require.NoError(t, c1.Set(10))
	assert.Equal(t, 5, child.builds)

	assert.Len(t, s.Cells(), 2)
	assert.Same(t, child, s.Children()[0])
}

func TestScopeDisposeReleasesSubscriptions(t *testing.T) {
	rt := newRuntime()
	c := provider.Of(rt, 0)
	child := &counting{}
	s := scope.New([]scope.Listenable{c}, child)
	mount(t, s)
	require.Equal(t, 1, c.ListenerCount())

	view.Dispose(s)
	assert.Equal(t, 0, c.ListenerCount())

	require.NoError(t, c.Set(1))
	assert.Equal(t, 1, child.builds)
}

func TestScopeBeforeMountIsQuiet(t *testing.T) {
	rt := newRuntime()
	c := provider.Of(rt, 0)
	child := &counting{}
	var errs []error
	s := scope.New([]scope.Listenable{c}, child)
	s.OnError = func(err error) { errs = append(errs, err) }

	require.NoError(t, c.Set(1))
	assert.Equal(t, 0, child.builds)
	assert.Empty(t, errs)
}

func TestLimitedScopeScenario(t *testing.T) {
	rt := newRuntime()
	userName := provider.Of(rt, "guest", provider.Named("userName"))

	builds := 0
	limited := scope.Limited1(userName, func(name string) view.View {
		builds++
		return &text{value: name}
	})
	sibling := &text{value: "sibling"}
	root := &column{children: []view.View{sibling, limited}}
	doc := mount(t, root)

	siblingEl := sibling.Element()
	require.Equal(t, 1, builds)
	assert.Equal(t, "guest", limited.Element().Text())

	require.NoError(t, userName.Update(func(string) string { return "alice" }))

	assert.Equal(t, 2, builds)
	assert.Equal(t, "alice", limited.Element().Text())

	found, ok := doc.Lookup(limited.ID())
	require.True(t, ok)
	assert.Same(t, limited.Element(), found)
	assert.Equal(t, "alice", found.Text())

	// the sibling subtree is untouched
	assert.Same(t, siblingEl, sibling.Element())
	stillThere, ok := doc.Lookup(sibling.ID())
	require.True(t, ok)
	assert.Same(t, siblingEl, stillThere)
	assert.Equal(t, "sibling", stillThere.Text())
	assert.Equal(t, "siblingalice", root.Element().Text())
}

func TestLimitedValuesFollowCellOrder(t *testing.T) {
	rt := newRuntime()
	a := provider.Of(rt, 1)
	b := provider.Of(rt, "b")
	c := provider.Of(rt, true)

	var seen [][]any
	var hooks []string
	l := scope.NewLimited([]scope.Listenable{c, a, b}, func(values []any) view.View {
		seen = append(seen, values)
		return &text{value: fmt.Sprint(values...)}
	})
	l.OnPreBuild = func() { hooks = append(hooks, "pre") }
	l.OnPostBuild = func() { hooks = append(hooks, "post") }
	mount(t, l)

	require.NoError(t, a.Set(2))
	require.NoError(t, b.Set("B"))

	assert.Equal(t, [][]any{
		{true, 1, "b"},
		{true, 2, "b"},
		{true, 2, "B"},
	}, seen)
	assert.Equal(t, []string{"pre", "post", "pre", "post", "pre", "post"}, hooks)
}

func TestTypedLimited(t *testing.T) {
	rt := newRuntime()
	first := provider.Of(rt, "Ada")
	last := provider.Of(rt, "Lovelace")
	age := provider.Of(rt, 36)
	missing := provider.Of[error](rt, nil)

	l := scope.Limited4(first, last, age, missing, func(f, l string, a int, err error) view.View {
		return &text{value: fmt.Sprintf("%s %s (%d) %v", f, l, a, err)}
	})
	mount(t, l)
	assert.Equal(t, "Ada Lovelace (36) <nil>", l.Element().Text())

	require.NoError(t, age.Set(37))
	assert.Equal(t, "Ada Lovelace (37) <nil>", l.Element().Text())
}

func TestLimitedReadErrors(t *testing.T) {
	rt := newRuntime()
	boom := errors.New("boom")
	ok := provider.Of(rt, 1)
	bad := provider.Create(rt, func(*provider.Ref[int]) (int, error) {
		return 0, boom
	}, provider.Named("bad"))

	var errs []error
	built := 0
	l := scope.NewLimited([]scope.Listenable{ok, bad}, func([]any) view.View {
		built++
		return &text{}
	})
	l.OnError = func(err error) { errs = append(errs, err) }
	mount(t, l)

	assert.Equal(t, 0, built)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Contains(t, errs[0].Error(), "reading bad")
	assert.Empty(t, l.Element().Children())
}

func TestNotifierInScope(t *testing.T) {
	rt := newRuntime()
	n := provider.NewNotifier(rt, func() int { return 0 })

	l := scope.Limited1(n.Cell(), func(v int) view.View {
		return &text{value: fmt.Sprint(v)}
	})
	mount(t, l)

	n.Update(func(v int) int { return v + 5 })
	assert.Equal(t, "5", l.Element().Text())
}

// hollow has no element when broken is set.
type hollow struct {
	view.Base
	broken bool
}

func (h *hollow) CreateWrapView(s surface.Surface) surface.Element {
	if h.broken {
		return nil
	}
	return s.CreateElement("div")
}

func TestFailedRebuildReleasesNestedScopes(t *testing.T) {
	rt := newRuntime()
	trigger := provider.Of(rt, 0)
	other := provider.Of(rt, "x")

	var errs []error
	outer := scope.Limited1(trigger, func(v int) view.View {
		inner := scope.Limited1(other, func(s string) view.View {
			return &text{value: s}
		})
		return &column{children: []view.View{inner, &hollow{broken: v%2 == 1}}}
	})
	outer.OnError = func(err error) { errs = append(errs, err) }
	mount(t, outer)
	require.Equal(t, 1, other.ListenerCount())

	for i := 1; i <= 6; i++ {
		require.NoError(t, trigger.Set(i))
		assert.Equal(t, 1, other.ListenerCount(), "after update %d", i)
	}
	require.Len(t, errs, 3)
	var hookErr *view.HookError
	assert.ErrorAs(t, errs[0], &hookErr)

	require.NoError(t, other.Set("y"))
	assert.Equal(t, "y", outer.Element().Text())
}
