package provider

import (
	"fmt"
	"sort"

	"github.com/delaneyj/signalview/observer"
)

// Factory computes the initial value of a cell. It runs on the first read,
// not at creation.
type Factory[T any] func(ref *Ref[T]) (T, error)

type CellOption func(*cellOptions)

type cellOptions struct {
	name    string
	noTrace bool
}

// Named gives the cell an explicit diagnostic name.
func Named(name string) CellOption {
	return func(o *cellOptions) {
		o.name = name
	}
}

// WithoutLogging starts the cell with update recording disabled.
func WithoutLogging() CellOption {
	return func(o *cellOptions) {
		o.noTrace = true
	}
}

type WatchOption func(*watchOptions)

type watchOptions struct {
	immediate bool
}

// Immediate controls whether a new listener fires with the current value
// before Watch returns. The default is true.
func Immediate(immediate bool) WatchOption {
	return func(o *watchOptions) {
		o.immediate = immediate
	}
}

type listener[T any] struct {
	fn      func(T)
	removed bool
}

// Cell is a lazily initialised value with a listener set and the dependency
// links installed by its factory.
type Cell[T any] struct {
	rt           *Runtime
	id           CellID
	name         string
	factory      Factory[T]
	value        T
	initialized  bool
	initializing bool
	listeners    []*listener[T]
	dependencies map[CellID]*dependency
	logging      bool
}

// Create registers a cell on rt. The factory is not run until the first read.
func Create[T any](rt *Runtime, factory Factory[T], opts ...CellOption) *Cell[T] {
	o := cellOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	id := nextCellID()
	name := o.name
	if name == "" {
		name = generatedName(id)
	}

	c := &Cell[T]{
		rt:           rt,
		id:           id,
		name:         name,
		factory:      factory,
		dependencies: map[CellID]*dependency{},
		logging:      !o.noTrace,
	}
	rt.register(c)
	return c
}

// Of creates a cell whose factory returns v.
func Of[T any](rt *Runtime, v T, opts ...CellOption) *Cell[T] {
	return Create(rt, func(*Ref[T]) (T, error) {
		return v, nil
	}, opts...)
}

func (c *Cell[T]) ID() CellID        { return c.id }
func (c *Cell[T]) Name() string      { return c.name }
func (c *Cell[T]) Runtime() *Runtime { return c.rt }
func (c *Cell[T]) Initialized() bool { return c.initialized }

// Read returns the current value, running the factory on first use. A factory
// error leaves the cell uninitialised so the next Read retries.
func (c *Cell[T]) Read() (T, error) {
	if c.initialized {
		return c.value, nil
	}

	var zero T
	if c.initializing {
		return zero, &CycleError{Path: []string{c.name, c.name}}
	}

	c.initializing = true
	defer func() {
		c.initializing = false
	}()

	v, err := c.factory(&Ref[T]{cell: c})
	if err != nil {
		return zero, &FactoryError{Cell: c.name, Err: err}
	}
	c.value = v
	c.initialized = true
	return v, nil
}

// MustRead is like Read but panics on error.
func (c *Cell[T]) MustRead() T {
	v, err := c.Read()
	if err != nil {
		panic(err)
	}
	return v
}

// ReadAny returns the current value as an interface.
func (c *Cell[T]) ReadAny() (any, error) {
	return c.Read()
}

// Watch registers listener and returns a function that removes it. Removing
// twice is a no-op.
func (c *Cell[T]) Watch(listener func(T), opts ...WatchOption) (unsubscribe func()) {
	o := watchOptions{immediate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	l := c.addListener(listener)
	if o.immediate {
		v, err := c.Read()
		if err != nil {
			c.rt.report(c, err)
		} else {
			listener(v)
		}
	}
	return func() {
		c.removeListener(l)
	}
}

// Subscribe registers fn to run after every update without firing it now.
func (c *Cell[T]) Subscribe(fn func()) (unsubscribe func()) {
	return c.Watch(func(T) { fn() }, Immediate(false))
}

// Update replaces the value with fn applied to the current one, records the
// transition and notifies every listener in registration order.
func (c *Cell[T]) Update(fn func(current T) T) error {
	current, err := c.Read()
	if err != nil {
		return fmt.Errorf("updating %s: %w", c.name, err)
	}
	next := fn(current)

	if c.logging {
		c.rt.registry.LogUpdate(c, current, next)
	}

	c.value = next
	c.notify(next)
	return nil
}

// Set is shorthand for an update that ignores the current value.
func (c *Cell[T]) Set(v T) error {
	return c.Update(func(T) T { return v })
}

// UnsubscribeDependency releases the link to parent if this cell has one.
func (c *Cell[T]) UnsubscribeDependency(parent observer.Subject) {
	d, ok := c.dependencies[parent.ID()]
	if !ok {
		return
	}
	d.unsubscribe()
	delete(c.dependencies, parent.ID())
	if c.logging {
		c.rt.registry.DeleteDependency(c, parent)
	}
}

// Dependencies returns the ids of the cells this cell currently derives from.
func (c *Cell[T]) Dependencies() []CellID {
	return c.parentIDs()
}

// SetLogging toggles update recording for this cell. Notification is unaffected.
func (c *Cell[T]) SetLogging(enabled bool) {
	c.logging = enabled
}

func (c *Cell[T]) Logging() bool {
	return c.logging
}

func (c *Cell[T]) ListenerCount() int {
	return len(c.listeners)
}

func (c *Cell[T]) String() string {
	return fmt.Sprintf("Cell(%s#%d)", c.name, c.id)
}

func (c *Cell[T]) parentIDs() []CellID {
	ids := make([]CellID, 0, len(c.dependencies))
	for id := range c.dependencies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Cell[T]) addListener(fn func(T)) *listener[T] {
	l := &listener[T]{fn: fn}
	c.listeners = append(c.listeners, l)
	return l
}

// removeListener builds a new slice so a fan-out in progress keeps iterating
// its own snapshot.
func (c *Cell[T]) removeListener(l *listener[T]) {
	if l.removed {
		return
	}
	l.removed = true

	kept := make([]*listener[T], 0, len(c.listeners))
	for _, other := range c.listeners {
		if other != l {
			kept = append(kept, other)
		}
	}
	c.listeners = kept
}

func (c *Cell[T]) notify(v T) {
	for _, l := range c.listeners {
		if l.removed {
			continue
		}
		l.fn(v)
	}
}
