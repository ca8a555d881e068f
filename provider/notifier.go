package provider

// Notifier is a state holder meant to be embedded in application types that
// expose intention revealing methods over a single cell:
//
//	type Counter struct{ *provider.Notifier[int] }
//
//	func (c Counter) Increment() { c.Update(func(v int) int { return v + 1 }) }
type Notifier[T any] struct {
	cell *Cell[T]
}

// NewNotifier creates a notifier whose initial state comes from build.
func NewNotifier[T any](rt *Runtime, build func() T, opts ...CellOption) *Notifier[T] {
	return &Notifier[T]{
		cell: Create(rt, func(*Ref[T]) (T, error) {
			return build(), nil
		}, opts...),
	}
}

// State returns the current state, building it on first use.
func (n *Notifier[T]) State() T {
	return n.cell.MustRead()
}

// Update replaces the state and notifies listeners once.
func (n *Notifier[T]) Update(fn func(T) T) {
	if err := n.cell.Update(fn); err != nil {
		panic(err)
	}
}

func (n *Notifier[T]) Watch(listener func(T), opts ...WatchOption) (unsubscribe func()) {
	return n.cell.Watch(listener, opts...)
}

// Cell exposes the backing cell, for scopes and derived cells.
func (n *Notifier[T]) Cell() *Cell[T] {
	return n.cell
}
