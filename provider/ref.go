package provider

import "fmt"

// Ref is the capability a factory receives for reading other cells, updating
// its own cell later on, and deriving from parents.
type Ref[T any] struct {
	cell *Cell[T]
}

// Cell returns the cell this ref belongs to.
func (r *Ref[T]) Cell() *Cell[T] {
	return r.cell
}

// Update updates the owning cell. It fails while the factory is still running.
func (r *Ref[T]) Update(fn func(current T) T) error {
	if r.cell.initializing {
		return fmt.Errorf("%s: %w", r.cell.name, ErrInitializing)
	}
	return r.cell.Update(fn)
}

// ReadFrom reads another cell without subscribing to it.
func ReadFrom[U, T any](ref *Ref[T], other *Cell[U]) (U, error) {
	return other.Read()
}

// Watch links the ref's cell to parent: every parent update re-runs combine
// with the new parent value and the child's current value. Watching the same
// parent again replaces the earlier link. Links that would close a cycle are
// refused with a *CycleError.
func Watch[U, T any](ref *Ref[T], parent *Cell[U], combine func(parentValue U, current T) T) error {
	return link(ref.cell, parent, combine)
}

// dependency is the edge from a derived cell to one of its parents. It owns
// the parent subscription; only the child tears it down.
type dependency struct {
	parent      CellID
	child       CellID
	unsubscribe func()
}

func link[U, T any](child *Cell[T], parent *Cell[U], combine func(U, T) T) error {
	if child.rt != parent.rt {
		return fmt.Errorf("linking %s to %s: %w", child.name, parent.name, ErrForeignRuntime)
	}
	if path := child.rt.dependencyPath(parent.id, child.id); path != nil {
		return &CycleError{Path: append([]string{child.name}, child.rt.names(path)...)}
	}

	if old, ok := child.dependencies[parent.id]; ok {
		old.unsubscribe()
	}

	d := &dependency{parent: parent.id, child: child.id}
	d.unsubscribe = parent.Watch(func(parentValue U) {
		err := child.Update(func(current T) T {
			return combine(parentValue, current)
		})
		if err != nil {
			child.rt.report(child, err)
		}
	}, Immediate(false))
	child.dependencies[parent.id] = d

	child.rt.registry.AddDependency(child, parent)
	return nil
}

// RefOf returns a ref for c, for installing links from outside a factory.
func RefOf[T any](c *Cell[T]) *Ref[T] {
	return &Ref[T]{cell: c}
}
