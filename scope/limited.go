package scope

import (
	"fmt"

	"github.com/delaneyj/signalview/view"
)

// Builder produces the subtree of a limited scope from the current cell
// values, in the order the cells were given.
type Builder func(values []any) view.View

// Limited rebuilds only the subtree its builder returns. Build reads every
// cell in order and hands the values to the builder.
type Limited struct {
	view.Base
	cells   []Listenable
	builder Builder

	OnPreBuild  func()
	OnPostBuild func()
	// OnError receives cell read and rebuild failures. The default logs them.
	OnError func(err error)
}

func NewLimited(cells []Listenable, builder Builder) *Limited {
	l := &Limited{cells: cells, builder: builder}
	subscribe(&l.Base, cells, func() {
		if _, err := l.Rebuild(); err != nil {
			l.fail(err)
		}
	})
	return l
}

func (l *Limited) PreBuild() {
	if l.OnPreBuild != nil {
		l.OnPreBuild()
	}
}

func (l *Limited) PostBuild() {
	if l.OnPostBuild != nil {
		l.OnPostBuild()
	}
}

// Build returns no children when a cell cannot be read; the error goes to
// OnError.
func (l *Limited) Build() []view.View {
	values := make([]any, len(l.cells))
	for i, c := range l.cells {
		v, err := c.ReadAny()
		if err != nil {
			l.fail(fmt.Errorf("reading %s: %w", c.Name(), err))
			return nil
		}
		values[i] = v
	}
	return []view.View{l.builder(values)}
}

func (l *Limited) Cells() []Listenable {
	return append([]Listenable(nil), l.cells...)
}

func (l *Limited) fail(err error) {
	report(l.OnError, l.ID(), err)
}

// as converts a cell value back to its static type. Nil interface values
// become the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
