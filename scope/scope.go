// Package scope binds views to provider cells. A scope subscribes to its cells
// when it is created and rebuilds itself once per update of any of them.
package scope

import (
	"log"

	"github.com/delaneyj/signalview/observer"
	"github.com/delaneyj/signalview/view"
)

// Listenable is the untyped face of a cell. Every *provider.Cell[T] satisfies
// it; a notifier takes part through its Cell method.
type Listenable interface {
	observer.Subject
	Subscribe(fn func()) (unsubscribe func())
	ReadAny() (any, error)
}

// Scope rebuilds its whole child subtree whenever one of its cells updates.
type Scope struct {
	view.Base
	cells []Listenable
	child view.View

	// OnError receives rebuild failures. The default logs them.
	OnError func(err error)
}

func New(cells []Listenable, child view.View) *Scope {
	s := &Scope{cells: cells, child: child}
	subscribe(&s.Base, cells, func() {
		if _, err := s.Rebuild(); err != nil {
			s.fail(err)
		}
	})
	return s
}

func (s *Scope) Build() []view.View {
	return []view.View{s.child}
}

// Cells returns the cells the scope listens to.
func (s *Scope) Cells() []Listenable {
	return append([]Listenable(nil), s.cells...)
}

func (s *Scope) fail(err error) {
	report(s.OnError, s.ID(), err)
}

// subscribe hooks rebuild to every cell and releases the subscriptions when the
// view is disposed.
func subscribe(b *view.Base, cells []Listenable, rebuild func()) {
	for _, c := range cells {
		b.AddDisposer(c.Subscribe(rebuild))
	}
}

func report(onError func(error), id string, err error) {
	if onError != nil {
		onError(err)
		return
	}
	log.Printf("[scope] rebuild of %s failed: %v", id, err)
}
