// Package view assembles declarative view trees onto a render surface.
//
// A view type embeds Base and overrides the hooks it needs:
//
//	type Greeting struct {
//		view.Base
//		Name string
//	}
//
//	func (g *Greeting) CreateWrapView(s surface.Surface) surface.Element {
//		el := s.CreateElement("p")
//		el.SetText("hello " + g.Name)
//		return el
//	}
//
// Assembly order for one node is Initialize, PreBuild, Build, PostBuild and
// Terminate, then CreateWrapView, StyledView and EmbedBehavior for the node's
// own element, then the children returned by Build, in order. Rebuild re-runs
// PreBuild, Build and PostBuild only and swaps the live element in place.
package view

import (
	"github.com/delaneyj/signalview/surface"
	"github.com/google/uuid"
)

// View is a node of the view tree. Implementations embed Base, which supplies
// defaults for every hook.
type View interface {
	// CreateWrapView returns the node's own element.
	CreateWrapView(s surface.Surface) surface.Element
	// StyledView applies visual properties to the wrapper.
	StyledView(el surface.Element) surface.Element
	// EmbedBehavior attaches event listeners. It runs again on the clone made by
	// each rebuild, since clones carry no listeners.
	EmbedBehavior(el surface.Element) surface.Element
	// Build returns the children, in order. Nil entries are skipped.
	Build() []View

	Initialize()
	PreBuild()
	PostBuild()
	Terminate()
	OnAssembleComplete()
	OnDispose()

	base() *Base
}

// Base carries the assembly state of a view and no-op hook defaults.
type Base struct {
	id        string
	self      View
	surface   surface.Surface
	element   surface.Element
	cache     surface.Element
	children  []View
	disposers []func()
	disposed  bool
}

func (b *Base) base() *Base { return b }

// ID returns the node id, stamped as the element id. It is fixed for the
// lifetime of the node.
func (b *Base) ID() string {
	if b.id == "" {
		b.id = uuid.NewString()
	}
	return b.id
}

// ViewID lets diagnostics identify views without serialising them.
func (b *Base) ViewID() string {
	return b.ID()
}

// Element returns the rendered element, or nil before assembly.
func (b *Base) Element() surface.Element {
	return b.element
}

// Surface returns the surface the view was assembled onto.
func (b *Base) Surface() surface.Surface {
	return b.surface
}

// Children returns the children produced by the latest build.
func (b *Base) Children() []View {
	return append([]View(nil), b.children...)
}

// Assembled reports whether the view has been assembled at least once.
func (b *Base) Assembled() bool {
	return b.self != nil
}

func (b *Base) setCache(el surface.Element) {
	if b.cache != nil && b.surface != nil {
		b.surface.Release(b.cache)
	}
	b.cache = el
}

// AddDisposer registers cleanup to run when the view is disposed, after
// OnDispose, in reverse registration order. Registering on a disposed view runs
// cleanup immediately.
func (b *Base) AddDisposer(cleanup func()) {
	if cleanup == nil {
		return
	}
	if b.disposed {
		cleanup()
		return
	}
	b.disposers = append(b.disposers, cleanup)
}

func (b *Base) CreateWrapView(s surface.Surface) surface.Element {
	return s.CreateElement("div")
}

func (b *Base) StyledView(el surface.Element) surface.Element    { return el }
func (b *Base) EmbedBehavior(el surface.Element) surface.Element { return el }
func (b *Base) Build() []View                                    { return nil }

func (b *Base) Initialize()         {}
func (b *Base) PreBuild()           {}
func (b *Base) PostBuild()          {}
func (b *Base) Terminate()          {}
func (b *Base) OnAssembleComplete() {}
func (b *Base) OnDispose()          {}
