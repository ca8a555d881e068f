// Package surface describes the host element tree views are assembled onto.
// Implementations own element identity, attributes and event dispatch; views
// only ever talk to these interfaces.
package surface

import "errors"

// ErrDetached is returned when an operation needs an element to have a parent.
var ErrDetached = errors.New("element is not attached")

// Surface creates elements and finds attached elements by id.
type Surface interface {
	CreateElement(kind string) Element
	// Lookup returns the element with the given id that is reachable from the
	// surface root. Detached elements are never found.
	Lookup(id string) (Element, bool)
	// Release drops the surface's bookkeeping for a detached element and its
	// subtree. Attached elements are left alone.
	Release(el Element)
}

// Element is a node of the host tree.
type Element interface {
	Kind() string

	ID() string
	SetID(id string)

	// SetStyle sets one style property, replacing an earlier value for the key.
	SetStyle(key, value string)
	Style(key string) string

	// SetData sets a data-* attribute.
	SetData(key, value string)
	Data(key string) string

	SetText(text string)
	Text() string

	On(event string, fn func()) (off func())
	Dispatch(event string)

	AppendChild(child Element)
	RemoveChild(child Element)
	// ReplaceWith puts replacement where this element is. The receiver ends up
	// detached.
	ReplaceWith(replacement Element) error
	Children() []Element
	Parent() Element

	// Clone deep copies the element and its subtree, without event listeners.
	Clone() Element
}
