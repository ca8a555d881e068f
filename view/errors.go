package view

import "fmt"

// AbstractViewError is returned when a bare *Base is assembled.
type AbstractViewError struct{}

func (e *AbstractViewError) Error() string {
	return "view.Base cannot be assembled on its own, embed it in a view type"
}

// HookError reports a hook that returned no element.
type HookError struct {
	// Hook is the name of the offending hook, e.g. "StyledView".
	Hook string
	// View is the type name of the view.
	View string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s.%s must return an element", e.View, e.Hook)
}

// Outcome says where a rebuilt or mounted element ended up.
type Outcome int

const (
	// Attached means the element is in the live tree.
	Attached Outcome = iota
	// NotFound means the target (the live element for a rebuild, the container
	// for a mount) could not be located, so nothing was attached.
	NotFound
	// Detached means the view was never assembled or its element has no parent.
	Detached
)

func (o Outcome) String() string {
	switch o {
	case Attached:
		return "attached"
	case NotFound:
		return "not found"
	case Detached:
		return "detached"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
