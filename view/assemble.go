package view

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/delaneyj/signalview/surface"
)

// DefaultContainerID is the container Mount attaches to when none is given.
const DefaultContainerID = "fTutteS-Container"

// ClassNameKey is the data attribute carrying the view's type name.
const ClassNameKey = "view-class-name"

// Assemble runs the full lifecycle of v and its subtree and returns v's
// rendered element. The element is not attached anywhere. On error every
// child built for this pass is disposed.
func Assemble(v View, s surface.Surface) (surface.Element, error) {
	if _, ok := v.(*Base); ok {
		return nil, &AbstractViewError{}
	}
	b := v.base()
	b.setCache(nil)
	b.self = v
	b.surface = s
	b.disposed = false

	v.Initialize()
	v.PreBuild()
	children := v.Build()
	v.PostBuild()
	v.Terminate()

	el, err := wrap(v, s)
	if err == nil {
		if DevMode() {
			annotate(v, s, el)
		}
		b.setCache(el.Clone())
		if err = attachChildren(el, children, s); err != nil {
			s.Release(el)
		}
	}
	if err != nil {
		discard(children, b.children)
		return nil, err
	}
	stamp(v, el)

	discard(b.children, children)
	b.children = children
	b.element = el
	return el, nil
}

// Rebuild re-runs PreBuild, Build and PostBuild, assembles the new children
// onto a clone of the cached element and swaps it for the live element with
// the same id. Children that are not part of the new build are disposed. A
// failed rebuild leaves the live element and children in place and disposes
// whatever the failed build produced.
func (b *Base) Rebuild() (Outcome, error) {
	v := b.self
	if v == nil || b.cache == nil {
		return Detached, nil
	}
	live, ok := b.surface.Lookup(b.ID())
	if !ok {
		return NotFound, nil
	}

	v.PreBuild()
	children := v.Build()

	clone := b.cache.Clone()
	fail := func(err error) (Outcome, error) {
		b.surface.Release(clone)
		discard(children, b.children)
		v.PostBuild()
		return Detached, err
	}

	fresh := v.EmbedBehavior(clone)
	if missing(fresh) {
		return fail(&HookError{Hook: "EmbedBehavior", View: typeName(v)})
	}
	if fresh != clone {
		if clone.Parent() == nil {
			b.surface.Release(clone)
		}
		clone = fresh
	}
	if err := attachChildren(fresh, children, b.surface); err != nil {
		return fail(err)
	}
	stamp(v, fresh)

	if err := live.ReplaceWith(fresh); err != nil {
		if errors.Is(err, surface.ErrDetached) {
			return fail(nil)
		}
		return fail(fmt.Errorf("swapping %s: %w", typeName(v), err))
	}
	b.surface.Release(live)

	previous := b.children
	b.children = children
	b.element = fresh
	discard(previous, children)

	v.PostBuild()
	AssembleComplete(v)
	return Attached, nil
}

// AssembleComplete walks the current children depth first, running each
// child's subtree before its own OnAssembleComplete.
func AssembleComplete(v View) {
	for _, child := range v.base().children {
		if child == nil {
			continue
		}
		AssembleComplete(child)
		child.OnAssembleComplete()
	}
}

// Dispose tears down the subtree: children first, then OnDispose, then the
// disposers registered with AddDisposer.
func Dispose(v View) {
	b := v.base()
	if b.disposed {
		return
	}
	for _, child := range b.children {
		if child != nil {
			Dispose(child)
		}
	}
	v.OnDispose()

	b.disposed = true
	for i := len(b.disposers) - 1; i >= 0; i-- {
		b.disposers[i]()
	}
	b.disposers = nil
	b.setCache(nil)
}

// Mount assembles root, attaches it under the container with the given id and
// runs the completion callbacks. A missing container is reported as NotFound;
// the tree is still assembled and completed.
func Mount(root View, s surface.Surface, containerID string) (surface.Element, Outcome, error) {
	el, err := Assemble(root, s)
	if err != nil {
		return nil, Detached, err
	}
	if containerID == "" {
		containerID = DefaultContainerID
	}

	outcome := NotFound
	if container, ok := s.Lookup(containerID); ok {
		container.AppendChild(el)
		outcome = Attached
	}
	AssembleComplete(root)
	return el, outcome, nil
}

func wrap(v View, s surface.Surface) (surface.Element, error) {
	created := v.CreateWrapView(s)
	if missing(created) {
		return nil, &HookError{Hook: "CreateWrapView", View: typeName(v)}
	}
	el := v.StyledView(created)
	if missing(el) {
		s.Release(created)
		return nil, &HookError{Hook: "StyledView", View: typeName(v)}
	}
	styled := el
	el = v.EmbedBehavior(styled)
	if missing(el) {
		s.Release(created)
		if styled != created {
			s.Release(styled)
		}
		return nil, &HookError{Hook: "EmbedBehavior", View: typeName(v)}
	}
	return el, nil
}

func attachChildren(parent surface.Element, children []View, s surface.Surface) error {
	for _, child := range children {
		if child == nil {
			continue
		}
		el, err := Assemble(child, s)
		if err != nil {
			return err
		}
		parent.AppendChild(el)
	}
	return nil
}

// discard disposes the views of previous that are not part of current.
func discard(previous, current []View) {
	for _, old := range previous {
		if old != nil && !contains(current, old) {
			Dispose(old)
		}
	}
}

func stamp(v View, el surface.Element) {
	el.SetID(v.base().ID())
	el.SetData(ClassNameKey, typeName(v))
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func missing(el surface.Element) bool {
	if el == nil {
		return true
	}
	rv := reflect.ValueOf(el)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func contains(views []View, v View) bool {
	for _, other := range views {
		if other == v {
			return true
		}
	}
	return false
}
