package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/delaneyj/signalview/surface"
	"golang.org/x/net/html"
)

type handler struct {
	fn      func()
	removed bool
}

// Element wraps one html element node. Wrappers are interned per document, so
// the same node always yields the same *Element.
type Element struct {
	doc      *Document
	node     *html.Node
	handlers map[string][]*handler
}

var _ surface.Element = (*Element)(nil)

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) Kind() string {
	return e.node.Data
}

func (e *Element) ID() string {
	return attr(e.node, "id")
}

func (e *Element) SetID(id string) {
	setAttr(e.node, "id", id)
}

func (e *Element) Attr(key string) string {
	return attr(e.node, key)
}

func (e *Element) SetStyle(key, value string) {
	decls := parseStyle(attr(e.node, "style"))
	found := false
	kept := decls[:0]
	for _, d := range decls {
		if d[0] == key {
			found = true
			if value == "" {
				continue
			}
			d[1] = value
		}
		kept = append(kept, d)
	}
	if !found && value != "" {
		kept = append(kept, [2]string{key, value})
	}
	if len(kept) == 0 {
		removeAttr(e.node, "style")
		return
	}
	setAttr(e.node, "style", formatStyle(kept))
}

func (e *Element) Style(key string) string {
	for _, d := range parseStyle(attr(e.node, "style")) {
		if d[0] == key {
			return d[1]
		}
	}
	return ""
}

func (e *Element) SetData(key, value string) {
	setAttr(e.node, "data-"+key, value)
}

func (e *Element) Data(key string) string {
	return attr(e.node, "data-"+key)
}

// SetText replaces the element's own text nodes. Child elements stay.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			e.node.RemoveChild(c)
		}
		c = next
	}
	if text != "" {
		e.node.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, e.node.FirstChild)
	}
}

// Text returns the text of the element and its descendants.
func (e *Element) Text() string {
	return goquery.NewDocumentFromNode(e.node).Text()
}

func (e *Element) On(event string, fn func()) (off func()) {
	h := &handler{fn: fn}
	e.handlers[event] = append(e.handlers[event], h)
	return func() {
		if h.removed {
			return
		}
		h.removed = true
		hs := e.handlers[event]
		kept := make([]*handler, 0, len(hs))
		for _, other := range hs {
			if other != h {
				kept = append(kept, other)
			}
		}
		e.handlers[event] = kept
	}
}

func (e *Element) Dispatch(event string) {
	for _, h := range e.handlers[event] {
		if !h.removed {
			h.fn()
		}
	}
}

func (e *Element) AppendChild(child surface.Element) {
	c := e.doc.unwrap(child)
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
}

func (e *Element) RemoveChild(child surface.Element) {
	c := e.doc.unwrap(child)
	if c.node.Parent == e.node {
		e.node.RemoveChild(c.node)
	}
}

func (e *Element) ReplaceWith(replacement surface.Element) error {
	parent := e.node.Parent
	if parent == nil {
		return surface.ErrDetached
	}
	r := e.doc.unwrap(replacement)
	if r == e {
		return nil
	}
	if r.node.Parent != nil {
		r.node.Parent.RemoveChild(r.node)
	}
	parent.InsertBefore(r.node, e.node)
	parent.RemoveChild(e.node)
	return nil
}

func (e *Element) Children() []surface.Element {
	var children []surface.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, e.doc.wrap(c))
		}
	}
	return children
}

func (e *Element) Parent() surface.Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

func (e *Element) Clone() surface.Element {
	return e.doc.wrap(cloneNode(e.node))
}

func (e *Element) String() string {
	var b strings.Builder
	if err := html.Render(&b, e.node); err != nil {
		return "<" + e.node.Data + ">"
	}
	return b.String()
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

// parseStyle splits an inline style attribute into ordered declarations.
func parseStyle(s string) [][2]string {
	var decls [][2]string
	for _, part := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		decls = append(decls, [2]string{k, v})
	}
	return decls
}

func formatStyle(decls [][2]string) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	return strings.Join(parts, "; ")
}
