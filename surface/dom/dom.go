// Package dom is a surface backed by golang.org/x/net/html nodes. It keeps a
// full HTML document in memory so assembled view trees can be inspected,
// queried and serialised without a browser.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/delaneyj/signalview/surface"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is an in-memory HTML document implementing surface.Surface.
type Document struct {
	root     *html.Node
	body     *html.Node
	elements map[*html.Node]*Element
}

var _ surface.Surface = (*Document)(nil)

func New() *Document {
	root, err := html.Parse(strings.NewReader(skeleton))
	if err != nil {
		panic(fmt.Errorf("parsing document skeleton: %w", err))
	}
	d := &Document{
		root:     root,
		elements: map[*html.Node]*Element{},
	}
	d.body = goquery.NewDocumentFromNode(root).Find("body").Nodes[0]
	return d
}

// Body returns the document body.
func (d *Document) Body() *Element {
	return d.wrap(d.body)
}

// Container appends an empty div with the given id to the body.
func (d *Document) Container(id string) *Element {
	el := d.newElement("div")
	el.SetID(id)
	d.body.AppendChild(el.node)
	return el
}

func (d *Document) CreateElement(kind string) surface.Element {
	return d.newElement(kind)
}

// Lookup compares id attributes directly, so any id is found verbatim.
func (d *Document) Lookup(id string) (surface.Element, bool) {
	sel := d.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	}).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return d.wrap(sel.Nodes[0]), true
}

// Release forgets the wrappers of a detached element and its subtree. The
// wrappers stay readable; traversal from them wraps nodes afresh.
func (d *Document) Release(e surface.Element) {
	el := d.unwrap(e)
	if d.attached(el.node) {
		return
	}
	forget(d.elements, el.node)
}

func (d *Document) attached(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func forget(elements map[*html.Node]*Element, n *html.Node) {
	delete(elements, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forget(elements, c)
	}
}

// Find runs a CSS selector against the attached tree.
func (d *Document) Find(selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Find(selector)
}

// HTML serialises the whole document.
func (d *Document) HTML() string {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return ""
	}
	return b.String()
}

func (d *Document) newElement(kind string) *Element {
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     kind,
		DataAtom: atom.Lookup([]byte(kind)),
	})
}

func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n, handlers: map[string][]*handler{}}
	d.elements[n] = el
	return el
}

func (d *Document) unwrap(e surface.Element) *Element {
	el, ok := e.(*Element)
	if !ok || el.doc != d {
		panic(fmt.Sprintf("dom: element %v belongs to another surface", e))
	}
	return el
}
