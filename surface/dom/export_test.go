package dom

// Interned reports how many element wrappers the document holds.
func (d *Document) Interned() int {
	return len(d.elements)
}
