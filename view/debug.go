package view

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signalview/surface"
)

var devMode atomic.Bool

// SetDevMode turns on annotation of every assembled element with its type name
// and a background colour derived from the node id.
func SetDevMode(enabled bool) {
	devMode.Store(enabled)
}

func DevMode() bool {
	return devMode.Load()
}

func annotate(v View, s surface.Surface, el surface.Element) {
	color := debugColor(v.base().ID())

	label := s.CreateElement("div")
	label.SetStyle("background", color)
	label.SetText(typeName(v))

	el.SetStyle("background", color)
	el.AppendChild(label)
}

func debugColor(seed string) string {
	return fmt.Sprintf("#%06x", xxhash.Sum64String(seed)&0xffffff)
}
