// Package provider implements lazily initialised reactive cells. A cell holds one
// value, notifies its listeners synchronously on every update and may derive its
// value from other cells through watch links installed by its factory.
//
// Propagation is depth-first and unbatched: an update runs every listener to
// completion before returning, and listeners that update other cells recurse
// immediately. Cells are not safe for concurrent use.
package provider

import (
	"encoding/binary"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/signalview/observer"
)

// CellID is the stable arena token of a cell.
type CellID = uint64

var (
	cellIDs     atomic.Uint64
	processSeed = uint64(time.Now().UnixNano())
)

// ErrorHandler receives errors raised while propagating a parent update into a
// derived cell, where no caller is left to return them to.
type ErrorHandler func(cell observer.Subject, err error)

type RuntimeOption func(*Runtime)

// WithObserver sets the registry that records updates and dependencies.
func WithObserver(registry *observer.Registry) RuntimeOption {
	return func(rt *Runtime) {
		rt.registry = registry
	}
}

// WithErrorHandler replaces the handler for propagation errors.
func WithErrorHandler(fn ErrorHandler) RuntimeOption {
	return func(rt *Runtime) {
		if fn != nil {
			rt.onError = fn
		}
	}
}

// node is the untyped view of a cell held in the runtime arena.
type node interface {
	observer.Subject
	parentIDs() []CellID
}

// Runtime owns a set of cells and the registry they report to.
type Runtime struct {
	registry *observer.Registry
	nodes    map[CellID]node
	onError  ErrorHandler
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		nodes: map[CellID]node{},
		onError: func(cell observer.Subject, err error) {
			log.Printf("[provider] propagation into %s failed: %v", cell.Name(), err)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}
	if rt.registry == nil {
		rt.registry = observer.Default()
	}
	return rt
}

// Observer returns the registry this runtime reports to.
func (rt *Runtime) Observer() *observer.Registry {
	return rt.registry
}

// Len returns the number of cells created on this runtime.
func (rt *Runtime) Len() int {
	return len(rt.nodes)
}

func (rt *Runtime) register(n node) {
	rt.nodes[n.ID()] = n
}

func (rt *Runtime) report(cell observer.Subject, err error) {
	rt.onError(cell, err)
}

// dependencyPath returns the cells visited walking dependency edges from one
// cell until reaching another, both ends included, or nil if unreachable.
func (rt *Runtime) dependencyPath(from, to CellID) []CellID {
	visited := mapset.NewThreadUnsafeSet[CellID]()

	var walk func(id CellID) []CellID
	walk = func(id CellID) []CellID {
		if id == to {
			return []CellID{id}
		}
		if !visited.Add(id) {
			return nil
		}
		n, ok := rt.nodes[id]
		if !ok {
			return nil
		}
		for _, parent := range n.parentIDs() {
			if rest := walk(parent); rest != nil {
				return append([]CellID{id}, rest...)
			}
		}
		return nil
	}
	return walk(from)
}

func (rt *Runtime) names(ids []CellID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := rt.nodes[id]; ok {
			names[i] = n.Name()
		} else {
			names[i] = strconv.FormatUint(id, 10)
		}
	}
	return names
}

func nextCellID() CellID {
	return cellIDs.Add(1)
}

// generatedName derives a short base36 name from the process seed and the cell id.
func generatedName(id CellID) string {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], processSeed)
	binary.LittleEndian.PutUint64(buf[8:], id)
	name := strconv.FormatUint(xxhash.Sum64(buf[:]), 36)
	if len(name) > 9 {
		name = name[:9]
	}
	return name
}
