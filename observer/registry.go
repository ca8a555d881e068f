// Package observer records the dependency graph between cells and a time ordered
// history of their updates. It is a diagnostics side channel: nothing in the
// propagation path depends on what it records.
package observer

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// DefaultMaxPayload is the encoded size above which recorded values are
// replaced with a short descriptor.
const DefaultMaxPayload = 10 * 1024

// Subject is anything the registry can record against. Cells satisfy it.
type Subject interface {
	ID() uint64
	Name() string
}

// UpdateRecord is one recorded cell transition.
type UpdateRecord struct {
	Timestamp time.Time
	ID        uint64
	Cell      string
	Old       any
	New       any
	Stack     string
}

type Option func(*Registry)

// WithLogger replaces the logger used for console diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger == nil {
			logger = log.New(io.Discard, "", 0)
		}
		r.logger = logger
	}
}

// WithOutput sets whether diagnostics are written to the logger.
func WithOutput(enabled bool) Option {
	return func(r *Registry) {
		r.output = enabled
	}
}

// WithMaxPayload sets the encoded size limit before values are redacted.
func WithMaxPayload(bytes int) Option {
	return func(r *Registry) {
		if bytes > 0 {
			r.maxPayload = bytes
		}
	}
}

// WithStackTraces toggles capturing the caller stack for every update.
func WithStackTraces(enabled bool) Option {
	return func(r *Registry) {
		r.stacks = enabled
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry holds the introspection state for a set of cells.
type Registry struct {
	mu         sync.RWMutex
	graph      map[uint64]mapset.Set[uint64]
	names      map[uint64]string
	history    []UpdateRecord
	logger     *log.Logger
	output     bool
	maxPayload int
	stacks     bool
	now        func() time.Time
}

// New creates an isolated registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		graph:      map[uint64]mapset.Set[uint64]{},
		names:      map[uint64]string{},
		logger:     log.New(os.Stderr, "[observer] ", log.LstdFlags),
		output:     true,
		maxPayload: DefaultMaxPayload,
		stacks:     true,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// SetOutput toggles console diagnostics. Recorded history is unaffected.
func (r *Registry) SetOutput(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = enabled
}

// Output reports whether console diagnostics are enabled.
func (r *Registry) Output() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.output
}

// Logf writes a diagnostic line when output is enabled.
func (r *Registry) Logf(format string, args ...any) {
	r.mu.RLock()
	enabled, logger := r.output, r.logger
	r.mu.RUnlock()
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// AddDependency records that child derives from parent.
func (r *Registry) AddDependency(child, parent Subject) {
	r.mu.Lock()
	r.names[child.ID()] = child.Name()
	r.names[parent.ID()] = parent.Name()
	parents, ok := r.graph[child.ID()]
	if !ok {
		parents = mapset.NewThreadUnsafeSet[uint64]()
		r.graph[child.ID()] = parents
	}
	parents.Add(parent.ID())
	r.mu.Unlock()

	r.Logf("Dependency added: %s depends on %s", child.Name(), parent.Name())
}

// DeleteDependency removes the child to parent edge.
func (r *Registry) DeleteDependency(child, parent Subject) {
	r.mu.Lock()
	if parents, ok := r.graph[child.ID()]; ok {
		parents.Remove(parent.ID())
	}
	r.mu.Unlock()

	r.Logf("Dependency deleted: %s unsubscribed %s", child.Name(), parent.Name())
}

// Parents returns the recorded parent ids of a cell, sorted.
func (r *Registry) Parents(child Subject) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parents, ok := r.graph[child.ID()]
	if !ok {
		return nil
	}
	ids := parents.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DependencyGraph maps each cell name to the sorted names of the cells it
// depends on. A name shared by several cells is written as name#id.
func (r *Registry) DependencyGraph() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uses := make(map[string]int, len(r.names))
	for _, name := range r.names {
		uses[name]++
	}
	label := func(id uint64) string {
		name := r.names[id]
		if uses[name] > 1 {
			return fmt.Sprintf("%s#%d", name, id)
		}
		return name
	}

	graph := make(map[string][]string, len(r.graph))
	for child, parents := range r.graph {
		names := make([]string, 0, parents.Cardinality())
		for parent := range parents.Iter() {
			names = append(names, label(parent))
		}
		sort.Strings(names)
		graph[label(child)] = names
	}
	return graph
}

// LogUpdate appends a transition of cell from oldValue to newValue.
func (r *Registry) LogUpdate(cell Subject, oldValue, newValue any) {
	r.mu.RLock()
	limit, withStack, now := r.maxPayload, r.stacks, r.now
	r.mu.RUnlock()

	oldForLog, oldSize := simplify(oldValue, limit)
	newForLog, newSize := simplify(newValue, limit)

	record := UpdateRecord{
		Timestamp: now(),
		ID:        cell.ID(),
		Cell:      cell.Name(),
		Old:       oldForLog,
		New:       newForLog,
	}
	if withStack {
		record.Stack = captureStack(3)
	}

	r.mu.Lock()
	r.names[cell.ID()] = cell.Name()
	r.history = append(r.history, record)
	r.mu.Unlock()

	r.Logf("Update: %s changed from %s to %s", record.Cell, describe(oldForLog, oldSize), describe(newForLog, newSize))
}

// History returns a copy of every recorded update in order.
func (r *Registry) History() []UpdateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]UpdateRecord, len(r.history))
	copy(out, r.history)
	return out
}

// FilteredHistory returns the updates recorded for a single cell.
func (r *Registry) FilteredHistory(cell Subject) []UpdateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []UpdateRecord
	for _, rec := range r.history {
		if rec.ID == cell.ID() {
			out = append(out, rec)
		}
	}
	return out
}

// Reset drops the graph and the history but keeps the configuration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph = map[uint64]mapset.Set[uint64]{}
	r.names = map[uint64]string{}
	r.history = nil
}
