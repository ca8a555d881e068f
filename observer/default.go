package observer

import "sync"

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use with
// the given options. Options are ignored once the registry exists.
func Default(opts ...Option) *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = New(opts...)
	}
	return defaultRegistry
}

// SetDefault installs r as the process-wide registry.
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}

// ClearDefault forgets the process-wide registry so the next Default call
// starts from scratch. Intended for tests.
func ClearDefault() {
	SetDefault(nil)
}
