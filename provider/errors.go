package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is matched by every *CycleError.
	ErrCycle = errors.New("dependency cycle")
	// ErrInitializing is returned by Ref.Update while the factory is running.
	ErrInitializing = errors.New("cell is still initializing")
	// ErrForeignRuntime is returned when linking cells of different runtimes.
	ErrForeignRuntime = errors.New("cells belong to different runtimes")
)

// CycleError reports a cell that would transitively depend on, or read, itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// FactoryError wraps an error returned by a cell factory.
type FactoryError struct {
	Cell string
	Err  error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Cell, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}
