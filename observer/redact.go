package observer

import (
	"encoding/json"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
)

// LargeObject replaces values whose encoding exceeds the payload limit.
const LargeObject = "Large Object (simplified)"

// ViewIdentifier is implemented by values that carry a view identity. They are
// recorded as "<Type>__viewId:<id>" instead of their contents.
type ViewIdentifier interface {
	ViewID() string
}

// simplify returns the value to record and, when it was redacted for size,
// the encoded size (or -1 if the value could not be encoded).
func simplify(v any, limit int) (any, int) {
	if vi, ok := v.(ViewIdentifier); ok && !isNilPointer(v) {
		if id := vi.ViewID(); id != "" {
			return fmt.Sprintf("%s__viewId:%s", typeName(v), id), 0
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return LargeObject, -1
	}
	if len(b) > limit {
		return LargeObject, len(b)
	}
	return v, 0
}

func describe(v any, size int) string {
	switch {
	case size > 0:
		return fmt.Sprintf("%q (%s)", LargeObject, humanize.Bytes(uint64(size)))
	case size < 0:
		return fmt.Sprintf("%q (not encodable)", LargeObject)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// captureStack formats the caller frames, skipping the registry itself.
func captureStack(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
