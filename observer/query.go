package observer

import (
	"fmt"
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
)

// Query returns the recorded updates for which expression evaluates to true.
// The expression sees Cell, ID, Old, New and Timestamp, for example
//
//	Cell == "counter" && New > 2
func (r *Registry) Query(expression string) ([]UpdateRecord, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("query expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(queryEnv{}),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", expression, err)
	}

	var matched []UpdateRecord
	for _, rec := range r.History() {
		out, err := exprlang.Run(program, newQueryEnv(rec))
		if err != nil {
			return nil, fmt.Errorf("evaluating query %q on %s: %w", expression, rec.Cell, err)
		}
		if ok, _ := out.(bool); ok {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

type queryEnv struct {
	Cell      string
	ID        uint64
	Old       any
	New       any
	Timestamp time.Time
}

func newQueryEnv(rec UpdateRecord) queryEnv {
	return queryEnv{
		Cell:      rec.Cell,
		ID:        rec.ID,
		Old:       rec.Old,
		New:       rec.New,
		Timestamp: rec.Timestamp,
	}
}
