package harness

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/minwook-byun/recpool/internal/intake"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == EventInvocation {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Action, event.Args)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains an invocation matching
// the specified action and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type == EventInvocation && event.Action == assertion.Action {
			if matchArgs(event.Args, assertion.Args) {
				return nil
			}
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s with args %v", assertion.Action, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if actions appear in the specified order.
// Actions don't need to be consecutive. Repeated actions match successive
// occurrences.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(assertion.Actions) {
			break
		}
		if event.Type == EventInvocation && event.Action == assertion.Actions[next] {
			next++
		}
	}

	if next < len(assertion.Actions) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
			Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(assertion.Actions), assertion.Actions[next]),
			Trace:    trace,
		}
	}

	return nil
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventInvocation && event.Action == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState checks one stored row, or the visit counter, against the
// expected values using subset semantics.
func assertFinalState(actx *AssertionContext, assertion Assertion) error {
	var row map[string]any

	switch assertion.Table {
	case TableVisitCounter:
		n, err := actx.Service.Visits(actx.Ctx)
		if err != nil {
			return fmt.Errorf("read visit counter: %w", err)
		}
		row = map[string]any{"count": int(n)}

	case TableRecommendations:
		recs, err := actx.Service.ListAll(actx.Ctx)
		if err != nil {
			return fmt.Errorf("list recommendations: %w", err)
		}

		var matched []map[string]any
		for _, rec := range recs {
			r := recommendationRow(rec)
			if matchArgs(r, assertion.Where) {
				matched = append(matched, r)
			}
		}

		whereDesc := formatWhereClause(assertion.Where)
		switch len(matched) {
		case 0:
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
				Actual:   "row not found",
			}
		case 1:
			row = matched[0]
		default:
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
				Actual:   "multiple rows matched (assertion is ambiguous)",
			}
		}

	default:
		return fmt.Errorf("final_state: unknown table %q", assertion.Table)
	}

	for _, key := range sortedKeys(assertion.Expect) {
		actual, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in %s", key, assertion.Table),
			}
		}

		if !valuesEqual(actual, assertion.Expect[key]) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v", key, assertion.Expect[key]),
				Actual:   fmt.Sprintf("field %q = %v", key, actual),
			}
		}
	}

	return nil
}

// assertRowCount checks the number of stored recommendations.
func assertRowCount(actx *AssertionContext, assertion Assertion) error {
	n, err := actx.Service.Count(actx.Ctx)
	if err != nil {
		return fmt.Errorf("count recommendations: %w", err)
	}
	if n != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows in %s", assertion.Count, assertion.Table),
			Actual:   fmt.Sprintf("%d rows", n),
		}
	}
	return nil
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// matchArgs checks if actual contains all expected keys with equal values.
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists || !valuesEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values for equality. Integers compare by value
// regardless of their Go type, since YAML decodes them as int.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if a, ok := toInt64(actual); ok {
		e, ok := toInt64(expected)
		return ok && a == e
	}

	return reflect.DeepEqual(actual, expected)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Service *intake.Service
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides store access for final_state and row_count.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState, AssertRowCount:
			if actx == nil || actx.Service == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a service", i, assertion.Type)
			} else if assertion.Type == AssertFinalState {
				err = assertFinalState(actx, assertion)
			} else {
				err = assertRowCount(actx, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
