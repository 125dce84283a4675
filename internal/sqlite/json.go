// JSON column helpers. Stored JSON is parsed with ojg so integer references
// stay int64 across round trips instead of decaying to float64.
package sqlite

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// encodeJSON serializes a value for a TEXT column.
func encodeJSON(v any) string {
	return oj.JSON(v)
}

// decodeJSON parses a TEXT column value.
func decodeJSON(s string) (any, error) {
	return oj.ParseString(s)
}

// decodeJSONMap parses a TEXT column holding a JSON object.
func decodeJSONMap(s string) (map[string]any, error) {
	v, err := oj.ParseString(s)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return m, nil
}

// decodeInt64List parses a TEXT column holding a JSON array of integers.
func decodeInt64List(s string) ([]int64, error) {
	v, err := oj.ParseString(s)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %T", v)
	}
	out := make([]int64, 0, len(arr))
	for _, e := range arr {
		n, ok := e.(int64)
		if !ok {
			return nil, fmt.Errorf("expected integer element, got %T", e)
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeStringList parses a TEXT column holding a JSON array of strings.
func decodeStringList(s string) ([]string, error) {
	v, err := oj.ParseString(s)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %T", v)
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		str, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("expected string element, got %T", e)
		}
		out = append(out, str)
	}
	return out, nil
}

// int64Wire converts an []int64 to the []any form encodeJSON expects.
func int64Wire(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// stringWire converts a []string to the []any form encodeJSON expects.
func stringWire(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
