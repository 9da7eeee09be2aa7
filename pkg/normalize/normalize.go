// Package normalize canonicalizes loosely typed tool-call arguments.
//
// The calling protocol only carries primitive types, so a list-valued
// argument may arrive as a bare scalar, a JSON-encoded string, or an
// already-typed collection. Each function pattern-matches the accepted
// shapes exhaustively and produces a single canonical typed value.
// Broadcast happens only when a single value is supplied against a target
// length greater than one; an explicit array with the wrong length is a
// ValidationError, never silently truncated or padded.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports malformed input rejected at the normalization
// boundary: bad JSON, mismatched list lengths, or an unsupported shape.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

func errf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// looksLikeJSONArray reports whether the string should be parsed as a
// JSON array rather than treated as a scalar.
func looksLikeJSONArray(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// StringList canonicalizes a value into a list of strings.
//
// Absent (nil or empty string) yields nil. A JSON-array-shaped string is
// parsed; a plain string becomes a single-element list; an existing list
// passes through with each element coerced to string.
func StringList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		if looksLikeJSONArray(v) {
			var parsed []any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, errf("invalid JSON array %q: %v", v, err)
			}
			return stringsOf(parsed)
		}
		return []string{strings.TrimSpace(v)}, nil
	case []string:
		return v, nil
	case []any:
		return stringsOf(v)
	default:
		return nil, errf("cannot interpret %T as a string list", value)
	}
}

// IntList canonicalizes a value into a list of integers of targetLength.
//
// A single scalar (bare integer or plain numeric string) broadcasts to
// targetLength copies. An explicit array, JSON-encoded or already typed,
// must match targetLength exactly.
func IntList(value any, targetLength int) ([]int, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		if looksLikeJSONArray(v) {
			var parsed []any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, errf("invalid JSON array %q: %v", v, err)
			}
			ints, err := intsOf(parsed)
			if err != nil {
				return nil, err
			}
			return checkIntLength(ints, targetLength)
		}
		n, err := coerceInt(v)
		if err != nil {
			return nil, err
		}
		return broadcastInt(n, targetLength), nil
	case int:
		return broadcastInt(v, targetLength), nil
	case int64:
		return broadcastInt(int(v), targetLength), nil
	case float64:
		n, err := coerceInt(v)
		if err != nil {
			return nil, err
		}
		return broadcastInt(n, targetLength), nil
	case []int:
		return checkIntLength(v, targetLength)
	case []any:
		ints, err := intsOf(v)
		if err != nil {
			return nil, err
		}
		return checkIntLength(ints, targetLength)
	default:
		return nil, errf("cannot interpret %T as an integer list", value)
	}
}

// NestedStringList canonicalizes a value into targetLength string lists.
//
// Absent yields targetLength empty lists, the one documented default.
// An already-nested list-of-lists must match targetLength; a flat list or
// scalar is broadcast, appearing once per position.
func NestedStringList(value any, targetLength int) ([][]string, error) {
	switch v := value.(type) {
	case nil:
		return emptyNested(targetLength), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return emptyNested(targetLength), nil
		}
		if looksLikeJSONArray(v) {
			var parsed []any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, errf("invalid JSON array %q: %v", v, err)
			}
			return nestedOf(parsed, targetLength)
		}
		return broadcastList([]string{strings.TrimSpace(v)}, targetLength), nil
	case []string:
		return broadcastList(v, targetLength), nil
	case [][]string:
		if len(v) != targetLength {
			return nil, errf("expected %d nested lists, got %d", targetLength, len(v))
		}
		return v, nil
	case []any:
		return nestedOf(v, targetLength)
	default:
		return nil, errf("cannot interpret %T as a nested string list", value)
	}
}

// Bool canonicalizes a value into a boolean. Absent yields the fallback.
func Bool(value any, fallback bool) (bool, error) {
	switch v := value.(type) {
	case nil:
		return fallback, nil
	case bool:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback, nil
		}
		parsed, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			return false, errf("cannot interpret %q as a boolean", v)
		}
		return parsed, nil
	default:
		return false, errf("cannot interpret %T as a boolean", value)
	}
}

func stringsOf(values []any) ([]string, error) {
	out := make([]string, len(values))
	for i, item := range values {
		switch s := item.(type) {
		case string:
			out[i] = s
		case float64:
			out[i] = strconv.FormatFloat(s, 'f', -1, 64)
		default:
			return nil, errf("element %d is %T, expected string", i, item)
		}
	}
	return out, nil
}

func intsOf(values []any) ([]int, error) {
	out := make([]int, len(values))
	for i, item := range values {
		n, err := coerceInt(item)
		if err != nil {
			return nil, errf("element %d: %v", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		n := int(v)
		if float64(n) != v {
			return 0, errf("%v is not an integer", v)
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errf("%q is not an integer", v)
		}
		return n, nil
	default:
		return 0, errf("cannot interpret %T as an integer", value)
	}
}

func checkIntLength(ints []int, targetLength int) ([]int, error) {
	if targetLength > 0 && len(ints) != targetLength {
		return nil, errf("expected %d elements, got %d", targetLength, len(ints))
	}
	return ints, nil
}

func broadcastInt(n, targetLength int) []int {
	if targetLength <= 0 {
		return []int{n}
	}
	out := make([]int, targetLength)
	for i := range out {
		out[i] = n
	}
	return out
}

func broadcastList(list []string, targetLength int) [][]string {
	if targetLength <= 0 {
		return [][]string{list}
	}
	out := make([][]string, targetLength)
	for i := range out {
		out[i] = list
	}
	return out
}

func emptyNested(targetLength int) [][]string {
	if targetLength < 0 {
		targetLength = 0
	}
	out := make([][]string, targetLength)
	for i := range out {
		out[i] = []string{}
	}
	return out
}

// nestedOf interprets a parsed JSON array: all-list elements are treated
// as already nested and must match targetLength; anything else is one flat
// list broadcast across every position.
func nestedOf(values []any, targetLength int) ([][]string, error) {
	if len(values) == 0 {
		return emptyNested(targetLength), nil
	}

	allLists := true
	for _, item := range values {
		if _, ok := item.([]any); !ok {
			allLists = false
			break
		}
	}

	if allLists {
		if len(values) != targetLength {
			return nil, errf("expected %d nested lists, got %d", targetLength, len(values))
		}
		out := make([][]string, len(values))
		for i, item := range values {
			inner, err := stringsOf(item.([]any))
			if err != nil {
				return nil, err
			}
			out[i] = inner
		}
		return out, nil
	}

	flat, err := stringsOf(values)
	if err != nil {
		return nil, err
	}
	return broadcastList(flat, targetLength), nil
}
