package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

/* Tree is a decoded processor payload
 * Processor payloads are only partially documented and change shape between
 * event types, so they are kept as a generic JSON tree with total accessors
 * instead of a fixed struct. Every accessor reports whether the value was
 * present with the expected type; callers pick their own defaults.
 */
type Tree map[string]interface{}

// Decode parses a JSON object into a Tree
// Numbers are kept as json.Number so that large minor-unit amounts survive intact
func Decode(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree map[string]interface{}
	if err := dec.Decode(&tree); err != nil {
		return Tree{}, fmt.Errorf("decoding payload: %w", err)
	}
	if tree == nil {
		return Tree{}, fmt.Errorf("decoding payload: expected a JSON object")
	}

	return Tree(tree), nil
}

// Object returns the nested object stored under key
// A missing, null or non-object value yields an empty Tree, never nil
func (t Tree) Object(key string) Tree {
	if t == nil {
		return Tree{}
	}
	switch v := t[key].(type) {
	case map[string]interface{}:
		return Tree(v)
	case Tree:
		return v
	default:
		return Tree{}
	}
}

// String returns the string stored under key
func (t Tree) String(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := t[key].(string)
	return s, ok
}

// StringOr returns the string stored under key or fallback
func (t Tree) StringOr(key, fallback string) string {
	if s, ok := t.String(key); ok {
		return s
	}
	return fallback
}

// Int64 returns the integer stored under key
// Integral floats ("500.0") are accepted, fractional ones are not
func (t Tree) Int64(key string) (int64, bool) {
	if t == nil {
		return 0, false
	}
	switch v := t[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(v)
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// Int64Or returns the integer stored under key or fallback
func (t Tree) Int64Or(key string, fallback int64) int64 {
	if n, ok := t.Int64(key); ok {
		return n
	}
	return fallback
}

// Has reports whether key is present with a non-null value
func (t Tree) Has(key string) bool {
	if t == nil {
		return false
	}
	v, ok := t[key]
	return ok && v != nil
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 1<<63 is the first float64 past MaxInt64; MaxInt64 itself rounds up to it
	if f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}
