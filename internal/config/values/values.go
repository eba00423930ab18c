// Package values holds flat configuration maps keyed by dotted paths
// ("llm.model") and converts their loosely typed values. TOML decoding
// yields int64 and []any where callers want int and []string.
package values

import (
	"fmt"
	"maps"
	"strings"
)

// Map is a flat set of configuration values.
type Map map[string]any

// String returns the value at key, or "" when it is missing or not a string.
func (m Map) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Int returns the value at key as an int. Floats are truncated.
func (m Map) Int(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the value at key as a float64. Integers are converted.
func (m Map) Float(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the value at key, or false.
func (m Map) Bool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Strings returns the value at key as a string slice. Non-string items in
// a decoded array are skipped.
func (m Map) Strings(key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy.
func (m Map) Clone() Map {
	if m == nil {
		return Map{}
	}
	return maps.Clone(m)
}

// CheckKey rejects empty keys and keys with empty path segments.
func CheckKey(key string) error {
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return fmt.Errorf("invalid config key %q", key)
		}
	}
	return nil
}

// CheckValue accepts the value types a config file can hold.
func CheckValue(key string, value any) error {
	switch value.(type) {
	case string, bool, int, int64, float64, []string:
		return nil
	}
	return fmt.Errorf("unsupported value type %T for %q", value, key)
}

// Flatten turns nested tables into dotted keys: {"a": {"b": 1}} becomes
// {"a.b": 1}.
func Flatten(nested map[string]any) Map {
	out := Map{}
	flattenInto(out, "", nested)
	return out
}

func flattenInto(out Map, prefix string, nested map[string]any) {
	for k, v := range nested {
		if prefix != "" {
			k = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flattenInto(out, k, table)
			continue
		}
		out[k] = v
	}
}

// Nest is the inverse of Flatten. A key that is both a value and a table
// prefix ("a" and "a.b") has no nested form and is an error.
func (m Map) Nest() (map[string]any, error) {
	root := map[string]any{}
	for key, value := range m {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part]
			if !ok {
				next = map[string]any{}
				node[part] = next
			}
			table, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("config key %q conflicts with value at %q", key, part)
			}
			node = table
		}
		leaf := parts[len(parts)-1]
		if _, ok := node[leaf].(map[string]any); ok {
			return nil, fmt.Errorf("config key %q conflicts with a table", key)
		}
		node[leaf] = value
	}
	return root, nil
}
