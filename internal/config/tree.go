package config

import (
	"fmt"
	"math"
	"strconv"
)

// Tree is a parsed project document: string keys mapping to strings, numbers,
// booleans, lists ([]any) and nested trees (map[string]any).
type Tree map[string]any

// Normalize converts decoder output into the value shapes Tree documents:
// nested maps become map[string]any, lists become []any and integers become
// int64. Unsigned values above math.MaxInt64 stay uint64.
func Normalize(v any) any {
	switch x := v.(type) {
	case Tree:
		return map[string]any(normalizeMap(x))
	case map[string]any:
		return map[string]any(normalizeMap(x))
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = Normalize(val)
		}
		return m
	case []map[string]any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Normalize(val)
		}
		return out
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return x
		}
		return int64(x)
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

// Child returns the nested mapping stored under key.
func (t Tree) Child(key string) (Tree, bool) {
	m, ok := t[key].(map[string]any)
	return Tree(m), ok
}

// String returns the string stored under key.
func (t Tree) String(key string) (string, bool) {
	s, ok := t[key].(string)
	return s, ok
}

// Strings reads a string or a list of strings stored under key.
func (t Tree) Strings(key string) ([]string, error) {
	switch v := t[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected string or list of strings, got %T", key, v)
	}
}

// Records reads a list of mappings stored under key.
func (t Tree) Records(key string) ([]Tree, error) {
	switch v := t[key].(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]Tree, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected table, got %T", key, i, item)
			}
			out = append(out, Tree(m))
		}
		return out, nil
	case map[string]any:
		return []Tree{Tree(v)}, nil
	default:
		return nil, fmt.Errorf("%s: expected list of tables, got %T", key, v)
	}
}

// Stringify renders a scalar tree value as text.
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
