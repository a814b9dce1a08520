// Package document provides the JSON document model: typed value helpers,
// addressable slots, and path expression resolution.
//
// Documents are plain decoded JSON trees (map[string]any, []any, string,
// float64, bool, nil) as produced by encoding/json. Values produced by
// other decoders are tolerated where cheap (integer kinds count as
// numbers) but no implicit coercion between categories ever happens.
package document

import (
	"reflect"
	"sort"
	"strings"
)

// Number reports v as a float64 if it belongs to the numeric category.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// IsNumber reports whether v belongs to the numeric category.
func IsNumber(v any) bool {
	_, ok := Number(v)
	return ok
}

// Equal compares two values under strict typing. The second result is
// false when the values belong to different categories, in which case
// no comparison is defined and callers must treat the pair as unequal
// without erroring.
func Equal(a, b any) (eq, comparable bool) {
	if a == nil || b == nil {
		both := a == nil && b == nil
		return both, both
	}
	if an, ok := Number(a); ok {
		bn, ok := Number(b)
		if !ok {
			return false, false
		}
		return an == bn, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv, ok
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv, ok
	case []any:
		bv, ok := b.([]any)
		return ok && reflect.DeepEqual(av, bv), ok
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && reflect.DeepEqual(av, bv), ok
	}
	return false, false
}

// Compare orders two values of the same primitive category: numerically
// for numbers, lexically for strings. The second result is false for
// any cross-category or non-orderable pair.
func Compare(a, b any) (cmp int, comparable bool) {
	if an, ok := Number(a); ok {
		bn, ok := Number(b)
		if !ok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		}
		return 0, true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// sortedKeys returns the member names of m in lexical order. Object
// members are always visited in this order so that resolution is
// deterministic regardless of map iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
