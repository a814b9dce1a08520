// Package rule provides the rule model for the mutation engine: strictly
// typed conditions, composable value actions, and immutable ordered rule
// sets. Run-time type mismatches are defined no-op outcomes, never
// errors; only construction of a rule can fail.
package rule

import "github.com/CBIIT/ccdi-dcc-federation-service/domain/document"

// Rule binds a path expression to an optional condition and one action.
// The action is applied to every slot the path matches (and the
// condition accepts), in canonical match order.
type Rule struct {
	ID        string
	Path      document.Path
	Condition *Condition
	Action    Action
}

// RuleSet is an immutable ordered list of rules. Construct once, share
// freely: a published RuleSet is never mutated, so any number of
// transformations may read it concurrently without locking.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a RuleSet preserving the given authoring order.
func NewRuleSet(rules []Rule) *RuleSet {
	rs := &RuleSet{rules: make([]Rule, len(rules))}
	copy(rs.rules, rules)
	return rs
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Rules returns the rules in authoring order. Callers must not modify
// the returned slice.
func (rs *RuleSet) Rules() []Rule { return rs.rules }

// IDs returns the rule ids in authoring order.
func (rs *RuleSet) IDs() []string {
	ids := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		ids[i] = r.ID
	}
	return ids
}

// NormalizeValue maps a decoded rule-file value onto the document value
// model: integer kinds become float64 and nested containers are
// normalized recursively, so operands compare cleanly against values
// decoded by encoding/json.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = NormalizeValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = NormalizeValue(el)
		}
		return out
	}
	return v
}

// cloneValue deep-copies containers so a value written into a document
// never aliases rule state.
func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = cloneValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = cloneValue(el)
		}
		return out
	}
	return v
}
