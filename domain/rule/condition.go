package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
)

// CondOp enumerates the condition operators. The set is closed: unknown
// operator names are rejected when a condition is constructed, never at
// evaluation time.
type CondOp int

const (
	CondEq CondOp = iota
	CondNe
	CondLt
	CondLe
	CondGt
	CondGe
	CondIn
	CondMatches
	CondContains
	CondStartsWith
	CondNull
	CondEmpty
)

var condOps = map[string]CondOp{
	"==":         CondEq,
	"!=":         CondNe,
	"<":          CondLt,
	"<=":         CondLe,
	">":          CondGt,
	">=":         CondGe,
	"in":         CondIn,
	"matches":    CondMatches,
	"contains":   CondContains,
	"startsWith": CondStartsWith,
	"null":       CondNull,
	"empty":      CondEmpty,
}

// Condition is a strictly typed predicate over a slot's current value.
// Cross-category comparisons evaluate to false; no implicit coercion
// between string and numeric representations ever occurs.
type Condition struct {
	op      CondOp
	operand any
	list    []any
	re      *regexp.Regexp
}

// NewCondition builds a condition from an operator name and operand.
// Unknown operators and malformed operands (a non-list for "in", a
// non-string or invalid pattern for "matches") are load-time errors.
func NewCondition(op string, operand any) (*Condition, error) {
	kind, ok := condOps[op]
	if !ok {
		return nil, fmt.Errorf("unknown condition operator %q", op)
	}
	c := &Condition{op: kind, operand: NormalizeValue(operand)}

	switch kind {
	case CondIn:
		list, ok := c.operand.([]any)
		if !ok {
			return nil, fmt.Errorf("condition %q: operand must be a list", op)
		}
		c.list = list
	case CondMatches:
		pat, ok := c.operand.(string)
		if !ok {
			return nil, fmt.Errorf("condition %q: operand must be a string pattern", op)
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", op, err)
		}
		c.re = re
	case CondContains, CondStartsWith:
		if _, ok := c.operand.(string); !ok {
			return nil, fmt.Errorf("condition %q: operand must be a string", op)
		}
	}
	return c, nil
}

// Evaluate applies the condition to v. Any type mismatch yields false;
// evaluation never errors.
func (c *Condition) Evaluate(v any) bool {
	switch c.op {
	case CondEq:
		eq, comparable := document.Equal(v, c.operand)
		return comparable && eq
	case CondNe:
		eq, comparable := document.Equal(v, c.operand)
		return comparable && !eq
	case CondLt, CondLe, CondGt, CondGe:
		cmp, comparable := document.Compare(v, c.operand)
		if !comparable {
			return false
		}
		switch c.op {
		case CondLt:
			return cmp < 0
		case CondLe:
			return cmp <= 0
		case CondGt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case CondIn:
		for _, member := range c.list {
			if eq, comparable := document.Equal(v, member); comparable && eq {
				return true
			}
		}
		return false
	case CondMatches:
		s, ok := v.(string)
		return ok && c.re.MatchString(s)
	case CondContains:
		s, ok := v.(string)
		return ok && strings.Contains(s, c.operand.(string))
	case CondStartsWith:
		s, ok := v.(string)
		return ok && strings.HasPrefix(s, c.operand.(string))
	case CondNull:
		return v == nil
	case CondEmpty:
		switch val := v.(type) {
		case string:
			return val == ""
		case []any:
			return len(val) == 0
		case map[string]any:
			return len(val) == 0
		}
		return false
	}
	return false
}
