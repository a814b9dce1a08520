package rule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
)

// ActionOp enumerates the action operators. Like conditions, the set is
// closed: unknown operators fail at construction, and any value/operator
// combination that does not type-check at run time is a no-op rather
// than an error.
type ActionOp int

const (
	ActReplace ActionOp = iota
	ActDefault
	ActCast
	ActTrim
	ActUppercase
	ActLowercase
	ActAdd
	ActSub
	ActMul
	ActDiv
	ActRound
	ActFormatDate
	ActOffsetDate
	ActConvertUnit
)

var actionOps = map[string]ActionOp{
	"replace":     ActReplace,
	"default":     ActDefault,
	"coalesce":    ActDefault,
	"cast":        ActCast,
	"trim":        ActTrim,
	"uppercase":   ActUppercase,
	"lowercase":   ActLowercase,
	"add":         ActAdd,
	"sub":         ActSub,
	"mul":         ActMul,
	"div":         ActDiv,
	"round":       ActRound,
	"formatDate":  ActFormatDate,
	"offsetDate":  ActOffsetDate,
	"convertUnit": ActConvertUnit,
}

// step is one compiled operation. All parameter validation happens at
// construction; applying a step can only succeed or no-op.
type step struct {
	op ActionOp

	value      any     // replace, default
	target     string  // cast: "string", "number", "boolean"
	operand    float64 // add, sub, mul, div
	digits     int     // round
	fromLayout string  // formatDate
	toLayout   string  // formatDate
	amount     int     // offsetDate
	unit       string  // offsetDate
	factor     float64 // convertUnit
	hasFactor  bool    // convertUnit: pair is in the table
}

// Action is an operation, or an ordered sequence of operations, applied
// to a single slot. Each step receives the previous step's output, or
// the unchanged value when the previous step was a no-op; a no-op step
// never aborts the sequence.
type Action struct {
	steps []step
}

// NewAction builds an action from an operator name and its parameters.
// The operator "sequence" takes a "steps" list of single-operator
// records; sequences do not nest.
func NewAction(op string, params map[string]any) (Action, error) {
	if op != "sequence" {
		st, err := newStep(op, params)
		if err != nil {
			return Action{}, err
		}
		return Action{steps: []step{st}}, nil
	}

	rawSteps, ok := params["steps"].([]any)
	if !ok || len(rawSteps) == 0 {
		return Action{}, fmt.Errorf("action %q: requires a non-empty steps list", op)
	}
	a := Action{steps: make([]step, 0, len(rawSteps))}
	for i, raw := range rawSteps {
		rec, ok := raw.(map[string]any)
		if !ok {
			return Action{}, fmt.Errorf("sequence step %d: not a mapping", i)
		}
		stepOp, ok := rec["op"].(string)
		if !ok || stepOp == "" {
			return Action{}, fmt.Errorf("sequence step %d: missing op", i)
		}
		if stepOp == "sequence" {
			return Action{}, fmt.Errorf("sequence step %d: sequences do not nest", i)
		}
		st, err := newStep(stepOp, rec)
		if err != nil {
			return Action{}, fmt.Errorf("sequence step %d: %w", i, err)
		}
		a.steps = append(a.steps, st)
	}
	return a, nil
}

func newStep(op string, params map[string]any) (step, error) {
	kind, ok := actionOps[op]
	if !ok {
		return step{}, fmt.Errorf("unknown action operator %q", op)
	}
	st := step{op: kind}

	switch kind {
	case ActReplace, ActDefault:
		raw, ok := params["value"]
		if !ok {
			return step{}, fmt.Errorf("action %q: missing value", op)
		}
		st.value = NormalizeValue(raw)

	case ActCast:
		target, _ := params["to"].(string)
		switch target {
		case "string", "number", "boolean":
			st.target = target
		default:
			return step{}, fmt.Errorf("action %q: target type must be string, number, or boolean", op)
		}

	case ActAdd, ActSub, ActMul, ActDiv:
		n, ok := document.Number(params["by"])
		if !ok {
			return step{}, fmt.Errorf("action %q: missing numeric operand \"by\"", op)
		}
		st.operand = n

	case ActRound:
		n, ok := document.Number(params["digits"])
		if !ok || n < 0 || n != math.Trunc(n) {
			return step{}, fmt.Errorf("action %q: digits must be a non-negative integer", op)
		}
		st.digits = int(n)

	case ActFormatDate:
		st.fromLayout, _ = params["from"].(string)
		st.toLayout, _ = params["to"].(string)
		if st.fromLayout == "" || st.toLayout == "" {
			return step{}, fmt.Errorf("action %q: requires from and to layouts", op)
		}

	case ActOffsetDate:
		n, ok := document.Number(params["amount"])
		if !ok || n != math.Trunc(n) {
			return step{}, fmt.Errorf("action %q: amount must be an integer", op)
		}
		st.amount = int(n)
		st.unit, _ = params["unit"].(string)
		if !knownDateUnit(st.unit) {
			return step{}, fmt.Errorf("action %q: unknown unit %q", op, st.unit)
		}

	case ActConvertUnit:
		from, _ := params["from"].(string)
		to, _ := params["to"].(string)
		if from == "" || to == "" {
			return step{}, fmt.Errorf("action %q: requires from and to units", op)
		}
		// An unsupported pair is a run-time no-op, not a load error.
		st.factor, st.hasFactor = conversionFactor(from, to)
	}
	return st, nil
}

// Apply runs the action against v and returns the resulting value. The
// second result is false when no step applied, in which case the caller
// leaves the slot untouched.
func (a Action) Apply(v any) (any, bool) {
	cur := v
	applied := false
	for _, st := range a.steps {
		if next, ok := st.apply(cur); ok {
			cur = next
			applied = true
		}
	}
	return cur, applied
}

func (st step) apply(v any) (any, bool) {
	switch st.op {
	case ActReplace:
		return cloneValue(st.value), true

	case ActDefault:
		if v == nil {
			return cloneValue(st.value), true
		}

	case ActCast:
		return st.cast(v)

	case ActTrim:
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s), true
		}

	case ActUppercase:
		if s, ok := v.(string); ok {
			return strings.ToUpper(s), true
		}

	case ActLowercase:
		if s, ok := v.(string); ok {
			return strings.ToLower(s), true
		}

	case ActAdd:
		if n, ok := document.Number(v); ok {
			return n + st.operand, true
		}

	case ActSub:
		if n, ok := document.Number(v); ok {
			return n - st.operand, true
		}

	case ActMul:
		if n, ok := document.Number(v); ok {
			return n * st.operand, true
		}

	case ActDiv:
		if n, ok := document.Number(v); ok && st.operand != 0 {
			return n / st.operand, true
		}

	case ActRound:
		// Half away from zero: 0.5 rounds to 1, -0.5 to -1.
		if n, ok := document.Number(v); ok {
			pow := math.Pow(10, float64(st.digits))
			return math.Round(n*pow) / pow, true
		}

	case ActFormatDate:
		if s, ok := v.(string); ok {
			if t, err := time.Parse(st.fromLayout, s); err == nil {
				return t.Format(st.toLayout), true
			}
		}

	case ActOffsetDate:
		if s, ok := v.(string); ok {
			if t, layout, ok := parseAnyDate(s); ok {
				return shiftDate(t, st.amount, st.unit).Format(layout), true
			}
		}

	case ActConvertUnit:
		if n, ok := document.Number(v); ok && st.hasFactor {
			return n * st.factor, true
		}
	}
	return v, false
}

// cast converts between primitive categories where a lossless textual
// or numeric conversion is defined; anything else is a no-op.
func (st step) cast(v any) (any, bool) {
	switch st.target {
	case "string":
		switch val := v.(type) {
		case string:
			return val, true
		case bool:
			return strconv.FormatBool(val), true
		}
		if n, ok := document.Number(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}

	case "number":
		if n, ok := document.Number(v); ok {
			return n, true
		}
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n, true
			}
		}

	case "boolean":
		switch val := v.(type) {
		case bool:
			return val, true
		case string:
			// Only the canonical JSON spellings convert.
			switch val {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	}
	return v, false
}
