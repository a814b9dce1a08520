// Package app provides application services that orchestrate domain logic.
package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
	"github.com/CBIIT/ccdi-dcc-federation-service/domain/rule"
	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

// Transformer applies a RuleSet snapshot to JSON documents. It holds no
// document state of its own, so one Transformer may run any number of
// transformations concurrently, each against whatever snapshot its
// caller passed in.
type Transformer struct {
	logger  zerolog.Logger
	metrics ports.TransformMetrics
}

// NewTransformer creates a Transformer. metrics may be nil.
func NewTransformer(logger zerolog.Logger, metrics ports.TransformMetrics) *Transformer {
	return &Transformer{logger: logger, metrics: metrics}
}

// Apply runs every rule of rs, in authoring order, against doc and
// returns the mutated document. Interior containers are mutated in
// place; callers must treat the returned value as the authoritative
// result since a rule targeting the root can replace it wholesale.
//
// Each rule resolves its path against the current document state, so
// later rules observe earlier rules' effects; when rules overlap, the
// last rule in authoring order wins. Per-slot failures do not exist at
// this layer: a value an action cannot digest is left unchanged and
// processing continues with the remaining slots, steps, and rules.
func (t *Transformer) Apply(doc any, rs *rule.RuleSet) any {
	start := time.Now()

	for _, r := range rs.Rules() {
		slots := document.Resolve(&doc, r.Path)
		if len(slots) == 0 {
			continue
		}

		mutated := 0
		for _, slot := range slots {
			if r.Condition != nil && !r.Condition.Evaluate(slot.Get()) {
				continue
			}
			if next, applied := r.Action.Apply(slot.Get()); applied {
				slot.Set(next)
				mutated++
			}
		}

		if mutated > 0 && t.metrics != nil {
			t.metrics.SlotsMutated(r.ID, mutated)
		}
		t.logger.Trace().
			Str("rule", r.ID).
			Int("matched", len(slots)).
			Int("mutated", mutated).
			Msg("rule applied")
	}

	if t.metrics != nil {
		t.metrics.DocumentTransformed(time.Since(start))
	}
	return doc
}
