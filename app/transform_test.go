package app_test

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/app"
	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
	"github.com/CBIIT/ccdi-dcc-federation-service/domain/rule"
)

func mustDoc(t *testing.T, src string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("bad test document: %v", err)
	}
	return doc
}

func mustRule(t *testing.T, id, when, condOp string, condVal any, actionOp string, params map[string]any) rule.Rule {
	t.Helper()
	r := rule.Rule{ID: id, Path: document.MustParsePath(when)}
	if condOp != "" {
		c, err := rule.NewCondition(condOp, condVal)
		if err != nil {
			t.Fatalf("condition: %v", err)
		}
		r.Condition = c
	}
	a, err := rule.NewAction(actionOp, params)
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	r.Action = a
	return r
}

func newTransformer() *app.Transformer {
	return app.NewTransformer(zerolog.Nop(), nil)
}

func TestTransformer_EmptyRuleSetIsIdentity(t *testing.T) {
	docs := []string{
		`{"a": 1, "b": {"c": [1, 2, 3]}}`,
		`[1, "two", null, {"x": false}]`,
		`"scalar"`,
		`null`,
	}

	tr := newTransformer()
	empty := rule.NewRuleSet(nil)
	for _, src := range docs {
		doc := mustDoc(t, src)
		want := mustDoc(t, src)
		got := tr.Apply(doc, empty)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Apply(%s, empty) = %v, want unchanged", src, got)
		}
	}
}

func TestTransformer_NoMatchLeavesDocumentUnchanged(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "r1", "$.missing.path", "", nil, "replace", map[string]any{"value": "X"}),
	})

	doc := mustDoc(t, `{"a": 1}`)
	got := tr.Apply(doc, rs)
	if !reflect.DeepEqual(got, mustDoc(t, `{"a": 1}`)) {
		t.Errorf("doc changed by non-matching rule: %v", got)
	}
}

func TestTransformer_RecursiveConditionalReplace(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "codes", "$..code", "==", "A", "replace", map[string]any{"value": "B"}),
	})

	doc := mustDoc(t, `{"code": "A", "nested": {"code": "A"}}`)
	got := tr.Apply(doc, rs)
	want := mustDoc(t, `{"code": "B", "nested": {"code": "B"}}`)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestTransformer_ConditionSkipsMismatchedType(t *testing.T) {
	// {op: ">", value: 0} against the string "5" is false: the node is
	// skipped, never coerced.
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "positive", "$.n", ">", 0, "replace", map[string]any{"value": "pos"}),
	})

	doc := mustDoc(t, `{"n": "5"}`)
	got := tr.Apply(doc, rs)
	if !reflect.DeepEqual(got, mustDoc(t, `{"n": "5"}`)) {
		t.Errorf("string value coerced: %v", got)
	}
}

func TestTransformer_UppercaseIdempotent(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "up", "$..name", "", nil, "uppercase", nil),
	})

	once := tr.Apply(mustDoc(t, `{"name": "ab", "sub": {"name": "cd"}}`), rs)
	twice := tr.Apply(tr.Apply(mustDoc(t, `{"name": "ab", "sub": {"name": "cd"}}`), rs), rs)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("uppercase not idempotent: %v vs %v", once, twice)
	}
}

func TestTransformer_OverlappingRulesLastWins(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "first", "$.status", "", nil, "replace", map[string]any{"value": "one"}),
		mustRule(t, "second", "$..status", "", nil, "replace", map[string]any{"value": "two"}),
	})

	doc := mustDoc(t, `{"status": "init"}`)
	got := tr.Apply(doc, rs)
	if !reflect.DeepEqual(got, mustDoc(t, `{"status": "two"}`)) {
		t.Errorf("later rule did not win: %v", got)
	}
}

func TestTransformer_LaterRuleSeesEarlierMutation(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "fill", "$.v", "null", nil, "replace", map[string]any{"value": 10}),
		mustRule(t, "scale", "$.v", "", nil, "mul", map[string]any{"by": 2}),
	})

	doc := mustDoc(t, `{"v": null}`)
	got := tr.Apply(doc, rs)
	if !reflect.DeepEqual(got, mustDoc(t, `{"v": 20}`)) {
		t.Errorf("rules did not chain: %v", got)
	}
}

func TestTransformer_SequenceDivRound(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "cents", "$.amount", "", nil, "sequence", map[string]any{
			"steps": []any{
				map[string]any{"op": "div", "by": 100},
				map[string]any{"op": "round", "digits": 2},
			},
		}),
	})

	got := tr.Apply(mustDoc(t, `{"amount": 12345}`), rs)
	if !reflect.DeepEqual(got, mustDoc(t, `{"amount": 123.45}`)) {
		t.Errorf("Apply = %v, want amount 123.45", got)
	}
}

func TestTransformer_RootReplacement(t *testing.T) {
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "wrap", "$", "", nil, "replace", map[string]any{"value": map[string]any{"ok": true}}),
	})

	got := tr.Apply(mustDoc(t, `[1, 2, 3]`), rs)
	if !reflect.DeepEqual(got, map[string]any{"ok": true}) {
		t.Errorf("root not replaced: %v", got)
	}
}

func TestTransformer_IncompatibleValueNeverAborts(t *testing.T) {
	// One rule over mixed nodes: type mismatches no-op per node while
	// compatible nodes are still transformed.
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "scale", "$.readings[*]", "", nil, "mul", map[string]any{"by": 10}),
		mustRule(t, "label", "$.name", "", nil, "uppercase", nil),
	})

	doc := mustDoc(t, `{"readings": [1, "bad", 3, null], "name": "x"}`)
	got := tr.Apply(doc, rs)
	want := mustDoc(t, `{"readings": [10, "bad", 30, null], "name": "X"}`)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestTransformer_ConcurrentDocuments(t *testing.T) {
	// One Transformer, one shared snapshot, many documents at once.
	tr := newTransformer()
	rs := rule.NewRuleSet([]rule.Rule{
		mustRule(t, "codes", "$..code", "==", "A", "replace", map[string]any{"value": "B"}),
	})

	const n = 32
	var wg sync.WaitGroup
	results := make([]any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var doc any
			_ = json.Unmarshal([]byte(`{"code": "A", "nested": {"code": "A"}}`), &doc)
			results[i] = tr.Apply(doc, rs)
		}(i)
	}
	wg.Wait()

	want := mustDoc(t, `{"code": "B", "nested": {"code": "B"}}`)
	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("document %d = %v, want %v", i, got, want)
		}
	}
}
