package document_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
)

func mustDoc(t *testing.T, src string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("bad test document: %v", err)
	}
	return doc
}

func values(slots []document.Slot) []any {
	out := make([]any, len(slots))
	for i, s := range slots {
		out[i] = s.Get()
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		expr string
		want []any
	}{
		{
			"direct member",
			`{"code": "A", "other": 1}`,
			"$.code",
			[]any{"A"},
		},
		{
			"nested member",
			`{"subject": {"sample": {"code": "S1"}}}`,
			"$.subject.sample.code",
			[]any{"S1"},
		},
		{
			"index",
			`{"items": [10, 20, 30]}`,
			"$.items[1]",
			[]any{20.0},
		},
		{
			"object wildcard lexical order",
			`{"b": 2, "a": 1, "c": 3}`,
			"$.*",
			[]any{1.0, 2.0, 3.0},
		},
		{
			"array wildcard ascending order",
			`{"items": ["x", "y", "z"]}`,
			"$.items[*]",
			[]any{"x", "y", "z"},
		},
		{
			"recursive descent pre-order",
			`{"code": "top", "nested": {"code": "inner"}}`,
			"$..code",
			[]any{"top", "inner"},
		},
		{
			"recursive descent through arrays",
			`{"samples": [{"code": "S1"}, {"code": "S2"}]}`,
			"$..code",
			[]any{"S1", "S2"},
		},
		{
			"recursive descent into matched node",
			`{"code": {"code": "deep"}}`,
			"$..code",
			[]any{map[string]any{"code": "deep"}, "deep"},
		},
		{
			"filter on array elements",
			`{"items": [{"type": "blood", "id": 1}, {"type": "tissue", "id": 2}, {"type": "blood", "id": 3}]}`,
			`$.items[?(@.type == "blood")].id`,
			[]any{1.0, 3.0},
		},
		{
			"filter inequality",
			`{"items": [{"n": 0}, {"n": 5}]}`,
			"$.items[?(@.n != 0)].n",
			[]any{5.0},
		},
		{
			"filter cross-type never matches",
			`{"items": [{"n": "5"}]}`,
			"$.items[?(@.n == 5)]",
			nil,
		},
		{
			"filter on object members",
			`{"s1": {"status": "open"}, "s2": {"status": "closed"}}`,
			`$[?(@.status == "open")]`,
			[]any{map[string]any{"status": "open"}},
		},
		{
			"missing member",
			`{"code": "A"}`,
			"$.missing",
			nil,
		},
		{
			"index out of range",
			`{"items": [1]}`,
			"$.items[5]",
			nil,
		},
		{
			"member access on scalar",
			`{"code": "A"}`,
			"$.code.deeper",
			nil,
		},
		{
			"root",
			`{"a": 1}`,
			"$",
			[]any{map[string]any{"a": 1.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.doc)
			slots := document.Resolve(&doc, document.MustParsePath(tt.expr))
			got := values(slots)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%s) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestResolve_MixedRecursiveOrdering(t *testing.T) {
	// Canonical order: pre-order from the root outward, object members
	// lexically, array elements ascending.
	doc := mustDoc(t, `{
		"b": {"id": 2},
		"a": [{"id": 0}, {"id": 1}],
		"id": 9
	}`)

	slots := document.Resolve(&doc, document.MustParsePath("$..id"))
	got := values(slots)
	want := []any{0.0, 1.0, 2.0, 9.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSlot_SetWritesInPlace(t *testing.T) {
	doc := mustDoc(t, `{"items": [1, 2], "meta": {"n": 3}}`)

	for _, s := range document.Resolve(&doc, document.MustParsePath("$.items[*]")) {
		n, _ := document.Number(s.Get())
		s.Set(n * 10)
	}
	for _, s := range document.Resolve(&doc, document.MustParsePath("$.meta.n")) {
		s.Set("three")
	}

	want := mustDoc(t, `{"items": [10, 20], "meta": {"n": "three"}}`)
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %v, want %v", doc, want)
	}
}

func TestSlot_RootReplacement(t *testing.T) {
	doc := mustDoc(t, `"scalar"`)

	slots := document.Resolve(&doc, document.MustParsePath("$"))
	if len(slots) != 1 {
		t.Fatalf("expected 1 root slot, got %d", len(slots))
	}
	slots[0].Set(map[string]any{"replaced": true})

	if m, ok := doc.(map[string]any); !ok || m["replaced"] != true {
		t.Errorf("root not replaced: %v", doc)
	}
}

func TestSlot_StableAcrossMutation(t *testing.T) {
	// Mutating a slot's value must not change its address: a second
	// write through the same slot lands in the same place.
	doc := mustDoc(t, `{"v": 1}`)
	slot := document.Resolve(&doc, document.MustParsePath("$.v"))[0]

	slot.Set([]any{1.0, 2.0})
	slot.Set("final")

	want := mustDoc(t, `{"v": "final"}`)
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %v, want %v", doc, want)
	}
}
