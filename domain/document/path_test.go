package document_test

import (
	"testing"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
)

func TestParsePath_Valid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"root only", "$"},
		{"direct member", "$.code"},
		{"nested members", "$.subject.sample.code"},
		{"quoted member", `$["library selection method"]`},
		{"single quoted member", "$['odd.key']"},
		{"index", "$.items[0]"},
		{"wildcard dot", "$.*"},
		{"wildcard bracket", "$.items[*]"},
		{"recursive descent", "$..code"},
		{"recursive wildcard", "$..*"},
		{"filter equality", `$.items[?(@.type == "blood")]`},
		{"filter inequality", "$.items[?(@.count != 0)]"},
		{"filter null literal", "$.items[?(@.value == null)]"},
		{"filter bool literal", "$.items[?(@.active == true)]"},
		{"mixed", `$..samples[*].diagnoses[?(@.code == "C64")]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := document.ParsePath(tt.expr)
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.expr, err)
			}
			if p.String() != tt.expr {
				t.Errorf("String() = %q, want %q", p.String(), tt.expr)
			}
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"missing root", ".code"},
		{"bare name", "code"},
		{"trailing dot", "$.code."},
		{"empty brackets", "$[]"},
		{"unterminated bracket", "$[0"},
		{"negative index", "$[-1]"},
		{"fractional index", "$[1.5]"},
		{"unterminated string", `$["code]`},
		{"filter without field", "$[?(== 1)]"},
		{"filter without operator", "$[?(@.a 1)]"},
		{"filter bad literal", "$[?(@.a == nope)]"},
		{"filter missing paren", "$[?(@.a == 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := document.ParsePath(tt.expr); err == nil {
				t.Errorf("ParsePath(%q) succeeded, want error", tt.expr)
			}
		})
	}
}

func TestPath_IsRoot(t *testing.T) {
	if !document.MustParsePath("$").IsRoot() {
		t.Error("$ should be root")
	}
	if document.MustParsePath("$.a").IsRoot() {
		t.Error("$.a should not be root")
	}
}
