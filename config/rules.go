package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/document"
	"github.com/CBIIT/ccdi-dcc-federation-service/domain/rule"
)

// ruleFile is the on-disk shape of a rule source.
type ruleFile struct {
	Rules []ruleRecord `yaml:"rules"`
}

type ruleRecord struct {
	ID        string         `yaml:"id"`
	When      string         `yaml:"when"`
	Condition *condRecord    `yaml:"condition"`
	Action    map[string]any `yaml:"action"`
}

type condRecord struct {
	Op    string `yaml:"op"`
	Value any    `yaml:"value"`
}

// LoadRules reads and validates a YAML rule file and constructs an
// immutable RuleSet. Validation is all-or-nothing: any malformed record
// rejects the whole file and no RuleSet is produced.
func LoadRules(path string) (*rule.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rules := make([]rule.Rule, 0, len(file.Rules))
	seen := make(map[string]bool, len(file.Rules))
	for i, rec := range file.Rules {
		r, err := buildRule(rec)
		if err != nil {
			if rec.ID != "" {
				return nil, fmt.Errorf("rule %q: %w", rec.ID, err)
			}
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("rule %q: duplicate id", r.ID)
		}
		seen[r.ID] = true
		rules = append(rules, r)
	}
	return rule.NewRuleSet(rules), nil
}

func buildRule(rec ruleRecord) (rule.Rule, error) {
	if rec.ID == "" {
		return rule.Rule{}, fmt.Errorf("missing id")
	}
	if rec.When == "" {
		return rule.Rule{}, fmt.Errorf("missing when")
	}

	path, err := document.ParsePath(rec.When)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("when: %w", err)
	}

	r := rule.Rule{ID: rec.ID, Path: path}

	if rec.Condition != nil {
		cond, err := rule.NewCondition(rec.Condition.Op, rec.Condition.Value)
		if err != nil {
			return rule.Rule{}, fmt.Errorf("condition: %w", err)
		}
		r.Condition = cond
	}

	if rec.Action == nil {
		return rule.Rule{}, fmt.Errorf("missing action")
	}
	op, _ := rec.Action["op"].(string)
	if op == "" {
		return rule.Rule{}, fmt.Errorf("action: missing op")
	}
	action, err := rule.NewAction(op, rec.Action)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("action: %w", err)
	}
	r.Action = action

	return r, nil
}
