// Package sandbox provides the permission overlay consulted by the dispatch
// facade before it exposes a resolved member. A denied member is
// indistinguishable from a missing one.
package sandbox

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kea-lang/kea/internal/introspection"
)

// Rule scopes allow/deny member lists to one runtime type name. When an
// allow list exists for an operation, only its members pass (fail closed);
// deny lists subtract from whatever is otherwise permitted. "*" matches any
// member.
type Rule struct {
	Type  string              `yaml:"type"`
	Allow map[string][]string `yaml:"allow"`
	Deny  map[string][]string `yaml:"deny"`
}

// Policy is a set of rules keyed by type name. Types without a rule are
// unrestricted.
type Policy struct {
	rules map[string]*Rule
}

// NewPolicy builds a policy from rules.
func NewPolicy(rules ...*Rule) *Policy {
	p := &Policy{rules: make(map[string]*Rule)}
	for _, r := range rules {
		p.rules[r.Type] = r
	}
	return p
}

// policyDoc is the YAML document shape.
type policyDoc struct {
	Rules []*Rule `yaml:"rules"`
}

// Load parses a YAML policy document.
func Load(r io.Reader) (*Policy, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading policy: %w", err)
	}
	var doc policyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	for _, rule := range doc.Rules {
		if rule.Type == "" {
			return nil, fmt.Errorf("parsing policy: rule without a type")
		}
	}
	return NewPolicy(doc.Rules...), nil
}

// Allow implements introspection.Permissions.
func (p *Policy) Allow(typeName, member string, op introspection.Operation) bool {
	rule, ok := p.rules[typeName]
	if !ok {
		return true
	}
	opName := op.String()
	if denied := rule.Deny[opName]; matches(denied, member) {
		return false
	}
	if allowed, ok := rule.Allow[opName]; ok {
		return matches(allowed, member)
	}
	// A rule with only deny lists permits everything else.
	return true
}

func matches(members []string, member string) bool {
	for _, m := range members {
		if m == "*" || strings.EqualFold(m, member) {
			return true
		}
	}
	return false
}
