package validation

import (
	"errors"
	"fmt"
)

// ErrUnknownRuleSet no rule set registered under the requested name
var ErrUnknownRuleSet = errors.New("unknown rule set")

// ErrDuplicatedRuleSet two rule sets share a name
var ErrDuplicatedRuleSet = errors.New("duplicated rule set")

// RuleSet ordered rules of one form. It can't be modified after construction.
type RuleSet struct {
	name  string
	rules []Rule
}

// NewRuleSet flatten groups into a rule set named name
func NewRuleSet(name string, groups ...[]Rule) *RuleSet {
	var rules []Rule
	for _, g := range groups {
		rules = append(rules, g...)
	}
	return &RuleSet{name: name, rules: rules}
}

// Name identifies the form
func (rs *RuleSet) Name() string {
	return rs.name
}

// Rules returns a copy of the rules in declaration order
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Fields distinct field names in declaration order
func (rs *RuleSet) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, r := range rs.rules {
		if !seen[r.Field] {
			seen[r.Field] = true
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Registry rule sets by name
type Registry struct {
	sets  map[string]*RuleSet
	names []string
}

// NewRegistry index sets by name, names must be unique
func NewRegistry(sets ...*RuleSet) (*Registry, error) {
	reg := &Registry{sets: make(map[string]*RuleSet, len(sets))}
	for _, s := range sets {
		if _, ok := reg.sets[s.name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatedRuleSet, s.name)
		}
		reg.sets[s.name] = s
		reg.names = append(reg.names, s.name)
	}
	return reg, nil
}

// Lookup find the rule set registered as name
func (reg *Registry) Lookup(name string) (*RuleSet, error) {
	if s, ok := reg.sets[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRuleSet, name)
}

// Names registered set names in registration order
func (reg *Registry) Names() []string {
	out := make([]string, len(reg.names))
	copy(out, reg.names)
	return out
}
