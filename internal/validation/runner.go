package validation

import "fmt"

// Violation one failed rule
type Violation struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// Result outcome of validating one payload
type Result struct {
	Set        string
	Valid      bool
	Violations []Violation
	Normalized Payload // normalized copy of the submission
}

// Value normalized value of field, empty if it was not submitted
func (r *Result) Value(field string) string {
	return r.Normalized[field]
}

// RuleError a check panicked. It is a programming error, never a violation.
type RuleError struct {
	Set   string
	Field string
	Cause interface{}
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule set %s: check on field %s failed: %v", e.Set, e.Field, e.Cause)
}

// Unwrap expose the panic value when it was an error
func (e *RuleError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Runner applies registered rule sets to payloads
type Runner struct {
	registry *Registry
}

// NewRunner create a Runner over registry
func NewRunner(registry *Registry) *Runner {
	return &Runner{registry: registry}
}

// Registry rule sets known to the runner
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Validate apply the rule set named set to payload.
//
// The error is non-nil only for programming errors: an unknown set name or a
// panicking check. payload itself is never modified.
func (r *Runner) Validate(set string, payload Payload) (*Result, error) {
	rs, err := r.registry.Lookup(set)
	if err != nil {
		return nil, err
	}
	return Apply(rs, payload)
}

// Apply validate payload against rs.
//
// Every rule's normalizer runs first, in declaration order, on a private copy,
// so cross-field checks see normalized siblings. Rules then run in
// declaration order; once a field fails, its remaining rules are skipped.
func Apply(rs *RuleSet, payload Payload) (result *Result, err error) {
	var current Rule
	defer func() {
		if cause := recover(); cause != nil {
			result = nil
			err = &RuleError{Set: rs.name, Field: current.Field, Cause: cause}
		}
	}()

	normalized := payload.Clone()
	for _, rule := range rs.rules {
		current = rule
		if rule.Normalize == nil {
			continue
		}
		if v, ok := normalized[rule.Field]; ok {
			normalized[rule.Field] = rule.Normalize(v)
		}
	}

	var violations []Violation
	failed := make(map[string]bool)
	for _, rule := range rs.rules {
		current = rule
		if failed[rule.Field] {
			continue
		}
		v, present := normalized[rule.Field]
		if !rule.Check(v, present, normalized) {
			failed[rule.Field] = true
			violations = append(violations, Violation{Param: rule.Field, Msg: rule.Message})
		}
	}

	return &Result{
		Set:        rs.name,
		Valid:      len(violations) == 0,
		Violations: violations,
		Normalized: normalized,
	}, nil
}
