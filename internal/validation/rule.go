package validation

// Check reports whether value satisfies a constraint. present is false when
// the field was not submitted. payload is the normalized copy of the whole
// submission, available to cross-field checks.
//
// Checks must be deterministic and must not modify payload.
type Check func(value string, present bool, payload Payload) bool

// Normalizer transforms a field value before any check sees it
type Normalizer func(string) string

// Rule a single constraint on one payload field
type Rule struct {
	Field     string
	Check     Check
	Message   string
	Normalize Normalizer // optional
}

// Spec a check paired with the message reported when it fails
type Spec struct {
	Check   Check
	Message string
}

// Must pair check with its violation message
func Must(check Check, message string) Spec {
	return Spec{Check: check, Message: message}
}

// On expand specs into rules for field, in the given order.
//
// normalize may be nil. It is attached to the first rule only, so the runner
// transforms the field exactly once.
func On(field string, normalize Normalizer, specs ...Spec) []Rule {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r := Rule{
			Field:   field,
			Check:   spec.Check,
			Message: spec.Message,
		}
		if i == 0 {
			r.Normalize = normalize
		}
		rules = append(rules, r)
	}
	return rules
}
