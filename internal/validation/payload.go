package validation

import (
	"fmt"

	"github.com/spf13/cast"
)

// Payload submitted field values keyed by field name. A missing key means the
// field was not submitted at all.
type Payload map[string]string

// Get returns the value of field and whether it was submitted
func (p Payload) Get(field string) (string, bool) {
	v, ok := p[field]
	return v, ok
}

// Clone returns a shallow copy, nil payloads become empty ones
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// PayloadFromMap coerce a decoded JSON object into a Payload.
//
// null values are treated as not submitted, scalars are converted to their
// string form, nested objects and arrays are rejected.
func PayloadFromMap(raw map[string]interface{}) (Payload, error) {
	payload := make(Payload, len(raw))
	for field, value := range raw {
		if value == nil {
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("field %q must be a scalar value", field)
		}
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		payload[field] = s
	}
	return payload, nil
}
