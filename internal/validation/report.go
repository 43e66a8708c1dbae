package validation

// Response body returned to the client
type Response struct {
	Success bool        `json:"success"`
	Errors  []Violation `json:"errors,omitempty"`
}

// Report format result. Violations keep the runner's order and are never
// merged or dropped.
func Report(result *Result) *Response {
	if result.Valid {
		return &Response{Success: true}
	}
	errs := make([]Violation, len(result.Violations))
	copy(errs, result.Violations)
	return &Response{Success: false, Errors: errs}
}
