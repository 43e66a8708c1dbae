// Package validation checks submitted form payloads against named rule sets.
//
// A rule set is an ordered list of field rules. The Runner normalizes a copy
// of the payload (trimmed strings, canonical emails), evaluates every field,
// stops at the first failing rule of each field and collects one Violation
// per failure. Report turns the result into the JSON body handed back to the
// client:
//
//	{"success": false, "errors": [{"param": "email", "msg": "..."}]}
//
// Rule sets are built once and never modified, so a Registry and a Runner can
// be shared by any number of concurrent requests.
package validation
