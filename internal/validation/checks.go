package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// NamePattern letters of the Turkish alphabet and white space. White space is
// the full Unicode set, no-break and em spaces included, matching what Trim strips.
var NamePattern = regexp.MustCompile(`^[a-zA-ZğüşıöçĞÜŞİÖÇ\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+$`)

// engine is only used for single-value checks, it is safe for concurrent use
var engine = validator.New()

// Required the field was submitted and is not empty
func Required(value string, present bool, _ Payload) bool {
	return present && value != ""
}

// Length rune count within [min, max], max <= 0 means unbounded
func Length(min, max int) Check {
	return func(value string, _ bool, _ Payload) bool {
		n := utf8.RuneCountInString(value)
		if n < min {
			return false
		}
		return max <= 0 || n <= max
	}
}

// MinLength rune count of at least min
func MinLength(min int) Check {
	return Length(min, 0)
}

// Matches value matches re
func Matches(re *regexp.Regexp) Check {
	return func(value string, _ bool, _ Payload) bool {
		return re.MatchString(value)
	}
}

// Email value has the shape of an email address.
//
// The definition is go-playground's "email" rule: an RFC 5322 style local part,
// an "@" and a dotted host name, no display names and no comments.
func Email(value string, _ bool, _ Payload) bool {
	return IsEmail(value)
}

// IsEmail see Email
func IsEmail(value string) bool {
	return engine.Var(value, "email") == nil
}

// PasswordComposition at least one lower-case ASCII letter, one upper-case
// ASCII letter and one digit
func PasswordComposition(value string, _ bool, _ Payload) bool {
	lower, upper, digit, _ := passwordClasses(value)
	return lower && upper && digit
}

// IsStrongPassword the password policy of the account forms: six or more
// characters with a lower-case letter, an upper-case letter and a digit
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 6 {
		return false
	}
	lower, upper, digit, _ := passwordClasses(password)
	return lower && upper && digit
}

// IsStrictPassword the stricter policy: eight or more characters with a
// lower-case letter, an upper-case letter, a digit and a symbol
func IsStrictPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	lower, upper, digit, symbol := passwordClasses(password)
	return lower && upper && digit && symbol
}

func passwordClasses(s string) (lower, upper, digit, symbol bool) {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return
}

// EqualsField value equals the normalized value of other. A missing sibling
// never matches.
func EqualsField(other string) Check {
	return func(value string, present bool, payload Payload) bool {
		sibling, ok := payload.Get(other)
		return present && ok && value == sibling
	}
}

// NotEqualsField value differs from the normalized value of other. A missing
// sibling counts as different.
func NotEqualsField(other string) Check {
	return func(value string, _ bool, payload Payload) bool {
		sibling, ok := payload.Get(other)
		return !ok || value != sibling
	}
}
