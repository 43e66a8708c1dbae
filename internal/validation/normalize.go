package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Trim strip leading and trailing white space
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NFC compose decomposed letters, so "s" followed by a combining cedilla
// becomes "ş" and matches the name alphabet
func NFC(s string) string {
	return norm.NFC.String(s)
}

// CanonicalEmail trim and lower-case an email address.
//
// Both the local part and the domain are folded, so " User@EXAMPLE.com "
// and "user@example.com" compare equal.
func CanonicalEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Chain apply normalizers left to right
func Chain(normalizers ...Normalizer) Normalizer {
	return func(s string) string {
		for _, fn := range normalizers {
			s = fn(s)
		}
		return s
	}
}
