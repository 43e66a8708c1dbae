package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordPolicies(t *testing.T) {
	cases := []struct {
		password string
		strong   bool
		strict   bool
	}{
		{"Abc123", true, false},
		{"Abc12", false, false},
		{"abc123", false, false},
		{"ABC123", false, false},
		{"Abcdef", false, false},
		{"Abc123!", true, false},
		{"Abcd123!", true, true},
		{"Abcd1234", true, false},
		{"Ab1!", false, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.strong, IsStrongPassword(c.password), "strong %q", c.password)
		assert.Equal(t, c.strict, IsStrictPassword(c.password), "strict %q", c.password)
	}
}

func TestPasswordComposition_ASCIIOnly(t *testing.T) {
	assert.False(t, PasswordComposition("şifreĞ12", true, nil))
	assert.True(t, PasswordComposition("şifreG12", true, nil))
}

func TestLength(t *testing.T) {
	check := Length(2, 4)
	assert.False(t, check("ş", true, nil))
	assert.True(t, check("şş", true, nil))
	assert.True(t, check("şşşş", true, nil))
	assert.False(t, check("şşşşş", true, nil))
	assert.True(t, MinLength(1)("a very long value", true, nil))
}

func TestRequired(t *testing.T) {
	assert.False(t, Required("", false, nil))
	assert.False(t, Required("", true, nil))
	assert.True(t, Required(" ", true, nil))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("user@example.com"))
	assert.True(t, IsEmail("first.last+tag@shop.example.co"))
	assert.False(t, IsEmail("user@"))
	assert.False(t, IsEmail("user.example.com"))
	assert.False(t, IsEmail(""))
}

func TestCrossFieldMissingSibling(t *testing.T) {
	payload := Payload{"a": "x"}
	assert.False(t, EqualsField("b")("x", true, payload))
	assert.True(t, EqualsField("a")("x", true, payload))
	assert.False(t, EqualsField("a")("", false, Payload{"a": ""}))

	assert.True(t, NotEqualsField("b")("x", true, payload))
	assert.False(t, NotEqualsField("a")("x", true, payload))
	assert.True(t, NotEqualsField("a")("y", true, payload))
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "user@example.com", CanonicalEmail(" User@EXAMPLE.com "))
	assert.Equal(t, "ş", NFC("ş"))
	assert.Equal(t, "Ayşe", Chain(Trim, NFC)("  Ayşe\t"))
}
