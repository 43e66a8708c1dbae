package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	AppID string `mapstructure:"app_id" validate:"required"`
	Env   string `mapstructure:"env" validate:"oneof=development production"`
	Mail  struct {
		Port int `mapstructure:"port" validate:"max=65535"`
	} `mapstructure:"mail"`
}

func TestStruct(t *testing.T) {
	v := NewValidator()
	s := sample{Env: "staging"}
	s.Mail.Port = 70000

	errs := v.Struct(&s)
	if assert.Len(t, errs, 3) {
		assert.Equal(t, "app_id", errs[0].Domain)
		assert.Contains(t, errs[0].Reason, "required")
		assert.Equal(t, "env", errs[1].Domain)
		assert.Equal(t, "mail.port", errs[2].Domain)
	}

	s = sample{AppID: "storefront", Env: "production"}
	assert.Nil(t, v.Struct(&s))
}

func TestEmpty(t *testing.T) {
	v := NewValidator()
	errs := v.Empty("email", "")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, &FieldError{Domain: "email", Reason: "email is required"}, errs[0])
	}
	assert.Nil(t, v.Empty("email", "a@b.co"))
}
