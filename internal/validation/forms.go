package validation

import "fmt"

// rule set names
const (
	FormRegister       = "register"
	FormLogin          = "login"
	FormResetPassword  = "resetPassword"
	FormUpdateEmail    = "updateEmail"
	FormUpdatePassword = "updatePassword"
	FormForgotPassword = "forgotPassword"
	FormUpdateProfile  = "updateProfile"
)

var nameNormalizer = Chain(Trim, NFC)

func nameRules() []Rule {
	return On("name", nameNormalizer,
		Must(Required, MsgNameRequired),
		Must(Length(2, 50), MsgNameLength),
		Must(Matches(NamePattern), MsgNameAlphabet),
	)
}

func emailRules(field, required, invalid string, extra ...Spec) []Rule {
	specs := append([]Spec{
		Must(Required, required),
		Must(Email, invalid),
	}, extra...)
	return On(field, CanonicalEmail, specs...)
}

// RegisterRules new account
func RegisterRules() *RuleSet {
	return NewRuleSet(FormRegister,
		nameRules(),
		emailRules("email", MsgEmailRequired, MsgEmailInvalid),
		On("password", nil,
			Must(Required, MsgPasswordRequired),
			Must(MinLength(6), MsgPasswordLength),
			Must(PasswordComposition, MsgPasswordComposition),
		),
		On("confirmPassword", nil,
			Must(Required, MsgConfirmRequired),
			Must(EqualsField("password"), MsgConfirmMismatch),
		),
	)
}

// LoginRules sign in
func LoginRules() *RuleSet {
	return NewRuleSet(FormLogin,
		emailRules("email", MsgEmailRequired, MsgEmailInvalid),
		On("password", nil, Must(Required, MsgPasswordRequired)),
	)
}

// ResetPasswordRules set a new password through a reset link
func ResetPasswordRules() *RuleSet {
	return NewRuleSet(FormResetPassword,
		On("password", nil,
			Must(Required, MsgPasswordRequired),
			Must(MinLength(6), MsgPasswordLength),
			Must(PasswordComposition, MsgPasswordComposition),
		),
		On("confirmPassword", nil,
			Must(Required, MsgConfirmRequired),
			Must(EqualsField("password"), MsgConfirmMismatch),
		),
	)
}

// UpdateEmailRules change the email of a signed in account
func UpdateEmailRules() *RuleSet {
	return NewRuleSet(FormUpdateEmail,
		emailRules("currentEmail", MsgCurrentEmailRequired, MsgCurrentEmailInvalid),
		emailRules("newEmail", MsgNewEmailRequired, MsgNewEmailInvalid,
			Must(NotEqualsField("currentEmail"), MsgNewEmailSame),
		),
		On("password", nil, Must(Required, MsgPasswordRequired)),
	)
}

// UpdatePasswordRules change the password of a signed in account.
//
// Passwords are compared as submitted, they are never normalized.
func UpdatePasswordRules() *RuleSet {
	return NewRuleSet(FormUpdatePassword,
		On("currentPassword", nil, Must(Required, MsgCurrentPasswordRequired)),
		On("newPassword", nil,
			Must(Required, MsgNewPasswordRequired),
			Must(MinLength(6), MsgNewPasswordLength),
			Must(PasswordComposition, MsgNewPasswordComposition),
			Must(NotEqualsField("currentPassword"), MsgNewPasswordSame),
		),
		On("confirmPassword", nil,
			Must(Required, MsgConfirmRequired),
			Must(EqualsField("newPassword"), MsgConfirmMismatch),
		),
	)
}

// ForgotPasswordRules request a reset link
func ForgotPasswordRules() *RuleSet {
	return NewRuleSet(FormForgotPassword,
		emailRules("email", MsgEmailRequired, MsgEmailInvalid),
	)
}

// UpdateProfileRules rename a signed in account
func UpdateProfileRules() *RuleSet {
	return NewRuleSet(FormUpdateProfile, nameRules())
}

var defaultRegistry = mustRegistry(
	RegisterRules(),
	LoginRules(),
	ResetPasswordRules(),
	UpdateEmailRules(),
	UpdatePasswordRules(),
	ForgotPasswordRules(),
	UpdateProfileRules(),
)

// DefaultRegistry the account forms
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func mustRegistry(sets ...*RuleSet) *Registry {
	reg, err := NewRegistry(sets...)
	if err != nil {
		panic(fmt.Errorf("build rule sets: %w", err))
	}
	return reg
}
