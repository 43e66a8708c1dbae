package validation

// violation messages shown to the customer
const (
	MsgNameRequired = "İsim alanı zorunludur"
	MsgNameLength   = "İsim 2 ile 50 karakter arasında olmalıdır"
	MsgNameAlphabet = "İsim sadece harf ve boşluk içerebilir"

	MsgEmailRequired = "E-posta alanı zorunludur"
	MsgEmailInvalid  = "Geçerli bir e-posta adresi giriniz"

	MsgCurrentEmailRequired = "Mevcut e-posta alanı zorunludur"
	MsgCurrentEmailInvalid  = "Mevcut e-posta adresi geçersiz"
	MsgNewEmailRequired     = "Yeni e-posta alanı zorunludur"
	MsgNewEmailInvalid      = "Geçerli bir yeni e-posta adresi giriniz"
	MsgNewEmailSame         = "Yeni e-posta adresi mevcut e-posta adresiyle aynı olamaz"

	MsgPasswordRequired    = "Şifre alanı zorunludur"
	MsgPasswordLength      = "Şifre en az 6 karakter olmalıdır"
	MsgPasswordComposition = "Şifre en az bir küçük harf, bir büyük harf ve bir rakam içermelidir"

	MsgConfirmRequired = "Şifre tekrarı zorunludur"
	MsgConfirmMismatch = "Şifreler eşleşmiyor"

	MsgCurrentPasswordRequired = "Mevcut şifre alanı zorunludur"
	MsgNewPasswordRequired     = "Yeni şifre alanı zorunludur"
	MsgNewPasswordLength       = "Yeni şifre en az 6 karakter olmalıdır"
	MsgNewPasswordComposition  = "Yeni şifre en az bir küçük harf, bir büyük harf ve bir rakam içermelidir"
	MsgNewPasswordSame         = "Yeni şifre mevcut şifreyle aynı olamaz"
)
