package mail

import (
	"bytes"
	"context"
	"html/template"
)

const subjectPasswordReset = "Şifre sıfırlama"

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Şifrenizi sıfırlamak için aşağıdaki bağlantıya tıklayın:</p>
<p><a href="{{.Link}}">Şifremi sıfırla</a></p>
<p>Bu isteği siz yapmadıysanız bu e-postayı yok sayabilirsiniz.</p>
</body>
</html>`))

// Mailer outgoing account mails
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

func renderPasswordReset(link string) (string, error) {
	var buf bytes.Buffer
	if err := passwordResetTemplate.Execute(&buf, struct{ Link string }{link}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
