package mail

import (
	"context"

	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// LogMailer write mails to the request logger instead of sending them,
// used when no smtp host is configured
type LogMailer struct{}

var _ Mailer = LogMailer{}

// SendPasswordReset implement Mailer
func (LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	logging.ExtractLoggerFromContext(ctx).Info("password reset mail",
		zap.String("mail.to", to),
		zap.String("mail.subject", subjectPasswordReset),
		zap.String("mail.link", link),
	)
	return nil
}
