// AngelaMos | 2026
// sender.go

package notify

import (
	"context"
	"log/slog"

	"github.com/carterperez-dev/reviewboard/internal/config"
)

// Sender delivers a confirmation code to a recipient address.
type Sender interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// New picks the SMTP sender when smtp is enabled and the log sender
// otherwise. The log sender is for development only; validate() refuses
// a production config without smtp.
func New(cfg config.SMTPConfig, appName string) Sender {
	if cfg.Enabled {
		return NewSMTPSender(cfg, appName)
	}
	return &LogSender{}
}

// LogSender writes the code to the application log instead of sending
// mail.
type LogSender struct{}

func (s *LogSender) SendConfirmationCode(
	_ context.Context,
	email, code string,
) error {
	slog.Info("confirmation code issued (log sender)",
		"email", email,
		"code", code,
	)
	return nil
}
