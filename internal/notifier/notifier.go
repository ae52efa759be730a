// Package notifier отправляет письма жизненного цикла учетной записи:
// подтверждение почты и сброс пароля.
package notifier

import (
	"context"
	"fmt"

	"social-scheduler/config"
	"social-scheduler/internal/ports"
)

const (
	ProviderSMTP = "smtp"
	ProviderLog  = "log"
)

// NewMailer : выбирает провайдера по mail.provider
func NewMailer(ctx context.Context, cfg *config.AppConfig) (ports.Mailer, error) {
	switch cfg.Mail.Provider {
	case ProviderSMTP:
		return NewSMTPMailer(ctx, cfg.Mail, cfg.AppURL, cfg.TTL)
	case ProviderLog, "":
		return NewLogMailer(cfg.AppURL), nil
	default:
		return nil, fmt.Errorf("[Mailer] неизвестный провайдер почты %q", cfg.Mail.Provider)
	}
}
