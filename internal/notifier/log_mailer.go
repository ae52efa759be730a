package notifier

import (
	"context"
	"log"
)

// LogMailer : провайдер для разработки, ссылки пишутся в лог вместо отправки
type LogMailer struct {
	appURL string
}

func NewLogMailer(appURL string) *LogMailer {
	return &LogMailer{appURL: appURL}
}

func (m *LogMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	log.Printf("[Mailer] письмо подтверждения для %s: %s", to, VerificationLink(m.appURL, token))
	return nil
}

func (m *LogMailer) SendResetPasswordEmail(_ context.Context, to, token string) error {
	log.Printf("[Mailer] письмо сброса пароля для %s: %s", to, ResetPasswordLink(m.appURL, token))
	return nil
}
