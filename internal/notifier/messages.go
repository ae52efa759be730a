package notifier

import (
	"fmt"
	"strings"
	"time"
)

func VerificationLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/verify-email/" + token
}

func ResetPasswordLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/reset-password/" + token
}

type message struct {
	to      string
	subject string
	body    string
}

func verificationMessage(appURL, to, token string, ttl time.Duration) message {
	return message{
		to:      to,
		subject: "Verify your email",
		body: fmt.Sprintf("Welcome!\r\n\r\nConfirm your email address by opening the link below:\r\n%s\r\n\r\nThe link is valid for %s.\r\n",
			VerificationLink(appURL, token), ttl),
	}
}

func resetPasswordMessage(appURL, to, token string, ttl time.Duration) message {
	return message{
		to:      to,
		subject: "Reset your password",
		body: fmt.Sprintf("A password reset was requested for your account.\r\n\r\nOpen the link below to choose a new password:\r\n%s\r\n\r\nThe link is valid for %s. If you did not request a reset, ignore this email.\r\n",
			ResetPasswordLink(appURL, token), ttl),
	}
}

// bytes : письмо в формате RFC 5322, только текст
func (m message) bytes(from string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + m.to + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
