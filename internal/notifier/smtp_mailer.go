package notifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"social-scheduler/config"
	"social-scheduler/internal/util"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const gmailScope = "https://mail.google.com/"

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer : отправка писем через SMTP с авторизацией XOAUTH2 (Gmail)
type SMTPMailer struct {
	cfg             config.MailConfig
	appURL          string
	verificationTTL time.Duration
	resetTTL        time.Duration
	tokens          oauth2.TokenSource
	send            sendFunc
}

func NewSMTPMailer(ctx context.Context, cfg config.MailConfig, appURL string, ttl config.TTL) (*SMTPMailer, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("[Mailer] не заданы OAuth2-учетные данные почты")
	}
	if cfg.From == "" {
		return nil, errors.New("[Mailer] не задан адрес отправителя")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{gmailScope},
	}

	// TokenSource сам обновляет access токен по refresh токену и кэширует его до истечения
	tokens := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return newSMTPMailer(cfg, appURL, ttl, tokens, smtp.SendMail), nil
}

func newSMTPMailer(cfg config.MailConfig, appURL string, ttl config.TTL, tokens oauth2.TokenSource, send sendFunc) *SMTPMailer {
	return &SMTPMailer{
		cfg:             cfg,
		appURL:          appURL,
		verificationTTL: ttl.VerificationToken,
		resetTTL:        ttl.ResetToken,
		tokens:          tokens,
		send:            send,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	return m.deliver(ctx, verificationMessage(m.appURL, to, token, m.verificationTTL))
}

func (m *SMTPMailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return m.deliver(ctx, resetPasswordMessage(m.appURL, to, token, m.resetTTL))
}

func (m *SMTPMailer) deliver(ctx context.Context, msg message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	accessToken, err := m.tokens.Token()
	if err != nil {
		return util.LogError("[Mailer] не удалось получить OAuth2 токен", err)
	}

	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := &xoauth2Auth{username: m.cfg.From, accessToken: accessToken.AccessToken}

	if err := m.send(addr, auth, m.cfg.From, []string{msg.to}, msg.bytes(m.cfg.From)); err != nil {
		return util.LogError("[Mailer] ошибка отправки письма", err)
	}
	return nil
}

// xoauth2Auth : SASL XOAUTH2, https://developers.google.com/gmail/imap/xoauth2-protocol
type xoauth2Auth struct {
	username    string
	accessToken string
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS && !isLocalhost(server.Name) {
		return "", nil, errors.New("XOAUTH2 без TLS запрещен")
	}
	return "XOAUTH2", []byte("user=" + a.username + "\x01auth=Bearer " + a.accessToken + "\x01\x01"), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// сервер прислал описание ошибки вместо успеха
		return nil, fmt.Errorf("XOAUTH2 отклонен сервером: %s", fromServer)
	}
	return nil, nil
}

func isLocalhost(name string) bool {
	return name == "localhost" || name == "127.0.0.1" || name == "::1" || strings.HasSuffix(name, ".localhost")
}
