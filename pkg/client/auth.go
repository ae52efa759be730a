package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

type userEnvelope struct {
	User *User `json:"user"`
}

// LoadSession : GET /me при старте приложения. 401 и 404 означают отсутствие сессии
// и ошибкой не считаются.
func (c *Client) LoadSession(ctx context.Context) error {
	var resp userEnvelope
	err := c.Get(ctx, "/me", &resp)

	var statusErr *StatusError
	switch {
	case err == nil:
		c.session.Set(resp.User)
		return nil
	case errors.As(err, &statusErr) &&
		(statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusNotFound):
		c.session.Clear()
		return nil
	default:
		c.session.Clear()
		return err
	}
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	var resp userEnvelope
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.PostJSON(ctx, "/signup", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login : куки сохраняются в jar, пользователь - в сессии
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp userEnvelope
	body := map[string]string{"email": email, "password": password}
	if err := c.PostJSON(ctx, DefaultLoginPath, body, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.User)
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	return c.PostJSON(ctx, "/logout", nil, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (*User, error) {
	var resp userEnvelope
	if err := c.Get(ctx, "/verify-email/"+url.PathEscape(token), &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ResendVerificationEmail(ctx context.Context, email string) error {
	return c.PostJSON(ctx, "/resend-verification-email", map[string]string{"email": email}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.PostJSON(ctx, "/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	body := map[string]string{"password": password, "password_confirmation": confirmation}
	return c.PostJSON(ctx, "/reset-password/"+url.PathEscape(token), body, nil)
}

func (c *Client) VerifyResetToken(ctx context.Context, token string) error {
	return c.Get(ctx, "/verify-reset-token/"+url.PathEscape(token), nil)
}
