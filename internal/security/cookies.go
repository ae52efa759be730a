package security

import (
	"net/http"
	"time"

	"social-scheduler/config"
)

// CookieManager : выставляет и очищает пару auth-кук
type CookieManager struct {
	cfg        config.CookieConfig
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookieManager(cfg config.CookieConfig, secure bool, accessTTL, refreshTTL time.Duration) *CookieManager {
	return &CookieManager{cfg: cfg, secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (m *CookieManager) AccessCookieName() string {
	return m.cfg.AccessName
}

func (m *CookieManager) SetAccessToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(m.cfg.AccessName, token, int(m.accessTTL.Seconds())))
}

func (m *CookieManager) SetRefreshToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(m.cfg.RefreshName, token, int(m.refreshTTL.Seconds())))
}

// Clear : обе куки с истекшим сроком
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(m.cfg.AccessName, "", -1))
	http.SetCookie(w, m.cookie(m.cfg.RefreshName, "", -1))
}

func (m *CookieManager) RefreshToken(r *http.Request) string {
	cookie, err := r.Cookie(m.cfg.RefreshName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (m *CookieManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.cfg.Path,
		Domain:   m.cfg.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
