package client

import "net/url"

// Navigator : переход на другую страницу приложения
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Decision : результат проверки маршрута
type Decision struct {
	Allowed  bool
	Redirect string
}

// RouteGuard : синхронная проверка перед показом защищенной страницы, без сетевых вызовов
type RouteGuard struct {
	session   *Session
	loginPath string
}

func NewRouteGuard(session *Session, loginPath string) *RouteGuard {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return &RouteGuard{session: session, loginPath: loginPath}
}

// Check : без личности в сессии - редирект на вход с исходным адресом в from
func (g *RouteGuard) Check(target string) Decision {
	if _, ok := g.session.User(); ok {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: g.loginPath + "?from=" + url.QueryEscape(target)}
}

// Guard : Check с переходом через navigator при отказе
func (g *RouteGuard) Guard(target string, navigator Navigator) bool {
	decision := g.Check(target)
	if !decision.Allowed && navigator != nil {
		navigator.Navigate(decision.Redirect)
	}
	return decision.Allowed
}
