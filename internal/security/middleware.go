package security

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/util"
)

type contextKey string

const (
	IdentityContextKey contextKey = "identity"
)

// Identity : результат проверки сессии, передается дальше явно
type Identity struct {
	Claims *Claims
	User   *model.User
}

// UserResolver : загрузка актуальной учетной записи по userId из токена
type UserResolver interface {
	ResolveUser(ctx context.Context, uuid string) (*model.User, error)
}

// JWTMiddleware : access токен берется из куки, затем из заголовка Authorization: Bearer.
// Если resolver == nil, identity строится только из claims.
func JWTMiddleware(jwtService *JWTService, resolver UserResolver, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := authenticate(request, jwtService, resolver, cookieName)
			if err != nil {
				util.WriteError(writer, err)
				return
			}

			ctx := context.WithValue(request.Context(), IdentityContextKey, identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func authenticate(request *http.Request, jwtService *JWTService, resolver UserResolver, cookieName string) (*Identity, error) {
	token, err := extractToken(request, cookieName)
	if err != nil {
		return nil, err
	}

	claims, err := jwtService.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	identity := &Identity{Claims: claims}
	if resolver == nil {
		identity.User = &model.User{UUID: claims.UserUUID, Role: claims.Role, Email: claims.Email}
		return identity, nil
	}

	user, err := resolver.ResolveUser(request.Context(), claims.UserUUID)
	if err != nil {
		return nil, fmt.Errorf("[Middleware] %w", err)
	}
	identity.User = user
	return identity, nil
}

func extractToken(request *http.Request, cookieName string) (string, error) {
	if cookie, err := request.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authorizationHeader := request.Header.Get("Authorization")
	if authorizationHeader == "" {
		return "", apperror.ErrNoToken
	}

	token, found := strings.CutPrefix(authorizationHeader, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" || strings.Contains(token, " ") {
		return "", apperror.ErrInvalidFormat
	}
	return token, nil
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}

// RequireRole : пропускает только перечисленные роли. Ставится после JWTMiddleware.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				util.WriteError(w, apperror.ErrNoToken)
				return
			}
			if !slices.Contains(roles, identity.User.Role) {
				util.WriteError(w, apperror.Authorization(apperror.CodeForbidden, "Forbidden - insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission : суперадмин проходит всегда
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				util.WriteError(w, apperror.ErrNoToken)
				return
			}
			if !identity.User.HasPermission(permission) {
				util.WriteError(w, apperror.Authorization(apperror.CodeForbidden, "Forbidden - missing permission "+permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
