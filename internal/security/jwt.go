package security

import (
	"errors"
	"fmt"
	"time"

	"social-scheduler/config"
	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Subject : данные пользователя, которые попадают в токены
type Subject struct {
	UserUUID string
	Role     model.Role
	Email    string
}

func SubjectOf(user *model.User) Subject {
	return Subject{UserUUID: user.UUID, Role: user.Role, Email: user.Email}
}

type Claims struct {
	UserUUID  string     `json:"userId"`
	Role      model.Role `json:"role,omitempty"`
	Email     string     `json:"email,omitempty"`
	TokenType string     `json:"typ"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secretKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService : ошибка здесь означает неверную конфигурацию и должна останавливать запуск
func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("[JWT] пустой секрет подписи")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("[JWT] время жизни токенов должно быть положительным")
	}

	return &JWTService{
		secretKey:  []byte(cfg.SecretKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}, nil
}

// WithClock : подмена часов для тестов
func (service *JWTService) WithClock(now func() time.Time) *JWTService {
	service.now = now
	return service
}

func (service *JWTService) AccessTokenTTL() time.Duration {
	return service.accessTTL
}

func (service *JWTService) RefreshTokenTTL() time.Duration {
	return service.refreshTTL
}

// IssueAccessToken : claims {userId, role, email}
func (service *JWTService) IssueAccessToken(subject Subject) (string, error) {
	return service.sign(Claims{
		UserUUID:  subject.UserUUID,
		Role:      subject.Role,
		Email:     subject.Email,
		TokenType: TokenTypeAccess,
	}, service.accessTTL)
}

// IssueRefreshToken : claims {userId, role}
func (service *JWTService) IssueRefreshToken(subject Subject) (string, error) {
	return service.sign(Claims{
		UserUUID:  subject.UserUUID,
		Role:      subject.Role,
		TokenType: TokenTypeRefresh,
	}, service.refreshTTL)
}

func (service *JWTService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := service.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserUUID,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secretKey)
	if err != nil {
		return "", fmt.Errorf("[JWT] ошибка подписи токена: %w", err)
	}
	return token, nil
}

// ParseAccessToken : apperror.ErrTokenExpired для истекшего токена, apperror.ErrInvalidToken для остальных
func (service *JWTService) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims, err := service.parse(tokenStr, TokenTypeAccess)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, fmt.Errorf("[JWT] %w", apperror.ErrTokenExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("[JWT] %w: %v", apperror.ErrInvalidToken, err)
	}
	return claims, nil
}

// ParseRefreshToken : любая ошибка проверки - apperror.ErrInvalidRefreshToken
func (service *JWTService) ParseRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := service.parse(tokenStr, TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("[JWT] %w: %v", apperror.ErrInvalidRefreshToken, err)
	}
	return claims, nil
}

func (service *JWTService) parse(tokenStr, tokenType string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("ожидался токен типа %q, получен %q", tokenType, claims.TokenType)
	}
	if claims.UserUUID == "" {
		return nil, fmt.Errorf("в токене нет userId")
	}
	return claims, nil
}
