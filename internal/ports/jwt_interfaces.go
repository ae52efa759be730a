package ports

import "social-scheduler/internal/security"

type JWTServiceInterface interface {
	IssueAccessToken(subject security.Subject) (string, error)
	IssueRefreshToken(subject security.Subject) (string, error)
	ParseAccessToken(tokenStr string) (*security.Claims, error)
	ParseRefreshToken(tokenStr string) (*security.Claims, error)
}
