package ports

import (
	"context"

	"social-scheduler/internal/model"
)

type AuthenticationService interface {
	Signup(ctx context.Context, input model.NewUser) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	ResolveUser(ctx context.Context, uuid string) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
	ResendVerificationEmail(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, passwordConfirmation string) error
	VerifyResetToken(ctx context.Context, token string) error
}
