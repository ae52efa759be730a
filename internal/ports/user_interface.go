package ports

import (
	"context"
	"time"

	"social-scheduler/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository : SQL слой учетных записей
type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	FindByEmailOrName(ctx context.Context, exec sqlx.ExtContext, email, name string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error)
	FindByResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error)
	SetVerificationToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error
	SetResetToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error
	MarkVerified(ctx context.Context, exec sqlx.ExtContext, uuid string, keepTokenUntil *time.Time) error
	ConsumeResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time, newPasswordHash string) (string, error)
	UpdateRoleAndPermissions(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, permissions []string) (*model.User, error)
	DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error
	ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error)
	ClearExpiredTokens(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error)
}

type UserService interface {
	ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error)
	GetUser(ctx context.Context, uuid string) (*model.User, error)
	CreateUser(ctx context.Context, actor *model.User, input model.NewUser) (*model.User, error)
	UpdateRoleAndPermissions(ctx context.Context, actor *model.User, uuid string, role model.Role, permissions *[]string) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, uuid string) error
}
