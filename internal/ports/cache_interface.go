package ports

import (
	"context"

	"social-scheduler/internal/model"
)

// UserCache : Redis слой. Промах кэша - (nil, nil).
type UserCache interface {
	SetUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, uuid string) (*model.User, error)
	DeleteUser(ctx context.Context, uuid string) error
}
