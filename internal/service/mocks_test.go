package service_test

import (
	"context"
	"time"

	"social-scheduler/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) user(args mock.Arguments) (*model.User, error) {
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	return m.user(m.Called(ctx, exec, user))
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	return m.user(m.Called(ctx, exec, uuid))
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	return m.user(m.Called(ctx, exec, email))
}

func (m *MockUserRepository) FindByEmailOrName(ctx context.Context, exec sqlx.ExtContext, email, name string) (*model.User, error) {
	return m.user(m.Called(ctx, exec, email, name))
}

func (m *MockUserRepository) FindByVerificationToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error) {
	return m.user(m.Called(ctx, exec, token, now))
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error) {
	return m.user(m.Called(ctx, exec, token, now))
}

func (m *MockUserRepository) SetVerificationToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error {
	return m.Called(ctx, exec, uuid, token, expiry).Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error {
	return m.Called(ctx, exec, uuid, token, expiry).Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, exec sqlx.ExtContext, uuid string, keepTokenUntil *time.Time) error {
	return m.Called(ctx, exec, uuid, keepTokenUntil).Error(0)
}

func (m *MockUserRepository) ConsumeResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time, newPasswordHash string) (string, error) {
	args := m.Called(ctx, exec, token, now, newPasswordHash)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) UpdateRoleAndPermissions(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, permissions []string) (*model.User, error) {
	return m.user(m.Called(ctx, exec, uuid, role, permissions))
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	return m.Called(ctx, exec, uuid).Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, exec, cursor, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockUserRepository) ClearExpiredTokens(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error) {
	args := m.Called(ctx, exec, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserCache
type MockUserCache struct {
	mock.Mock
}

func (m *MockUserCache) SetUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserCache) GetUser(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserCache) DeleteUser(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}

func (m *MockMailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}
