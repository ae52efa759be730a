package handler_test

import (
	"context"

	"social-scheduler/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockAuthenticationService
type MockAuthenticationService struct {
	mock.Mock
}

func userResult(args mock.Arguments) (*model.User, error) {
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Signup(ctx context.Context, input model.NewUser) (*model.User, error) {
	return userResult(m.Called(ctx, input))
}

func (m *MockAuthenticationService) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if result, ok := args.Get(0).(*model.LoginResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	args := m.Called(ctx, refreshToken)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) ResolveUser(ctx context.Context, uuid string) (*model.User, error) {
	return userResult(m.Called(ctx, uuid))
}

func (m *MockAuthenticationService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	return userResult(m.Called(ctx, token))
}

func (m *MockAuthenticationService) ResendVerificationEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthenticationService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthenticationService) ResetPassword(ctx context.Context, token, password, passwordConfirmation string) error {
	return m.Called(ctx, token, password, passwordConfirmation).Error(0)
}

func (m *MockAuthenticationService) VerifyResetToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, cursor, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockUserService) GetUser(ctx context.Context, uuid string) (*model.User, error) {
	return userResult(m.Called(ctx, uuid))
}

func (m *MockUserService) CreateUser(ctx context.Context, actor *model.User, input model.NewUser) (*model.User, error) {
	return userResult(m.Called(ctx, actor, input))
}

func (m *MockUserService) UpdateRoleAndPermissions(ctx context.Context, actor *model.User, uuid string, role model.Role, permissions *[]string) (*model.User, error) {
	return userResult(m.Called(ctx, actor, uuid, role, permissions))
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor *model.User, uuid string) error {
	return m.Called(ctx, actor, uuid).Error(0)
}
