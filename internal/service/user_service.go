package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"social-scheduler/config"
	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/ports"
	"social-scheduler/internal/repository"
	"social-scheduler/internal/security"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var (
	errUserExists            = apperror.Conflict("User with this email or name already exists")
	errSuperadminProtected   = apperror.Authorization(apperror.CodeForbidden, "Cannot modify or delete a superadmin account")
	errSuperadminGrantDenied = apperror.Authorization(apperror.CodeForbidden, "Only a superadmin can grant the superadmin role")
)

// UserService : администрирование учетных записей. Права вызывающего проверяются
// middleware, здесь только правила над целевой записью.
type UserService struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
	userCache      ports.UserCache
}

func NewUserService(db sqlx.ExtContext, userRepository ports.UserRepository, userCache ports.UserCache) *UserService {
	return &UserService{
		db:             db,
		userRepository: userRepository,
		userCache:      userCache,
	}
}

func (s *UserService) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	users, nextCursor, err := s.userRepository.ListUsers(ctx, s.db, cursor, limit)
	if errors.Is(err, repository.ErrInvalidCursor) {
		return nil, "", apperror.Validation("Invalid cursor", apperror.FieldError{Path: "cursor", Msg: "Invalid cursor"})
	}
	if err != nil {
		return nil, "", fmt.Errorf("[UserService] ошибка получения списка пользователей: %w", err)
	}
	return users, nextCursor, nil
}

// GetUser : id не в формате UUID считается отсутствующим пользователем, в БД не уходит
func (s *UserService) GetUser(ctx context.Context, userUUID string) (*model.User, error) {
	if !isUUID(userUUID) {
		return nil, errUserNotFound
	}

	user, err := s.userRepository.FindByUUID(ctx, s.db, userUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка поиска пользователя: %w", err)
	}
	return user, nil
}

// CreateUser : пользователь, созданный администратором, сразу считается подтвержденным
func (s *UserService) CreateUser(ctx context.Context, actor *model.User, input model.NewUser) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Role == "" {
		input.Role = model.RoleUser
	}

	fields := validateNewUser(input)
	if !input.Role.Valid() {
		fields = append(fields, apperror.FieldError{Path: "role", Msg: "Invalid role"})
	}
	fields = append(fields, validatePermissions(input.Permissions)...)
	if len(fields) > 0 {
		return nil, apperror.Validation("Validation error", fields...)
	}

	if input.Role == model.RoleSuperadmin && !actor.IsSuperadmin() {
		return nil, errSuperadminGrantDenied
	}

	_, err := s.userRepository.FindByEmailOrName(ctx, s.db, input.Email, input.Name)
	if err == nil {
		return nil, errUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("[UserService] ошибка проверки пользователя: %w", err)
	}

	return s.create(ctx, input, true)
}

func (s *UserService) create(ctx context.Context, input model.NewUser, verified bool) (*model.User, error) {
	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	created, err := s.userRepository.CreateUser(ctx, s.db, &model.User{
		UUID:         uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		Permissions:  permissions,
		IsVerified:   verified,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, errUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка создания пользователя: %w", err)
	}
	return created, nil
}

// UpdateRoleAndPermissions : пустая роль и nil permissions оставляют текущие значения
func (s *UserService) UpdateRoleAndPermissions(ctx context.Context, actor *model.User, userUUID string, role model.Role, permissions *[]string) (*model.User, error) {
	target, err := s.GetUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	if target.IsSuperadmin() {
		return nil, errSuperadminProtected
	}

	newRole := target.Role
	if role != "" {
		if !role.Valid() {
			return nil, apperror.Validation("Validation error", apperror.FieldError{Path: "role", Msg: "Invalid role"})
		}
		if role == model.RoleSuperadmin && !actor.IsSuperadmin() {
			return nil, errSuperadminGrantDenied
		}
		newRole = role
	}

	newPermissions := []string(target.Permissions)
	if permissions != nil {
		if fields := validatePermissions(*permissions); len(fields) > 0 {
			return nil, apperror.Validation("Validation error", fields...)
		}
		newPermissions = *permissions
	}

	updated, err := s.userRepository.UpdateRoleAndPermissions(ctx, s.db, userUUID, newRole, newPermissions)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка обновления пользователя: %w", err)
	}

	s.evictUser(ctx, userUUID)
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, userUUID string) error {
	target, err := s.GetUser(ctx, userUUID)
	if err != nil {
		return err
	}

	if target.IsSuperadmin() {
		return errSuperadminProtected
	}

	err = s.userRepository.DeleteUser(ctx, s.db, userUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return fmt.Errorf("[UserService] ошибка удаления пользователя: %w", err)
	}

	log.Printf("[UserService] пользователь %s удален администратором %s", userUUID, actor.UUID)
	s.evictUser(ctx, userUUID)
	return nil
}

// SeedSuperadmin : создает суперадмина из конфигурации, если его еще нет.
// Возвращает false, если учетная запись уже существовала.
func (s *UserService) SeedSuperadmin(ctx context.Context, cfg config.AdminConfig) (*model.User, bool, error) {
	email := normalizeEmail(cfg.Email)
	if email == "" {
		return nil, false, fmt.Errorf("[UserService] не задан admin.email")
	}

	existing, err := s.userRepository.FindByEmail(ctx, s.db, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("[UserService] ошибка поиска суперадмина: %w", err)
	}

	input := model.NewUser{
		Name:        strings.TrimSpace(cfg.Name),
		Email:       email,
		Password:    cfg.Password,
		Role:        model.RoleSuperadmin,
		Permissions: model.AllPermissions(),
	}
	if fields := validateNewUser(input); len(fields) > 0 {
		return nil, false, apperror.Validation("Invalid admin configuration", fields...)
	}

	created, err := s.create(ctx, input, true)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *UserService) evictUser(ctx context.Context, userUUID string) {
	if err := s.userCache.DeleteUser(ctx, userUUID); err != nil {
		log.Printf("[UserService] не удалось сбросить кэш пользователя %s: %v", userUUID, err)
	}
}

// isUUID : только каноническая форма из 36 символов, которую принимает колонка uuid
func isUUID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
