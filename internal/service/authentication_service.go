package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"social-scheduler/config"
	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/ports"
	"social-scheduler/internal/repository"
	"social-scheduler/internal/security"
	"social-scheduler/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	errInvalidVerificationToken = apperror.NotFound("Invalid or expired verification token")
	errInvalidResetToken        = apperror.NotFound("Invalid or expired reset token")
	errUserNotFound             = apperror.NotFound("User not found")
)

type AuthenticationService struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
	userCache      ports.UserCache
	jwtService     ports.JWTServiceInterface
	mailer         ports.Mailer
	ttl            config.TTL
	rotateRefresh  bool
	now            func() time.Time
}

func NewAuthenticationService(
	db sqlx.ExtContext,
	userRepository ports.UserRepository,
	userCache ports.UserCache,
	jwtService ports.JWTServiceInterface,
	mailer ports.Mailer,
	cfg *config.AppConfig,
) *AuthenticationService {
	return &AuthenticationService{
		db:             db,
		userRepository: userRepository,
		userCache:      userCache,
		jwtService:     jwtService,
		mailer:         mailer,
		ttl:            cfg.TTL,
		rotateRefresh:  cfg.JWT.RotateRefreshToken,
		now:            time.Now,
	}
}

// WithClock : подмена часов для проверки сроков жизни токенов
func (s *AuthenticationService) WithClock(now func() time.Time) *AuthenticationService {
	s.now = now
	return s
}

// Signup регистрирует пользователя без подтвержденной почты и отправляет письмо с токеном.
// Ошибка отправки письма не отменяет регистрацию: токен можно запросить повторно.
func (s *AuthenticationService) Signup(ctx context.Context, input model.NewUser) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if fields := validateNewUser(input); len(fields) > 0 {
		return nil, apperror.Validation("Validation error", fields...)
	}

	existing, err := s.userRepository.FindByEmailOrName(ctx, s.db, input.Email, input.Name)
	switch {
	case err == nil:
		return nil, duplicateUserError(existing.Email == input.Email)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("[AuthService] ошибка проверки пользователя: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateToken(util.LifecycleTokenBytes)
	if err != nil {
		return nil, err
	}
	expiry := s.now().Add(s.ttl.VerificationToken)

	created, err := s.userRepository.CreateUser(ctx, s.db, &model.User{
		UUID:                    uuid.NewString(),
		Name:                    input.Name,
		Email:                   input.Email,
		PasswordHash:            passwordHash,
		Role:                    model.RoleUser,
		Permissions:             []string{},
		IsVerified:              false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		// гонка двух регистраций: ограничение уникальности сработало после проверки
		return nil, duplicateUserError(strings.Contains(err.Error(), "email"))
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, created.Email, token); err != nil {
		log.Printf("[AuthService] письмо подтверждения для %s не отправлено: %v", created.UUID, err)
	}

	return created, nil
}

func duplicateUserError(emailTaken bool) error {
	if emailTaken {
		return apperror.Validation("user with this email already exists",
			apperror.FieldError{Path: "email", Msg: "user with this email already exists"})
	}
	return apperror.Validation("user with this username already exists",
		apperror.FieldError{Path: "name", Msg: "user with this username already exists"})
}

// Login : неверный email и неверный пароль неразличимы для клиента
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Validation("Validation error",
			apperror.FieldError{Path: "email", Msg: "Email and password are required"})
	}

	user, err := s.userRepository.FindByEmail(ctx, s.db, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperror.ErrEmailNotVerified
	}

	subject := security.SubjectOf(user)
	accessToken, err := s.jwtService.IssueAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации access токена: %w", err)
	}
	refreshToken, err := s.jwtService.IssueRefreshToken(subject)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации refresh токена: %w", err)
	}

	s.cacheUser(ctx, user)

	return &model.LoginResult{
		User: user,
		Tokens: &model.TokensPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

// Refresh выдает новый access токен по refresh токену.
// Сам refresh токен переиздается только при jwt.rotate_refresh_token.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	if refreshToken == "" {
		return nil, apperror.ErrNoRefreshToken
	}

	claims, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.ResolveUser(ctx, claims.UserUUID)
	if errors.Is(err, errUserNotFound) {
		return nil, apperror.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.IssueAccessToken(security.SubjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации access токена: %w", err)
	}

	tokens := &model.TokensPair{AccessToken: accessToken}
	if s.rotateRefresh {
		tokens.RefreshToken, err = s.jwtService.IssueRefreshToken(security.SubjectOf(user))
		if err != nil {
			return nil, fmt.Errorf("[AuthService] ошибка генерации refresh токена: %w", err)
		}
	}

	return tokens, nil
}

// ResolveUser : пользователь по UUID из токена, сначала из кэша
func (s *AuthenticationService) ResolveUser(ctx context.Context, userUUID string) (*model.User, error) {
	cached, err := s.userCache.GetUser(ctx, userUUID)
	if err != nil {
		log.Printf("[AuthService] кэш недоступен, читаем из БД: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.userRepository.FindByUUID(ctx, s.db, userUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка загрузки пользователя: %w", err)
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// VerifyEmail подтверждает почту по токену. Ошибочный и истекший токен неразличимы.
// При TTL.verification_grace > 0 токен остается действительным до конца окна,
// и повторное подтверждение в этом окне завершается тем же успехом.
func (s *AuthenticationService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errInvalidVerificationToken
	}

	now := s.now()
	user, err := s.userRepository.FindByVerificationToken(ctx, s.db, token, now)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errInvalidVerificationToken
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка поиска токена подтверждения: %w", err)
	}

	var keepTokenUntil *time.Time
	if s.ttl.VerificationGrace > 0 {
		until := now.Add(s.ttl.VerificationGrace)
		keepTokenUntil = &until
	}

	err = s.userRepository.MarkVerified(ctx, s.db, user.UUID, keepTokenUntil)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errInvalidVerificationToken
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка подтверждения почты: %w", err)
	}

	s.evictUser(ctx, user.UUID)

	user.IsVerified = true
	if keepTokenUntil == nil {
		user.VerificationToken = nil
		user.VerificationTokenExpiry = nil
	}
	return user, nil
}

func (s *AuthenticationService) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.findForMail(ctx, email)
	if err != nil {
		return err
	}

	token, err := util.GenerateToken(util.LifecycleTokenBytes)
	if err != nil {
		return err
	}

	if err := s.userRepository.SetVerificationToken(ctx, s.db, user.UUID, token, s.now().Add(s.ttl.VerificationToken)); err != nil {
		return fmt.Errorf("[AuthService] ошибка сохранения токена подтверждения: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return apperror.Internal("Failed to send verification email", err)
	}
	return nil
}

func (s *AuthenticationService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.findForMail(ctx, email)
	if err != nil {
		return err
	}

	token, err := util.GenerateToken(util.LifecycleTokenBytes)
	if err != nil {
		return err
	}

	if err := s.userRepository.SetResetToken(ctx, s.db, user.UUID, token, s.now().Add(s.ttl.ResetToken)); err != nil {
		return fmt.Errorf("[AuthService] ошибка сохранения токена сброса: %w", err)
	}

	if err := s.mailer.SendResetPasswordEmail(ctx, user.Email, token); err != nil {
		return apperror.Internal("Failed to send reset password email", err)
	}
	return nil
}

func (s *AuthenticationService) findForMail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if fields := validateEmail(email); len(fields) > 0 {
		return nil, apperror.Validation("Validation error", fields...)
	}

	user, err := s.userRepository.FindByEmail(ctx, s.db, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}
	return user, nil
}

// ResetPassword : пароль меняется и токен гасится одним запросом,
// поэтому одним токеном можно воспользоваться только один раз.
func (s *AuthenticationService) ResetPassword(ctx context.Context, token, password, passwordConfirmation string) error {
	fields := validatePassword(password)
	if password != passwordConfirmation {
		fields = append(fields, apperror.FieldError{Path: "password_confirmation", Msg: "Passwords do not match"})
	}
	if len(fields) > 0 {
		return apperror.Validation("Validation error", fields...)
	}

	if token == "" {
		return apperror.BadRequest(errInvalidResetToken.Message)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	userUUID, err := s.userRepository.ConsumeResetToken(ctx, s.db, token, s.now(), passwordHash)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.BadRequest(errInvalidResetToken.Message)
	}
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка сброса пароля: %w", err)
	}

	s.evictUser(ctx, userUUID)
	return nil
}

func (s *AuthenticationService) VerifyResetToken(ctx context.Context, token string) error {
	if token == "" {
		return errInvalidResetToken
	}

	_, err := s.userRepository.FindByResetToken(ctx, s.db, token, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка проверки токена сброса: %w", err)
	}
	return nil
}

func (s *AuthenticationService) cacheUser(ctx context.Context, user *model.User) {
	if err := s.userCache.SetUser(ctx, user); err != nil {
		log.Printf("[AuthService] не удалось закэшировать пользователя %s: %v", user.UUID, err)
	}
}

func (s *AuthenticationService) evictUser(ctx context.Context, userUUID string) {
	if err := s.userCache.DeleteUser(ctx, userUUID); err != nil {
		log.Printf("[AuthService] не удалось сбросить кэш пользователя %s: %v", userUUID, err)
	}
}
