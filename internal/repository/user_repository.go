package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"social-scheduler/config"
	"social-scheduler/internal/model"
	"social-scheduler/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrAlreadyExists = errors.New("запись уже существует")
	ErrInvalidCursor = errors.New("некорректный курсор")
)

const (
	uniqueViolation = "23505"
	cursorSeparator = "|"
)

const userColumns = `uuid, name, email, password_hash, role, permissions, is_verified,
	verification_token, verification_token_expiry, reset_password_token, reset_password_expiry,
	created_at, updated_at`

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, name, email, password_hash, role, permissions, is_verified,
		verification_token, verification_token_expiry)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + userColumns

	permissions := user.Permissions
	if permissions == nil {
		permissions = pq.StringArray{}
	}

	var createdUser model.User
	err := sqlx.GetContext(ctx, exec, &createdUser, query,
		user.UUID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		permissions,
		user.IsVerified,
		user.VerificationToken,
		user.VerificationTokenExpiry,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("[UserRepo] %w: %s", ErrAlreadyExists, pqErr.Constraint)
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return &createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	return r.getOne(ctx, exec, "не удалось найти пользователя в БД", query, uuid)
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, exec, "не удалось найти пользователя по email", query, email)
}

// FindByEmailOrName : первый пользователь, занявший email или имя
func (r *UserRepository) FindByEmailOrName(ctx context.Context, exec sqlx.ExtContext, email, name string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR name = $2 LIMIT 1`
	return r.getOne(ctx, exec, "не удалось проверить занятость email и имени", query, email, name)
}

// FindByVerificationToken : только неистекший токен
func (r *UserRepository) FindByVerificationToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE verification_token = $1 AND verification_token_expiry > $2`
	return r.getOne(ctx, exec, "не удалось найти пользователя по токену подтверждения", query, token, now)
}

// FindByResetToken : только неистекший токен
func (r *UserRepository) FindByResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE reset_password_token = $1 AND reset_password_expiry > $2`
	return r.getOne(ctx, exec, "не удалось найти пользователя по токену сброса", query, token, now)
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error {
	query := `
		UPDATE users
		SET verification_token = $2, verification_token_expiry = $3, updated_at = NOW()
		WHERE uuid = $1
	`
	return r.execOne(ctx, exec, "не удалось сохранить токен подтверждения", query, uuid, token, expiry)
}

func (r *UserRepository) SetResetToken(ctx context.Context, exec sqlx.ExtContext, uuid, token string, expiry time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $2, reset_password_expiry = $3, updated_at = NOW()
		WHERE uuid = $1
	`
	return r.execOne(ctx, exec, "не удалось сохранить токен сброса пароля", query, uuid, token, expiry)
}

// MarkVerified : подтверждает почту. При keepTokenUntil == nil токен очищается сразу,
// иначе срок жизни токена сокращается до keepTokenUntil (но не продлевается).
func (r *UserRepository) MarkVerified(ctx context.Context, exec sqlx.ExtContext, uuid string, keepTokenUntil *time.Time) error {
	if keepTokenUntil == nil {
		query := `
			UPDATE users
			SET is_verified = TRUE, verification_token = NULL, verification_token_expiry = NULL, updated_at = NOW()
			WHERE uuid = $1
		`
		return r.execOne(ctx, exec, "не удалось подтвердить почту", query, uuid)
	}

	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token_expiry = LEAST(verification_token_expiry, $2), updated_at = NOW()
		WHERE uuid = $1
	`
	return r.execOne(ctx, exec, "не удалось подтвердить почту", query, uuid, *keepTokenUntil)
}

// ConsumeResetToken : атомарно меняет пароль и гасит токен, возвращает UUID пользователя.
// Повторное использование того же токена получает ErrNotFound.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, exec sqlx.ExtContext, token string, now time.Time, newPasswordHash string) (string, error) {
	query := `
		UPDATE users
		SET password_hash = $3, reset_password_token = NULL, reset_password_expiry = NULL, updated_at = NOW()
		WHERE reset_password_token = $1 AND reset_password_expiry > $2
		RETURNING uuid
	`

	var uuid string
	err := sqlx.GetContext(ctx, exec, &uuid, query, token, now, newPasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("[UserRepo] %w", ErrNotFound)
	}
	if err != nil {
		return "", util.LogError("[UserRepo] не удалось сбросить пароль", err)
	}
	return uuid, nil
}

func (r *UserRepository) UpdateRoleAndPermissions(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, permissions []string) (*model.User, error) {
	query := `
		UPDATE users
		SET role = $2, permissions = $3, updated_at = NOW()
		WHERE uuid = $1
		RETURNING ` + userColumns

	if permissions == nil {
		permissions = []string{}
	}
	return r.getOne(ctx, exec, "не удалось обновить роль пользователя", query, uuid, role, pq.StringArray(permissions))
}

// DeleteUser : удаляет пользователя по его UUID
func (r *UserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	query := `DELETE FROM users WHERE uuid = $1`
	return r.execOne(ctx, exec, "не удалось удалить пользователя", query, uuid)
}

// ListUsers : вывод списка пользователей с cursor-based пагинацией по (created_at, uuid)
func (r *UserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE (created_at, uuid) > ($1, $2)
        ORDER BY created_at ASC, uuid ASC
        LIMIT $3
    `

	afterTime, afterUUID, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	var users []*model.User
	err = sqlx.SelectContext(ctx, exec, &users, query, afterTime, afterUUID, limit+1) // +1 для проверки наличия следующей страницы
	if err != nil {
		return nil, "", util.LogError("[UserRepo] не удалось получить список пользователей", err)
	}

	var nextCursor string
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		nextCursor = EncodeCursor(last.CreatedAt, last.UUID)
	}

	return users, nextCursor, nil
}

// EncodeCursor : base64url от "created_at|uuid" последней строки страницы
func EncodeCursor(createdAt time.Time, userUUID string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + userUUID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor : пустой курсор означает начало списка
func DecodeCursor(cursor string) (time.Time, string, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil.String(), nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("[UserRepo] %w: %v", ErrInvalidCursor, err)
	}

	createdAtPart, uuidPart, ok := strings.Cut(string(raw), cursorSeparator)
	if !ok {
		return time.Time{}, "", fmt.Errorf("[UserRepo] %w: нет разделителя", ErrInvalidCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtPart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("[UserRepo] %w: %v", ErrInvalidCursor, err)
	}
	parsed, err := uuid.Parse(uuidPart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("[UserRepo] %w: %v", ErrInvalidCursor, err)
	}

	return createdAt, parsed.String(), nil
}

// ClearExpiredTokens : обнуляет истекшие токены подтверждения и сброса
func (r *UserRepository) ClearExpiredTokens(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error) {
	query := `
		UPDATE users SET
			verification_token = CASE WHEN verification_token_expiry <= $1 THEN NULL ELSE verification_token END,
			verification_token_expiry = CASE WHEN verification_token_expiry <= $1 THEN NULL ELSE verification_token_expiry END,
			reset_password_token = CASE WHEN reset_password_expiry <= $1 THEN NULL ELSE reset_password_token END,
			reset_password_expiry = CASE WHEN reset_password_expiry <= $1 THEN NULL ELSE reset_password_expiry END
		WHERE verification_token_expiry <= $1 OR reset_password_expiry <= $1
	`

	result, err := exec.ExecContext(ctx, query, now)
	if err != nil {
		return 0, util.LogError("[UserRepo] не удалось очистить истекшие токены", err)
	}

	cleared, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("[UserRepo] не удалось получить число строк", err)
	}
	return cleared, nil
}

func (r *UserRepository) getOne(ctx context.Context, exec sqlx.ExtContext, message, query string, args ...any) (*model.User, error) {
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[UserRepo] %w", ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] "+message, err)
	}
	return &user, nil
}

func (r *UserRepository) execOne(ctx context.Context, exec sqlx.ExtContext, message, query string, args ...any) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError("[UserRepo] "+message, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] "+message, err)
	}
	if affected == 0 {
		return fmt.Errorf("[UserRepo] %w", ErrNotFound)
	}
	return nil
}
