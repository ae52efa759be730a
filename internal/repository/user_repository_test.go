package repository_test

import (
	"context"
	"database/sql/driver"
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"social-scheduler/config"
	"social-scheduler/internal/model"
	"social-scheduler/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"uuid", "name", "email", "password_hash", "role", "permissions", "is_verified",
	"verification_token", "verification_token_expiry", "reset_password_token", "reset_password_expiry",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*repository.UserRepository, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return repository.NewUserRepository(&config.Database{DB: sqlxDB}), sqlxDB, mock
}

func userRow(uuid, name, email string, createdAt time.Time) []driver.Value {
	return []driver.Value{
		uuid, name, email, "$2a$10$hash", "user", []byte("{users:read}"), false,
		nil, nil, nil, nil, createdAt, createdAt,
	}
}

func TestUserRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("успешная вставка", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		token := "abc"
		expiry := created.Add(time.Hour)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("u-1", "jane", "jane@example.com", "hash", model.RoleUser, sqlmock.AnyArg(), false, &token, &expiry).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow("u-1", "jane", "jane@example.com", created)...))

		user, err := repo.CreateUser(ctx, db, &model.User{
			UUID:                    "u-1",
			Name:                    "jane",
			Email:                   "jane@example.com",
			PasswordHash:            "hash",
			Role:                    model.RoleUser,
			VerificationToken:       &token,
			VerificationTokenExpiry: &expiry,
		})
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.UUID)
		assert.Equal(t, pq.StringArray{"users:read"}, user.Permissions)
		assert.Equal(t, created, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email уже занят", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		_, err := repo.CreateUser(ctx, db, &model.User{UUID: "u-1", Email: "jane@example.com"})
		require.ErrorIs(t, err, repository.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "users_email_key")
	})
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, db, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), db, "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByResetToken_UsesExpiryFilter(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE reset_password_token = $1 AND reset_password_expiry > $2")).
		WithArgs("reset-token", now).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow("u-1", "jane", "jane@example.com", now)...))

	user, err := repo.FindByResetToken(context.Background(), db, "reset-token", now)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("токен погашен", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("RETURNING uuid")).
			WithArgs("reset-token", now, "new-hash").
			WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("u-1"))

		userUUID, err := repo.ConsumeResetToken(ctx, db, "reset-token", now, "new-hash")
		require.NoError(t, err)
		assert.Equal(t, "u-1", userUUID)
	})

	t.Run("токен истек или уже использован", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("RETURNING uuid")).
			WillReturnRows(sqlmock.NewRows([]string{"uuid"}))

		_, err := repo.ConsumeResetToken(ctx, db, "reset-token", now, "new-hash")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository_MarkVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("токен очищается сразу", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("verification_token = NULL")).
			WithArgs("u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkVerified(ctx, db, "u-1", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("токен живет до конца окна", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		until := time.Now().Add(7 * time.Second)
		mock.ExpectExec(regexp.QuoteMeta("LEAST(verification_token_expiry, $2)")).
			WithArgs("u-1", until).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkVerified(ctx, db, "u-1", &until))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_DeleteUser_NotFound(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE uuid = $1")).
		WithArgs("u-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteUser(context.Background(), db, "u-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ListUsers(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	const (
		firstID  = "11111111-1111-4111-8111-111111111111"
		secondID = "22222222-2222-4222-8222-222222222222"
		thirdID  = "33333333-3333-4333-8333-333333333333"
	)

	t.Run("есть следующая страница", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		rows := sqlmock.NewRows(userColumns).
			AddRow(userRow(firstID, "a", "a@example.com", base)...).
			AddRow(userRow(secondID, "b", "b@example.com", base)...).
			AddRow(userRow(thirdID, "c", "c@example.com", base)...)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE (created_at, uuid) > ($1, $2)")).
			WithArgs(time.Time{}, uuid.Nil.String(), 3).
			WillReturnRows(rows)

		users, next, err := repo.ListUsers(ctx, db, "", 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, repository.EncodeCursor(base, secondID), next)
	})

	t.Run("строки с тем же created_at не теряются", func(t *testing.T) {
		repo, db, mock := newMockRepo(t)
		rows := sqlmock.NewRows(userColumns).
			AddRow(userRow(thirdID, "c", "c@example.com", base)...)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE (created_at, uuid) > ($1, $2)")).
			WithArgs(base, secondID, 3).
			WillReturnRows(rows)

		users, next, err := repo.ListUsers(ctx, db, repository.EncodeCursor(base, secondID), 2)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, thirdID, users[0].UUID)
		assert.Empty(t, next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	tests := []struct {
		name   string
		cursor string
	}{
		{"не base64", "yesterday!"},
		{"нет разделителя", base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z"))},
		{"битое время", base64.RawURLEncoding.EncodeToString([]byte("yesterday|" + firstID))},
		{"битый uuid", base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z|u-1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db, _ := newMockRepo(t)
			_, _, err := repo.ListUsers(ctx, db, tt.cursor, 10)
			assert.ErrorIs(t, err, repository.ErrInvalidCursor)
		})
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 5, 12, 30, 0, 123456789, time.FixedZone("MSK", 3*60*60))
	const id = "0b6f3c3e-4a8e-4d0e-9a57-1f2c3d4e5f60"

	gotTime, gotID, err := repository.DecodeCursor(repository.EncodeCursor(createdAt, id))
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestUserRepository_ClearExpiredTokens(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("WHERE verification_token_expiry <= $1 OR reset_password_expiry <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	cleared, err := repo.ClearExpiredTokens(context.Background(), db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, cleared)
}

func TestMigrate(t *testing.T) {
	_, db, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repository.Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
