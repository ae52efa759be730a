package util_test

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model/requestresponse"
	"social-scheduler/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	first, err := util.GenerateToken(util.LifecycleTokenBytes)
	require.NoError(t, err)
	second, err := util.GenerateToken(util.LifecycleTokenBytes)
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	decoded, err := hex.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
}

func TestWriteError(t *testing.T) {
	t.Run("ошибка валидации с полями", func(t *testing.T) {
		rec := httptest.NewRecorder()
		util.WriteError(rec, apperror.Validation("Validation error",
			apperror.FieldError{Path: "email", Msg: "Invalid email"}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp requestresponse.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Validation error", resp.Message)
		assert.Equal(t, []requestresponse.FieldError{{Path: "email", Msg: "Invalid email"}}, resp.Errors)
	})

	t.Run("код истекшего токена", func(t *testing.T) {
		rec := httptest.NewRecorder()
		util.WriteError(rec, apperror.ErrTokenExpired)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp requestresponse.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, apperror.CodeTokenExpired, resp.Code)
	})

	t.Run("внутренняя ошибка не раскрывается", func(t *testing.T) {
		rec := httptest.NewRecorder()
		util.WriteError(rec, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:")
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
