package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"social-scheduler/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.Validation("Validation error"), http.StatusUnprocessableEntity},
		{"bad request", apperror.BadRequest("Invalid or expired reset token"), http.StatusBadRequest},
		{"expired", apperror.ErrTokenExpired, http.StatusUnauthorized},
		{"unverified", apperror.ErrEmailNotVerified, http.StatusForbidden},
		{"not found", apperror.NotFound("User not found"), http.StatusNotFound},
		{"conflict", apperror.Conflict("User already exists"), http.StatusConflict},
		{"internal", apperror.Internal("Internal server error", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("[Service] %w", apperror.ErrInvalidToken), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.HTTPStatus(tt.err))
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("[Middleware] %w", apperror.ErrTokenExpired)

	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
	assert.NotErrorIs(t, err, apperror.ErrInvalidToken)
	assert.Equal(t, apperror.CodeTokenExpired, apperror.As(err).Code)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.Internal("Internal server error", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
