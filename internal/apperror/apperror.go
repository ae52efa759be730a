// Package apperror описывает ошибки, которые видит клиент API, и их HTTP-статусы.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Машиночитаемые коды, по которым клиент отличает причины 401
const (
	CodeNoToken             = "no_token"
	CodeInvalidFormat       = "invalid_format"
	CodeTokenExpired        = "token_expired"
	CodeInvalidToken        = "invalid_token"
	CodeNoRefreshToken      = "no_refresh_token"
	CodeInvalidRefreshToken = "invalid_refresh_token"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeEmailNotVerified    = "email_not_verified"
	CodeForbidden           = "forbidden"
)

type FieldError struct {
	Path string
	Msg  string
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status : HTTP-статус для вида ошибки
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrNoToken             = Authentication(CodeNoToken, "Unauthorized - No token provided")
	ErrInvalidFormat       = Authentication(CodeInvalidFormat, "Unauthorized - Invalid token format")
	ErrTokenExpired        = Authentication(CodeTokenExpired, "Unauthorized - Access token expired")
	ErrInvalidToken        = Authentication(CodeInvalidToken, "Unauthorized - Invalid token")
	ErrNoRefreshToken      = Authentication(CodeNoRefreshToken, "Refresh token not found")
	ErrInvalidRefreshToken = Authentication(CodeInvalidRefreshToken, "Invalid refresh token")
	ErrInvalidCredentials  = Authentication(CodeInvalidCredentials, "email or password does not match")
	ErrEmailNotVerified    = Authorization(CodeEmailNotVerified, "Please verify your email before logging in")
)

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal : причина err логируется, клиент видит только message
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As : ошибка уровня API из цепочки или nil
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func KindOf(err error) Kind {
	if appErr := As(err); appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	if appErr := As(err); appErr != nil {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}
