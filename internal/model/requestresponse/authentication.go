package requestresponse

import "social-scheduler/internal/model"

// SignupRequest : тело запроса на регистрацию
type SignupRequest struct {
	Name     string `json:"name" example:"jane"`
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// EmailRequest : тело запросов resend-verification-email и forgot-password
type EmailRequest struct {
	Email string `json:"email" example:"jane@example.com"`
}

// ResetPasswordRequest : новый пароль и его подтверждение
type ResetPasswordRequest struct {
	Password             string `json:"password" example:"N3wP@ssw0rd"`
	PasswordConfirmation string `json:"password_confirmation" example:"N3wP@ssw0rd"`
}

// MessageResponse : ответ без данных
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Logged out successfully"`
}

// UserResponse : ответ с пользователем (signup, me, verify-email)
type UserResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	Success     bool        `json:"success" example:"true"`
	AccessToken string      `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User        *model.User `json:"user"`
}

// RefreshTokenResponse : новый access токен
type RefreshTokenResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// FieldError : ошибка валидации конкретного поля
type FieldError struct {
	Path string `json:"path" example:"email"`
	Msg  string `json:"msg" example:"Invalid email"`
}

// ErrorResponse : единый формат ошибки
type ErrorResponse struct {
	Success bool         `json:"success" example:"false"`
	Message string       `json:"message" example:"Unauthorized - Access token expired"`
	Code    string       `json:"code,omitempty" example:"token_expired"`
	Errors  []FieldError `json:"errors,omitempty"`
}
