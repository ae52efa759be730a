package service

import (
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
)

const (
	minNameLength     = 3
	minPasswordLength = 6
	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordBytes = 72
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) []apperror.FieldError {
	address, err := mail.ParseAddress(email)
	if email == "" || err != nil || address.Address != email {
		return []apperror.FieldError{{Path: "email", Msg: "Invalid email"}}
	}
	return nil
}

func validatePassword(password string) []apperror.FieldError {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return []apperror.FieldError{{Path: "password", Msg: "Password must be at least 6 characters"}}
	}
	if len(password) > maxPasswordBytes {
		return []apperror.FieldError{{Path: "password", Msg: "Password must be at most 72 bytes"}}
	}
	return nil
}

// validateNewUser : поля регистрации. Ожидает уже нормализованные name и email.
func validateNewUser(input model.NewUser) []apperror.FieldError {
	var fields []apperror.FieldError
	if utf8.RuneCountInString(input.Name) < minNameLength {
		fields = append(fields, apperror.FieldError{Path: "name", Msg: "Name must be at least 3 characters"})
	}
	fields = append(fields, validateEmail(input.Email)...)
	fields = append(fields, validatePassword(input.Password)...)
	return fields
}

func validatePermissions(permissions []string) []apperror.FieldError {
	known := model.AllPermissions()
	for _, permission := range permissions {
		if !slices.Contains(known, permission) {
			return []apperror.FieldError{{Path: "permissions", Msg: "Unknown permission " + permission}}
		}
	}
	return nil
}
