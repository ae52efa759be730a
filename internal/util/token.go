package util

import (
	"crypto/rand"
	"encoding/hex"
)

// LifecycleTokenBytes : длина токенов подтверждения почты и сброса пароля
const LifecycleTokenBytes = 32

// GenerateToken : случайный токен из byteLength байт в hex (2 символа на байт)
func GenerateToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)

	if _, err := rand.Read(bytes); err != nil {
		return "", LogError("[util] ошибка генерации токена", err)
	}

	return hex.EncodeToString(bytes), nil
}
