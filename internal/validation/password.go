package validation

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// ValidatePassword проверяет пароль героя.
// Требования:
// - Минимум 8 символов
// - Должен содержать заглавные и строчные буквы
// - Должен содержать цифры
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperror.Validation("пароль должен быть не менее 8 символов")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper || !hasLower {
		return apperror.Validation("пароль должен содержать заглавные и строчные буквы")
	}
	if !hasNumber {
		return apperror.Validation("пароль должен содержать хотя бы одну цифру")
	}
	return nil
}

// GenerateHeroPassword выдаёт стартовый пароль вида Hero1234.
func GenerateHeroPassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return "Hero" + big.NewInt(0).Add(n, big.NewInt(1000)).String(), nil
}
