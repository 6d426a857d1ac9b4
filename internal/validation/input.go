package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxAliasLength       = 80
	MaxNameLength        = 120
	MaxDescriptionLength = 5000
	MaxCommentLength     = 2000
	MaxCategoryLength    = 60
	MaxURLLength         = 1000
	MinRating            = 1
	MaxRating            = 5
	MaxHourlyRate        = 100000.0
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	// телефон: цифры, пробелы, +, -, скобки; от 6 до 15 цифр
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]+$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Validation(fmt.Sprintf("%s должен быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.Validation(fmt.Sprintf("%s должен быть не более %d символов", fieldName, max))
	}
	return nil
}

// ValidateRequired проверяет, что строка не пустая.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Validation(fmt.Sprintf("%s обязательно", fieldName))
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperror.Validation("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return apperror.Validation("некорректный формат email")
	}
	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return apperror.Validation("локальная часть email должна быть от 1 до 64 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return apperror.Validation("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return apperror.Validation("доменная часть email имеет некорректный формат")
	}
	return nil
}

// ValidatePhone проверяет номер телефона клиента или героя.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return apperror.Validation("телефон обязателен")
	}
	if !phoneRegex.MatchString(phone) {
		return apperror.Validation("телефон содержит недопустимые символы")
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 6 || digits > 15 {
		return apperror.Validation("телефон должен содержать от 6 до 15 цифр")
	}
	return nil
}

// ValidateAlias - псевдоним героя обязателен.
func ValidateAlias(alias string) error {
	if strings.TrimSpace(alias) == "" {
		return apperror.Validation("псевдоним героя обязателен")
	}
	return ValidateLength("псевдоним", strings.TrimSpace(alias), 0, MaxAliasLength)
}

// ValidateRating проверяет оценку от 1 до 5.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperror.Validation("оценка должна быть от 1 до 5")
	}
	return nil
}

// ValidateHourlyRate проверяет почасовую ставку.
func ValidateHourlyRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return apperror.Validation("ставка должна быть положительным числом")
	}
	if rate > MaxHourlyRate {
		return apperror.Validation(fmt.Sprintf("ставка не может превышать %.0f", MaxHourlyRate))
	}
	return nil
}

// ValidateMediaURL проверяет ссылку на аватар или видео. Пустая ссылка допустима.
func ValidateMediaURL(fieldName string, link *string) error {
	if link == nil || *link == "" {
		return nil
	}
	linkStr := strings.TrimSpace(*link)
	if err := ValidateLength(fieldName, linkStr, 0, MaxURLLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(linkStr)
	if err != nil {
		return apperror.Validation(fieldName + ": некорректный формат URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return apperror.Validation(fieldName + ": ссылка должна начинаться с http:// или https://")
	}
	if parsedURL.Host == "" {
		return apperror.Validation(fieldName + ": ссылка должна содержать доменное имя")
	}
	return nil
}
