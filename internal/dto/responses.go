package dto

import (
	"github.com/superfix/superfix-backend/internal/models"
)

// SuccessResponse - ответ без данных.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// TokenResponse - результат входа.
type TokenResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	HeroID string `json:"heroId,omitempty"`
}

// OnboardingResponse - ответ онбординга в формате {success, error}.
type OnboardingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ApplicationAcceptResponse - созданный герой и его стартовые учётные данные.
type ApplicationAcceptResponse struct {
	Hero     *models.Hero `json:"hero"`
	Username string       `json:"username"`
	Password string       `json:"password"`
}

// UploadResponse - результат загрузки медиа.
type UploadResponse struct {
	SecureURL string `json:"secure_url"`
}
