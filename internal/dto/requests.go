package dto

import (
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
)

// LoginRequest - вход администратора или героя.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HeroPayload - тело создания и обновления героя. id, reviews,
// missionsCompleted, createdAt и updatedAt намеренно отсутствуют:
// json их просто игнорирует.
type HeroPayload struct {
	Alias       string                    `json:"alias"`
	RealName    *string                   `json:"realName"`
	Description *string                   `json:"description"`
	Category    *string                   `json:"category"`
	HourlyRate  valueobject.FlexibleFloat `json:"hourlyRate"`
	AvatarURL   *string                   `json:"avatarUrl"`
	VideoURL    *string                   `json:"videoUrl"`
	Phone       *string                   `json:"phone"`
	Email       *string                   `json:"email"`
	Location    *string                   `json:"location"`
	Powers      *string                   `json:"powers"`
	ActionAreas []string                  `json:"actionAreas"`
	TrustFactor *int                      `json:"trustFactor"`
	Username    *string                   `json:"username"`
	Password    string                    `json:"password"`
}

// CreateReviewRequest - отзыв о герое.
type CreateReviewRequest struct {
	HeroID     string `json:"heroId" binding:"required"`
	ClientName string `json:"clientName" binding:"required"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ApplyHeroRequest - анкета кандидата.
type ApplyHeroRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// OnboardingRequest - герой сам заполняет профиль.
type OnboardingRequest struct {
	HeroID      string                    `json:"heroId"`
	Alias       string                    `json:"alias"`
	Description string                    `json:"description"`
	HourlyRate  valueobject.FlexibleFloat `json:"hourlyRate"`
	ActionAreas []string                  `json:"actionAreas"`
	AvatarURL   string                    `json:"avatarUrl"`
	VideoURL    string                    `json:"videoUrl"`
}

// CategoryRequest - добавление категории.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}
