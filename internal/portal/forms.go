package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/superfix/superfix-backend/internal/dto"
	missiondto "github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

// ErrAlreadyReviewed - в этой сессии отзыв герою уже оставлен.
var ErrAlreadyReviewed = errors.New("вы уже оставили отзыв этому герою")

type ContactAPI interface {
	CreateRequest(ctx context.Context, form missiondto.CreateRequestRequest) (*missiondto.MissionResponse, error)
}

// ValidateContact проверяет контактную форму до отправки.
func ValidateContact(form missiondto.CreateRequestRequest) error {
	if !form.TermsAccepted {
		return apperror.ErrTermsNotAccepted
	}
	if strings.TrimSpace(form.HeroID) == "" {
		return apperror.Validation("герой не выбран")
	}
	if err := validation.ValidateRequired("имя", form.ClientName); err != nil {
		return err
	}
	if err := validation.ValidatePhone(form.ClientPhone); err != nil {
		return err
	}
	if email := strings.TrimSpace(form.ClientEmail); email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return err
		}
	}
	return validation.ValidateRequired("описание", form.Description)
}

// SubmitContact отправляет заявку; невалидная форма не уходит в сеть.
func SubmitContact(ctx context.Context, api ContactAPI, form missiondto.CreateRequestRequest) (*missiondto.MissionResponse, error) {
	if err := ValidateContact(form); err != nil {
		return nil, err
	}
	return api.CreateRequest(ctx, form)
}

type ReviewAPI interface {
	CreateReview(ctx context.Context, req dto.CreateReviewRequest) (*models.Review, error)
}

// ReviewMarks - мягкие отметки об отзывах (session.Session).
type ReviewMarks interface {
	HasReviewed(heroID string) bool
	MarkReviewed(heroID string) error
}

// CanReview - показывать ли форму отзыва.
func CanReview(marks ReviewMarks, heroID string) bool {
	return !marks.HasReviewed(heroID)
}

func SubmitReview(ctx context.Context, api ReviewAPI, marks ReviewMarks, req dto.CreateReviewRequest) (*models.Review, error) {
	if !CanReview(marks, req.HeroID) {
		return nil, ErrAlreadyReviewed
	}
	if err := validation.ValidateRequired("имя", req.ClientName); err != nil {
		return nil, err
	}
	if err := validation.ValidateRating(req.Rating); err != nil {
		return nil, err
	}

	review, err := api.CreateReview(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := marks.MarkReviewed(req.HeroID); err != nil {
		return review, err
	}
	return review, nil
}

type HeroAPI interface {
	CreateHero(ctx context.Context, payload dto.HeroPayload) (*models.Hero, error)
	UpdateHero(ctx context.Context, id string, payload dto.HeroPayload) (*models.Hero, error)
}

// SaveHero создаёт героя (пустой id) или обновляет существующего.
// Пустой пароль при обновлении означает "не менять".
func SaveHero(ctx context.Context, api HeroAPI, id string, payload dto.HeroPayload) (*models.Hero, error) {
	if err := validation.ValidateAlias(payload.Alias); err != nil {
		return nil, err
	}
	payload.Password = strings.TrimSpace(payload.Password)
	if id == "" {
		return api.CreateHero(ctx, payload)
	}
	return api.UpdateHero(ctx, id, payload)
}

type OnboardingAPI interface {
	SubmitOnboarding(ctx context.Context, req dto.OnboardingRequest) error
}

// SubmitOnboarding - единая анкета героя.
func SubmitOnboarding(ctx context.Context, api OnboardingAPI, req dto.OnboardingRequest) error {
	if strings.TrimSpace(req.HeroID) == "" {
		return apperror.Validation("нет id героя, войдите заново")
	}
	if err := validation.ValidateAlias(req.Alias); err != nil {
		return err
	}
	return api.SubmitOnboarding(ctx, req)
}
