package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

// ReviewRepository описывает зависимости ReviewService от хранилища.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByHeroID(ctx context.Context, heroID uuid.UUID) ([]models.Review, error)
}

// HeroLookup - проверка существования героя.
type HeroLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error)
}

// StatsRecomputer пересчитывает показатели героя.
type StatsRecomputer interface {
	Recompute(ctx context.Context, heroID uuid.UUID) error
}

type ReviewService struct {
	reviews ReviewRepository
	heroes  HeroLookup
	trust   StatsRecomputer
}

func NewReviewService(reviews ReviewRepository, heroes HeroLookup, trust StatsRecomputer) *ReviewService {
	return &ReviewService{reviews: reviews, heroes: heroes, trust: trust}
}

// ReviewInput - данные публичного отзыва.
type ReviewInput struct {
	HeroID     uuid.UUID
	ClientName string
	Rating     int
	Comment    string
}

// CreateReview добавляет отзыв и пересчитывает trust factor героя.
func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.ClientName)
	if err := validation.ValidateRequired("имя", name); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(in.Comment)
	if err := validation.ValidateLength("комментарий", comment, 0, validation.MaxCommentLength); err != nil {
		return nil, err
	}

	if _, err := s.heroes.GetByID(ctx, in.HeroID); err != nil {
		return nil, err
	}

	review := &models.Review{
		HeroID:     in.HeroID,
		ClientName: name,
		Rating:     in.Rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить отзыв")
	}

	// отзыв уже сохранён, ошибка пересчёта только логируется
	if s.trust != nil {
		if err := s.trust.Recompute(ctx, in.HeroID); err != nil {
			logger.WithComponent("reviews").WithError(err).WithField("hero_id", in.HeroID).
				Warn("не удалось пересчитать trust factor")
		}
	}
	return review, nil
}

func (s *ReviewService) ListHeroReviews(ctx context.Context, heroID uuid.UUID) ([]models.Review, error) {
	return s.reviews.ListByHeroID(ctx, heroID)
}
