package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
)

// Веса формулы доверия.
const (
	trustBase           = 50.0
	trustPerCompleted   = 2.0
	trustPerCancelled   = 5.0
	trustPerRatingPoint = 10.0
	trustNeutralRating  = 3.0
	trustMin            = 0.0
	trustMax            = 100.0
)

// ComputeTrustFactor считает trust factor героя. Без отзывов рейтинг не учитывается.
func ComputeTrustFactor(completed, cancelled int, avgRating float64, reviewCount int) int {
	score := trustBase + trustPerCompleted*float64(completed) - trustPerCancelled*float64(cancelled)
	if reviewCount > 0 {
		score += trustPerRatingPoint * (avgRating - trustNeutralRating)
	}
	score = math.Max(trustMin, math.Min(trustMax, score))
	return int(math.Round(score))
}

// MissionCounter - подсчёт заявок героя по статусам.
type MissionCounter interface {
	CountByStatus(ctx context.Context, heroID uuid.UUID) (map[valueobject.MissionStatus]int, error)
}

// RatingSource - средняя оценка героя.
type RatingSource interface {
	GetAverageRating(ctx context.Context, heroID uuid.UUID) (float64, int, error)
}

// HeroStatsWriter сохраняет пересчитанные показатели.
type HeroStatsWriter interface {
	UpdateStats(ctx context.Context, id uuid.UUID, stats models.HeroStats) error
}

// TrustService пересчитывает missionsCompleted и trustFactor.
type TrustService struct {
	missions MissionCounter
	ratings  RatingSource
	heroes   HeroStatsWriter
	cache    Cache
}

func NewTrustService(missions MissionCounter, ratings RatingSource, heroes HeroStatsWriter, cache Cache) *TrustService {
	return &TrustService{missions: missions, ratings: ratings, heroes: heroes, cache: cache}
}

// Recompute вызывается после COMPLETED, CANCELLED и нового отзыва.
func (s *TrustService) Recompute(ctx context.Context, heroID uuid.UUID) error {
	counts, err := s.missions.CountByStatus(ctx, heroID)
	if err != nil {
		return err
	}
	avg, reviews, err := s.ratings.GetAverageRating(ctx, heroID)
	if err != nil {
		return err
	}

	stats := models.HeroStats{
		MissionsCompleted: counts[valueobject.MissionStatusCompleted],
		TrustFactor: ComputeTrustFactor(
			counts[valueobject.MissionStatusCompleted],
			counts[valueobject.MissionStatusCancelled],
			avg, reviews,
		),
	}
	if err := s.heroes.UpdateStats(ctx, heroID, stats); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateByPrefix(ctx, CachePrefixHeroes); err != nil {
			logger.WithComponent("trust").WithError(err).Warn("не удалось сбросить кэш героев")
		}
	}
	return nil
}
