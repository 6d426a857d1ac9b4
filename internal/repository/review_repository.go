package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/superfix/superfix-backend/internal/models"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв. Отзывы только добавляются.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	query := `
		INSERT INTO reviews (id, hero_id, client_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		review.ID, review.HeroID, review.ClientName, review.Rating, review.Comment,
	).Scan(&review.CreatedAt); err != nil {
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// ListByHeroID возвращает отзывы о герое, новые первыми.
func (r *ReviewRepository) ListByHeroID(ctx context.Context, heroID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE hero_id = $1 ORDER BY created_at DESC
	`, heroID)
	if err != nil {
		return nil, fmt.Errorf("review repository: list %w", err)
	}
	return reviews, nil
}

// GetAverageRating возвращает средний рейтинг героя и число отзывов.
func (r *ReviewRepository) GetAverageRating(ctx context.Context, heroID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count FROM reviews WHERE hero_id = $1
	`, heroID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: average %w", err)
	}
	return result.Avg, result.Count, nil
}
