package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/repository/common"
)

// HeroRepository отвечает за таблицу heroes.
type HeroRepository struct {
	db *sqlx.DB
}

func NewHeroRepository(db *sqlx.DB) *HeroRepository {
	return &HeroRepository{db: db}
}

// List возвращает всех героев по убыванию trust factor.
func (r *HeroRepository) List(ctx context.Context) ([]models.Hero, error) {
	var heroes []models.Hero
	if err := r.db.SelectContext(ctx, &heroes, `SELECT * FROM heroes ORDER BY trust_factor DESC, alias ASC`); err != nil {
		return nil, fmt.Errorf("hero repository: list %w", err)
	}
	return heroes, nil
}

func (r *HeroRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error) {
	return common.GetByID[models.Hero](ctx, r.db, "heroes", id, apperror.ErrHeroNotFound)
}

func (r *HeroRepository) GetByUsername(ctx context.Context, username string) (*models.Hero, error) {
	return common.GetByField[models.Hero](ctx, r.db, "heroes", "username", username, apperror.ErrHeroNotFound)
}

// Create вставляет героя. Занятый username - ErrUsernameTaken.
func (r *HeroRepository) Create(ctx context.Context, hero *models.Hero) error {
	return insertHero(ctx, r.db, hero)
}

func insertHero(ctx context.Context, q common.Queryer, hero *models.Hero) error {
	if hero.ID == uuid.Nil {
		hero.ID = uuid.New()
	}
	query := `
		INSERT INTO heroes (id, alias, real_name, description, category, hourly_rate, avatar_url, video_url,
			phone, email, location, powers, action_areas, trust_factor, missions_completed, username, password_hash)
		VALUES (:id, :alias, :real_name, :description, :category, :hourly_rate, :avatar_url, :video_url,
			:phone, :email, :location, :powers, :action_areas, :trust_factor, :missions_completed, :username, :password_hash)
		RETURNING created_at, updated_at
	`
	query, args, err := sqlx.Named(query, hero)
	if err != nil {
		return fmt.Errorf("hero repository: create %w", err)
	}
	query = q.Rebind(query)

	if err := q.QueryRowxContext(ctx, query, args...).Scan(&hero.CreatedAt, &hero.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.ErrUsernameTaken
		}
		return fmt.Errorf("hero repository: create %w", err)
	}
	return nil
}

// Update перезаписывает редактируемые поля. Пароль меняется только
// если PasswordHash задан.
func (r *HeroRepository) Update(ctx context.Context, hero *models.Hero) error {
	query := `
		UPDATE heroes SET
			alias = :alias, real_name = :real_name, description = :description, category = :category,
			hourly_rate = :hourly_rate, avatar_url = :avatar_url, video_url = :video_url, phone = :phone,
			email = :email, location = :location, powers = :powers, action_areas = :action_areas,
			username = :username, password_hash = COALESCE(:password_hash, password_hash), updated_at = NOW()
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, hero)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.ErrUsernameTaken
		}
		return fmt.Errorf("hero repository: update %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrHeroNotFound
	}
	return nil
}

// UpdateProfile сохраняет поля, которые герой заполняет при онбординге.
func (r *HeroRepository) UpdateProfile(ctx context.Context, hero *models.Hero) error {
	query := `
		UPDATE heroes SET
			alias = :alias, description = :description, hourly_rate = :hourly_rate,
			action_areas = :action_areas, avatar_url = :avatar_url, video_url = :video_url, updated_at = NOW()
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, hero)
	if err != nil {
		return fmt.Errorf("hero repository: update profile %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrHeroNotFound
	}
	return nil
}

func (r *HeroRepository) UpdateStats(ctx context.Context, id uuid.UUID, stats models.HeroStats) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE heroes SET missions_completed = $2, trust_factor = $3, updated_at = NOW() WHERE id = $1
	`, id, stats.MissionsCompleted, stats.TrustFactor)
	if err != nil {
		return fmt.Errorf("hero repository: update stats %w", err)
	}
	return nil
}

func (r *HeroRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return common.DeleteByID(ctx, r.db, "heroes", id, apperror.ErrHeroNotFound)
}

// ListCategories возвращает непустые категории, указанные у героев.
func (r *HeroRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SelectContext(ctx, &categories, `
		SELECT DISTINCT category FROM heroes WHERE category <> '' ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("hero repository: list categories %w", err)
	}
	return categories, nil
}
