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

type ApplicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	query := `
		INSERT INTO applications (id, name, phone, email, category, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		app.ID, app.Name, app.Phone, app.Email, app.Category, app.Message,
	).Scan(&app.CreatedAt); err != nil {
		return fmt.Errorf("application repository: create %w", err)
	}
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	apps := []models.Application{}
	if err := r.db.SelectContext(ctx, &apps, `SELECT * FROM applications ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("application repository: list %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return common.GetByID[models.Application](ctx, r.db, "applications", id, apperror.ErrApplicationNotFound)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return common.DeleteByID(ctx, r.db, "applications", id, apperror.ErrApplicationNotFound)
}

// Promote в одной транзакции создаёт героя и удаляет анкету.
func (r *ApplicationRepository) Promote(ctx context.Context, appID uuid.UUID, hero *models.Hero) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertHero(ctx, tx, hero); err != nil {
			return err
		}
		return common.DeleteByID(ctx, tx, "applications", appID, apperror.ErrApplicationNotFound)
	})
}
