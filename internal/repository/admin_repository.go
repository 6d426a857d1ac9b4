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

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return common.GetByField[models.Admin](ctx, r.db, "admins", "username", username, apperror.ErrInvalidCredentials)
}

// Upsert создаёт администратора или обновляет его пароль.
func (r *AdminRepository) Upsert(ctx context.Context, admin *models.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, admin.ID, admin.Username, admin.PasswordHash)
	if err != nil {
		return fmt.Errorf("admin repository: upsert %w", err)
	}
	return nil
}
