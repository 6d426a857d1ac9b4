package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("category repository: list %w", err)
	}
	return names, nil
}

// Add - идемпотентная вставка.
func (r *CategoryRepository) Add(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("category repository: add %w", err)
	}
	return nil
}

// Remove удаляет категорию из справочника. Герои не меняются.
func (r *CategoryRepository) Remove(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("category repository: remove %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrCategoryNotFound
	}
	return nil
}
